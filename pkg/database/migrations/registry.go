package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
)

// Func applies one schema step.
type Func func(*gorm.DB) error

type namedMigration struct {
	name string
	fn   Func
}

var (
	registryMu sync.RWMutex
	registry   []namedMigration
)

// Register adds a migration in FIFO order. Registering an existing name again
// replaces the function but keeps the original position.
func Register(name string, fn Func) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for i := range registry {
		if registry[i].name == name {
			registry[i].fn = fn
			return
		}
	}
	registry = append(registry, namedMigration{name: name, fn: fn})
}

// Names lists the registered migrations in execution order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.name
	}
	return names
}

// Run executes registered migrations sequentially.
func Run(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	registryMu.RLock()
	pending := make([]namedMigration, len(registry))
	copy(pending, registry)
	registryMu.RUnlock()

	if len(pending) == 0 {
		if log != nil {
			log.Info("no database migrations registered")
		}
		return nil
	}

	db = db.WithContext(ctx)
	for _, migration := range pending {
		if log != nil {
			log.Debug("running migration", slog.String("name", migration.name))
		}

		if err := migration.fn(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.name, err)
		}
	}

	if log != nil {
		log.Info("database migrations completed", slog.Int("count", len(pending)))
	}
	return nil
}
