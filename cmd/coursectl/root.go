package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/config"
	"github.com/hqtest/courses-server/pkg/database"
	"github.com/hqtest/courses-server/pkg/logger"
)

// app holds what every subcommand needs once the root pre-run has connected.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger

	driver     string
	sqlitePath string
	logLevel   string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "coursectl",
		Short: "Maintenance commands for the courses server",
		Long: `coursectl manages the courses database outside the HTTP server.

Connection settings come from the same environment variables the server reads
(DATABASE_URL, COURSES_DB_*). --driver and --sqlite-path override them.

Examples:
  coursectl migrate
  coursectl create-user --username alice --password s3cretpass
  coursectl grant-access --user alice --product 4b0c...
  coursectl stats --json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db == nil {
				return nil
			}
			return database.Close(a.db, a.logger)
		},
	}

	root.PersistentFlags().StringVar(&a.driver, "driver", "", "Database driver override (postgres or sqlite)")
	root.PersistentFlags().StringVar(&a.sqlitePath, "sqlite-path", "", "SQLite database file (implies --driver sqlite)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newMigrateCmd(a),
		newCreateUserCmd(a),
		newGrantAccessCmd(a),
		newStatsCmd(a),
	)
	return root
}

func (a *app) connect(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.sqlitePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.SQLitePath = a.sqlitePath
	} else if a.driver != "" {
		cfg.Database.Driver = a.driver
	}

	log, err := logger.New(logger.Options{Level: a.logLevel, Console: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	db, err := database.ConnectWithRetry(cmd.Context(), cfg.Database, log, 2, 500*time.Millisecond)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.db = db.WithContext(cmd.Context())
	a.logger = log
	return nil
}
