package bootstrap

import (
	"sync"

	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/lesson"
	"github.com/hqtest/courses-server/internal/features/lessonview"
	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/database/migrations"
)

var registerOnce sync.Once

// RegisterMigrations adds the course schema to the migration registry. Safe to call repeatedly.
func RegisterMigrations() {
	registerOnce.Do(func() {
		migrations.Register("core_schema", func(db *gorm.DB) error {
			return db.AutoMigrate(
				&user.User{},
				&product.Product{},
				&lesson.Lesson{},
				&lesson.LessonProduct{},
				&productaccess.ProductAccess{},
				&lessonview.LessonView{},
			)
		})
	})
}
