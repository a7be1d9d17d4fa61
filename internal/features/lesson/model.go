package lesson

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/pkg/pagination"
	"github.com/hqtest/courses-server/pkg/types"
)

// Lesson is a single video unit. A lesson can belong to several products.
type Lesson struct {
	types.BaseModel

	Name            string `gorm:"type:varchar(255);not null" json:"name"`
	VideoLink       string `gorm:"type:text;not null;column:video_link" json:"videoLink"`
	DurationSeconds int    `gorm:"not null;default:0;column:duration_seconds;check:chk_lessons_duration_non_negative,duration_seconds >= 0" json:"durationSeconds"`

	ProductIDs []uuid.UUID `gorm:"-" json:"productIds"`
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "lessons" }

// LessonProduct links a lesson to a product. Rows disappear with either side.
type LessonProduct struct {
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey;column:lesson_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;column:product_id;index"`

	Lesson  *Lesson          `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default table name.
func (LessonProduct) TableName() string { return "lesson_products" }

// ListFilters narrows lesson listings.
type ListFilters struct {
	ProductID *uuid.UUID
	Keyword   string
}

// CreateInput carries data for creating a lesson.
type CreateInput struct {
	Name            string
	VideoLink       string
	DurationSeconds int
	ProductIDs      []uuid.UUID
}

// UpdateInput captures the mutable lesson fields. Changing the duration does not
// touch existing views; their watched flag is refreshed on their next write.
type UpdateInput struct {
	Name            *string
	VideoLink       *string
	DurationSeconds *int
}

// List queries lessons with filters and pagination.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Lesson, int64, error) {
	query := db.Model(&Lesson{})

	if filters.ProductID != nil {
		query = query.Where("id IN (?)",
			db.Model(&LessonProduct{}).Select("lesson_id").Where("product_id = ?", *filters.ProductID))
	}
	if filters.Keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Keyword)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	lessons := make([]Lesson, 0)
	if err := query.Order("created_at DESC").Scopes(params.Scope).Find(&lessons).Error; err != nil {
		return nil, 0, err
	}

	if err := loadProductIDs(db, lessons); err != nil {
		return nil, 0, err
	}

	return lessons, total, nil
}

// Get retrieves a lesson by ID together with the ids of its products.
func Get(db *gorm.DB, id uuid.UUID) (Lesson, error) {
	var lesson Lesson
	if err := db.First(&lesson, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lesson, ErrLessonNotFound
		}
		return lesson, err
	}

	lessons := []Lesson{lesson}
	if err := loadProductIDs(db, lessons); err != nil {
		return lesson, err
	}
	return lessons[0], nil
}

// Duration returns the stored duration of a lesson.
func Duration(db *gorm.DB, id uuid.UUID) (int, error) {
	var lesson Lesson
	err := db.Select("duration_seconds").First(&lesson, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrLessonNotFound
	}
	return lesson.DurationSeconds, err
}

// Create inserts a lesson and links it to the given products in one transaction.
func Create(db *gorm.DB, input CreateInput) (Lesson, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return Lesson{}, err
	}
	link, err := normalizeVideoLink(input.VideoLink)
	if err != nil {
		return Lesson{}, err
	}
	if input.DurationSeconds < 0 {
		return Lesson{}, ErrNegativeDuration
	}

	lesson := Lesson{Name: name, VideoLink: link, DurationSeconds: input.DurationSeconds}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}
		return attach(tx, lesson.ID, input.ProductIDs)
	})
	if err != nil {
		return Lesson{}, err
	}

	return Get(db, lesson.ID)
}

// Update modifies name, video link and duration.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Lesson, error) {
	if _, err := Get(db, id); err != nil {
		return Lesson{}, err
	}

	updates := map[string]interface{}{}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return Lesson{}, err
		}
		updates["name"] = name
	}

	if input.VideoLink != nil {
		link, err := normalizeVideoLink(*input.VideoLink)
		if err != nil {
			return Lesson{}, err
		}
		updates["video_link"] = link
	}

	if input.DurationSeconds != nil {
		if *input.DurationSeconds < 0 {
			return Lesson{}, ErrNegativeDuration
		}
		updates["duration_seconds"] = *input.DurationSeconds
	}

	if len(updates) > 0 {
		if err := db.Model(&Lesson{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return Lesson{}, err
		}
	}

	return Get(db, id)
}

// Delete removes a lesson, its views and its product links.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM lesson_views WHERE lesson_id = ?", id).Error; err != nil {
			return fmt.Errorf("cascade lesson delete (lesson_views): %w", err)
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&LessonProduct{}).Error; err != nil {
			return fmt.Errorf("cascade lesson delete (lesson_products): %w", err)
		}

		result := tx.Delete(&Lesson{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLessonNotFound
		}
		return nil
	})
}

// AttachProducts links an existing lesson to products. Existing links are kept.
func AttachProducts(db *gorm.DB, lessonID uuid.UUID, productIDs []uuid.UUID) (Lesson, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Duration(tx, lessonID); err != nil {
			return err
		}
		return attach(tx, lessonID, productIDs)
	})
	if err != nil {
		return Lesson{}, err
	}
	return Get(db, lessonID)
}

// DetachProduct removes one lesson/product link.
func DetachProduct(db *gorm.DB, lessonID, productID uuid.UUID) error {
	result := db.Where("lesson_id = ? AND product_id = ?", lessonID, productID).Delete(&LessonProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotLinked
	}
	return nil
}

// ProductIDs lists the products a lesson belongs to.
func ProductIDs(db *gorm.DB, lessonID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := db.Model(&LessonProduct{}).Where("lesson_id = ?", lessonID).Order("product_id").Pluck("product_id", &ids).Error
	return ids, err
}

func attach(tx *gorm.DB, lessonID uuid.UUID, productIDs []uuid.UUID) error {
	productIDs = dedupe(productIDs)
	if len(productIDs) == 0 {
		return nil
	}

	found, err := product.CountExisting(tx, productIDs)
	if err != nil {
		return err
	}
	if found != int64(len(productIDs)) {
		return ErrProductNotFound
	}

	links := make([]LessonProduct, 0, len(productIDs))
	for _, productID := range productIDs {
		links = append(links, LessonProduct{LessonID: lessonID, ProductID: productID})
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func loadProductIDs(db *gorm.DB, lessons []Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(lessons))
	index := make(map[uuid.UUID]int, len(lessons))
	for i := range lessons {
		ids[i] = lessons[i].ID
		index[lessons[i].ID] = i
		lessons[i].ProductIDs = make([]uuid.UUID, 0)
	}

	var links []LessonProduct
	if err := db.Where("lesson_id IN ?", ids).Order("product_id").Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		i := index[link.LessonID]
		lessons[i].ProductIDs = append(lessons[i].ProductIDs, link.ProductID)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrNameRequired
	}
	if len([]rune(trimmed)) > product.MaxNameLength {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}

func normalizeVideoLink(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", ErrInvalidVideoLink
	}
	return trimmed, nil
}
