package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/productaccess"
)

// ProductLessonRow is one (product, lesson, progress) combination visible to a student.
// Lesson and progress fields are null when the product has no lessons or the
// student has not opened the lesson yet.
type ProductLessonRow struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	OwnerName         string     `json:"ownerName"`
	LessonID          *uuid.UUID `json:"lessonId"`
	LessonName        *string    `json:"lessonName"`
	ViewedTimeSeconds *int       `json:"viewedTimeSeconds"`
	Watched           *bool      `json:"watched"`
}

// ProductLessonDetailRow adds the first viewing time to a ProductLessonRow.
type ProductLessonDetailRow struct {
	ProductLessonRow
	LastViewedTime *time.Time `json:"lastViewedTime"`
}

const listColumns = `p.id AS id, p.name AS name, u.username AS owner_name,
	l.id AS lesson_id, l.name AS lesson_name,
	lv.viewed_time_seconds AS viewed_time_seconds, lv.watched AS watched`

// ListForUser flattens every product the user has access to.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]ProductLessonRow, error) {
	rows := make([]ProductLessonRow, 0)
	err := studentQuery(db, userID).Select(listColumns).Scan(&rows).Error
	return rows, err
}

// DetailForUser flattens one product for the user. Products the user holds no
// grant for are reported as not found.
func DetailForUser(db *gorm.DB, userID, productID uuid.UUID) ([]ProductLessonDetailRow, error) {
	ok, err := productaccess.HasAccess(db, userID, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	rows := make([]ProductLessonDetailRow, 0)
	err = studentQuery(db, userID).
		Select(listColumns+", lv.last_viewed_time AS last_viewed_time").
		Where("p.id = ?", productID).
		Scan(&rows).Error
	return rows, err
}

// The view join is restricted to the grant holder so other students' progress never leaks.
func studentQuery(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Table("product_accesses AS pa").
		Joins("JOIN products p ON p.id = pa.product_id").
		Joins("JOIN users u ON u.id = p.owner_id").
		Joins("LEFT JOIN lesson_products lp ON lp.product_id = p.id").
		Joins("LEFT JOIN lessons l ON l.id = lp.lesson_id").
		Joins("LEFT JOIN lesson_views lv ON lv.lesson_id = l.id AND lv.user_id = pa.user_id").
		Where("pa.user_id = ?", userID).
		Order("p.name, p.id, l.name, l.id")
}
