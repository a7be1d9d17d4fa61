package lessonview

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hqtest/courses-server/internal/features/lesson"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/metrics"
	"github.com/hqtest/courses-server/pkg/types"
)

// LessonView is one user's progress on one lesson. There is at most one row per
// (user, lesson); repeated progress reports update it in place.
type LessonView struct {
	types.BaseModel

	UserID            uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_lesson_view_user_lesson,priority:1" json:"userId"`
	LessonID          uuid.UUID `gorm:"type:uuid;not null;column:lesson_id;uniqueIndex:idx_lesson_view_user_lesson,priority:2;index" json:"lessonId"`
	ViewedTimeSeconds int       `gorm:"not null;default:0;column:viewed_time_seconds;check:chk_lesson_views_viewed_non_negative,viewed_time_seconds >= 0" json:"viewedTimeSeconds"`
	Watched           bool      `gorm:"not null;default:false" json:"watched"`
	// LastViewedTime is written when the row is created and never refreshed.
	LastViewedTime time.Time `gorm:"not null;column:last_viewed_time" json:"lastViewedTime"`

	User   *user.User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson *lesson.Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the default table name.
func (LessonView) TableName() string { return "lesson_views" }

// IsWatched reports whether viewed covers at least 80% of duration. Integer
// arithmetic keeps the boundary exact; a zero-length lesson is always watched.
func IsWatched(viewedSeconds, durationSeconds int) bool {
	return int64(viewedSeconds)*5 >= int64(durationSeconds)*4
}

// BeforeSave recomputes Watched from the lesson's current duration on every write,
// overriding whatever the caller set.
func (v *LessonView) BeforeSave(tx *gorm.DB) error {
	if v.ViewedTimeSeconds < 0 {
		return ErrNegativeViewedTime
	}

	duration, err := lesson.Duration(tx.Session(&gorm.Session{NewDB: true}), v.LessonID)
	if err != nil {
		if errors.Is(err, lesson.ErrLessonNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	v.Watched = IsWatched(v.ViewedTimeSeconds, duration)
	if v.LastViewedTime.IsZero() {
		v.LastViewedTime = time.Now().UTC()
	}
	return nil
}

// ListFilters narrows lesson view listings.
type ListFilters struct {
	UserID   *uuid.UUID
	LessonID *uuid.UUID
}

// CreateInput carries data for inserting a new view.
type CreateInput struct {
	UserID            uuid.UUID
	LessonID          uuid.UUID
	ViewedTimeSeconds int
}

// RecordProgress stores the caller's viewed time for a lesson, creating the view on
// first report and updating it afterwards. The duration lookup and the write share
// one transaction.
func RecordProgress(db *gorm.DB, userID, lessonID uuid.UUID, viewedSeconds int) (LessonView, error) {
	if viewedSeconds < 0 {
		return LessonView{}, ErrNegativeViewedTime
	}

	var stored LessonView
	err := db.Transaction(func(tx *gorm.DB) error {
		view := LessonView{UserID: userID, LessonID: lessonID, ViewedTimeSeconds: viewedSeconds}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"viewed_time_seconds", "watched", "updated_at"}),
		}).Create(&view).Error; err != nil {
			return translate(err)
		}

		return tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error
	})
	if err != nil {
		return LessonView{}, err
	}

	metrics.RecordProgress(stored.Watched)
	return stored, nil
}

// Create inserts a new view. A second view for the same pair is rejected.
func Create(db *gorm.DB, input CreateInput) (LessonView, error) {
	view := LessonView{
		UserID:            input.UserID,
		LessonID:          input.LessonID,
		ViewedTimeSeconds: input.ViewedTimeSeconds,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&view).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return LessonView{}, ErrViewExists
		}
		return LessonView{}, translate(err)
	}
	return view, nil
}

// Save writes a modified view back; Watched is recomputed by the save hook.
func Save(db *gorm.DB, view *LessonView) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Save(view)
		if result.Error != nil {
			return translate(result.Error)
		}
		return nil
	})
}

// Get retrieves a view by ID.
func Get(db *gorm.DB, id uuid.UUID) (LessonView, error) {
	var view LessonView
	err := db.First(&view, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, ErrViewNotFound
	}
	return view, err
}

// GetForUser retrieves the view a user holds on a lesson.
func GetForUser(db *gorm.DB, userID, lessonID uuid.UUID) (LessonView, error) {
	var view LessonView
	err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, ErrViewNotFound
	}
	return view, err
}

// List returns views matching the filters.
func List(db *gorm.DB, filters ListFilters) ([]LessonView, error) {
	query := db.Model(&LessonView{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.LessonID != nil {
		query = query.Where("lesson_id = ?", *filters.LessonID)
	}

	views := make([]LessonView, 0)
	err := query.Order("created_at").Find(&views).Error
	return views, err
}

// Delete removes a view.
func Delete(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&LessonView{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrViewNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrUserNotFound
	}
	return err
}
