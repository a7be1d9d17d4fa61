package productaccess

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/metrics"
	"github.com/hqtest/courses-server/pkg/types"
)

// ProductAccess grants one user viewing rights on one product. The unique index
// guarantees at most one row per pair.
type ProductAccess struct {
	types.BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_product_access_user_product,priority:1" json:"userId"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;column:product_id;uniqueIndex:idx_product_access_user_product,priority:2;index" json:"productId"`

	User    *user.User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the default table name.
func (ProductAccess) TableName() string { return "product_accesses" }

// Grant gives the user access to the product. Granting an existing pair is a
// successful no-op; created reports whether a new row was written.
//
// The insert relies on ON CONFLICT against the unique index, so concurrent grants
// for the same pair cannot produce duplicates.
func Grant(db *gorm.DB, userID, productID uuid.UUID) (access ProductAccess, created bool, err error) {
	if err := ensureParties(db, userID, productID); err != nil {
		return ProductAccess{}, false, err
	}

	access = ProductAccess{UserID: userID, ProductID: productID}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&access)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ProductAccess{}, false, ErrProductNotFound
		}
		return ProductAccess{}, false, result.Error
	}
	created = result.RowsAffected == 1

	if !created {
		access, err = Get(db, userID, productID)
		if err != nil {
			return ProductAccess{}, false, err
		}
	}

	metrics.RecordAccessGrant(created)
	return access, created, nil
}

// Revoke removes a grant.
func Revoke(db *gorm.DB, userID, productID uuid.UUID) error {
	result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&ProductAccess{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccessNotFound
	}
	return nil
}

// Get returns the grant for a pair.
func Get(db *gorm.DB, userID, productID uuid.UUID) (ProductAccess, error) {
	var access ProductAccess
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access, ErrAccessNotFound
	}
	return access, err
}

// HasAccess reports whether the user holds a grant for the product.
func HasAccess(db *gorm.DB, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&ProductAccess{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// HasLessonAccess reports whether the user holds a grant for any product containing the lesson.
func HasLessonAccess(db *gorm.DB, userID, lessonID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&ProductAccess{}).
		Joins("JOIN lesson_products lp ON lp.product_id = product_accesses.product_id").
		Where("product_accesses.user_id = ? AND lp.lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns every grant held by a user.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]ProductAccess, error) {
	accesses := make([]ProductAccess, 0)
	err := db.Where("user_id = ?", userID).Order("created_at").Find(&accesses).Error
	return accesses, err
}

// ListForProduct returns every grant on a product.
func ListForProduct(db *gorm.DB, productID uuid.UUID) ([]ProductAccess, error) {
	accesses := make([]ProductAccess, 0)
	err := db.Where("product_id = ?", productID).Order("created_at").Find(&accesses).Error
	return accesses, err
}

func ensureParties(db *gorm.DB, userID, productID uuid.UUID) error {
	ok, err := user.Exists(db, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	ok, err = product.Exists(db, productID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}
