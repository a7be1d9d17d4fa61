package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/internal/features/user"
	"github.com/hqtest/courses-server/pkg/pagination"
	"github.com/hqtest/courses-server/pkg/types"
)

// MaxNameLength mirrors the products.name column size.
const MaxNameLength = 255

// Product is a purchasable course owned by one user.
type Product struct {
	types.BaseModel

	OwnerID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_id" json:"ownerId"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name"`

	Owner *user.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

// TableName overrides the default table name.
func (Product) TableName() string { return "products" }

// ListFilters narrows product listings.
type ListFilters struct {
	OwnerID *uuid.UUID
	Keyword string
}

// CreateInput carries data for creating a product.
type CreateInput struct {
	OwnerID uuid.UUID
	Name    string
}

// UpdateInput captures the mutable product fields.
type UpdateInput struct {
	OwnerID *uuid.UUID
	Name    *string
}

// List queries products with filters and pagination.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Product, int64, error) {
	query := db.Model(&Product{})

	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.Keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filters.Keyword)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := make([]Product, 0)
	if err := query.Preload("Owner").Order("created_at DESC").Scopes(params.Scope).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Get retrieves a product by ID with its owner.
func Get(db *gorm.DB, id uuid.UUID) (Product, error) {
	var product Product
	if err := db.Preload("Owner").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return product, ErrProductNotFound
		}
		return product, err
	}
	return product, nil
}

// Exists reports whether a product with the id is stored.
func Exists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountExisting returns how many of the ids reference stored products.
func CountExisting(db *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := db.Model(&Product{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// Create inserts a product after checking the owner exists.
func Create(db *gorm.DB, input CreateInput) (Product, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return Product{}, err
	}

	if err := ensureOwner(db, input.OwnerID); err != nil {
		return Product{}, err
	}

	product := Product{OwnerID: input.OwnerID, Name: name}
	if err := db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return product, ErrOwnerNotFound
		}
		return product, err
	}

	return Get(db, product.ID)
}

// Update modifies name and owner.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Product, error) {
	if _, err := Get(db, id); err != nil {
		return Product{}, err
	}

	updates := map[string]interface{}{}

	if input.Name != nil {
		name, err := normalizeName(*input.Name)
		if err != nil {
			return Product{}, err
		}
		updates["name"] = name
	}

	if input.OwnerID != nil {
		if err := ensureOwner(db, *input.OwnerID); err != nil {
			return Product{}, err
		}
		updates["owner_id"] = *input.OwnerID
	}

	if len(updates) > 0 {
		if err := db.Model(&Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return Product{}, err
		}
	}

	return Get(db, id)
}

// Delete removes a product, its access grants and its lesson links. Lessons survive
// because they may belong to other products.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"product_accesses", "lesson_products"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE product_id = ?", id).Error; err != nil {
				return fmt.Errorf("cascade product delete (%s): %w", table, err)
			}
		}

		result := tx.Delete(&Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func ensureOwner(db *gorm.DB, ownerID uuid.UUID) error {
	ok, err := user.Exists(db, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOwnerNotFound
	}
	return nil
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrNameRequired
	}
	if len([]rune(trimmed)) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}
