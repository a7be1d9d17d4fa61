package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hqtest/courses-server/pkg/pagination"
	"github.com/hqtest/courses-server/pkg/types"
	"github.com/hqtest/courses-server/pkg/validation"
)

// MinPasswordLength is enforced on create and password change.
const MinPasswordLength = 8

const bcryptCost = 10

// User is an account. Only the identifier, username and admin flag matter to the
// course domain; passwords back the login endpoint.
type User struct {
	types.BaseModel

	Username string         `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	Password string         `gorm:"type:varchar(255);not null" json:"-"`
	UserType types.UserType `gorm:"type:varchar(20);not null;default:'student';column:user_type;index" json:"userType"`
	Active   bool           `gorm:"not null;column:is_active" json:"isActive"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user carries administrator privileges.
func (u User) IsAdmin() bool { return u.UserType.IsStaff() }

// ListFilters defines user query filters.
type ListFilters struct {
	Keyword  string
	UserType types.UserType
}

// CreateInput carries data for creating a new user.
type CreateInput struct {
	Username string
	Password string
	UserType types.UserType
	Active   *bool
}

// UpdateInput captures mutable user fields.
type UpdateInput struct {
	Password *string
	UserType *types.UserType
	Active   *bool
}

// List queries users with filters and pagination.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	query := db.Model(&User{})

	if filters.Keyword != "" {
		query = query.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(filters.Keyword)+"%")
	}
	if filters.UserType != "" {
		query = query.Where("user_type = ?", filters.UserType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]User, 0)
	if err := query.Order("created_at DESC").Scopes(params.Scope).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Count returns the number of users in the system, staff included.
func Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&User{}).Count(&total).Error
	return total, err
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var user User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

// GetByUsername retrieves a user by exact username.
func GetByUsername(db *gorm.DB, username string) (User, error) {
	var user User
	if err := db.First(&user, "username = ?", strings.TrimSpace(username)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

// Exists reports whether a user with the id is stored.
func Exists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new user with hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	username, err := validation.NormalizeUsername(input.Username)
	if err != nil {
		return User{}, err
	}

	if input.UserType == "" {
		input.UserType = types.UserTypeStudent
	}
	if !input.UserType.Valid() {
		return User{}, ErrInvalidUserType
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		Username: username,
		Password: hashed,
		UserType: input.UserType,
		Active:   true,
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	// is_active carries no column default, so a false value is written as given.
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user, ErrUsernameTaken
		}
		return user, err
	}

	return user, nil
}

// Update modifies an existing user.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (User, error) {
	if _, err := Get(db, id); err != nil {
		return User{}, err
	}

	updates := map[string]interface{}{}

	if input.Password != nil {
		hashed, err := HashPassword(*input.Password)
		if err != nil {
			return User{}, err
		}
		updates["password"] = hashed
	}

	if input.UserType != nil {
		if !input.UserType.Valid() {
			return User{}, ErrInvalidUserType
		}
		updates["user_type"] = *input.UserType
	}

	if input.Active != nil {
		updates["is_active"] = *input.Active
	}

	if len(updates) > 0 {
		if err := db.Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return User{}, err
		}
	}

	return Get(db, id)
}

// Delete removes a user together with everything that references it: their access
// grants and lesson views, and the products they own (with those products' grants
// and lesson links).
func Delete(db *gorm.DB, id uuid.UUID) error {
	args := map[string]interface{}{"id": id}
	cascade := []string{
		"DELETE FROM lesson_views WHERE user_id = @id",
		"DELETE FROM product_accesses WHERE user_id = @id OR product_id IN (SELECT id FROM products WHERE owner_id = @id)",
		"DELETE FROM lesson_products WHERE product_id IN (SELECT id FROM products WHERE owner_id = @id)",
		"DELETE FROM products WHERE owner_id = @id",
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range cascade {
			if err := tx.Exec(stmt, args).Error; err != nil {
				return fmt.Errorf("cascade user delete: %w", err)
			}
		}

		result := tx.Delete(&User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// HashPassword validates and bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrInvalidPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword checks if the provided password matches the user's hashed password.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
