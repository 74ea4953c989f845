package repository

import (
	"errors"
	"fmt"

	"github.com/tarostudio/portal-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreatePermissions is returned when creating the permission row fails inside the signup transaction.
	ErrCreatePermissions = errors.New("user repository: create permissions failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithPermissions creates a user and their permission row atomically.
func (r *GormUserRepository) CreateWithPermissions(user *models.User, perms *models.UserPermissions) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		perms.UserID = user.ID

		if err := tx.Create(perms).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreatePermissions, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// FindPermissions finds the permission set for a user
func (r *GormUserRepository) FindPermissions(userID uint64) (*models.UserPermissions, error) {
	var perms models.UserPermissions
	if err := r.db.Where("user_id = ?", userID).First(&perms).Error; err != nil {
		return nil, err
	}
	return &perms, nil
}

// FindSubscription finds a user's subscription
func (r *GormUserRepository) FindSubscription(userID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}
