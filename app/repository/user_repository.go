package repository

import (
	"errors"
	"strings"

	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their customer id
func (r *userRepository) GetByID(customerID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("customer_id = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateByEmail resolves an authenticated email to a local account,
// provisioning one on first sight. Identity is issued externally; the row
// exists for foreign keys and role checks only.
func (r *userRepository) GetOrCreateByEmail(email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, gorm.ErrRecordNotFound
	}

	user, err := r.GetByEmail(normalized)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.User{Email: normalized, Role: models.RoleUser}
	if err := r.db.Create(created).Error; err != nil {
		// Concurrent first request may have won the insert.
		if existing, lookupErr := r.GetByEmail(normalized); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

// List retrieves users with pagination
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Offset(offset).Limit(limit).Order("signup_date DESC").Find(&users).Error
	return users, err
}
