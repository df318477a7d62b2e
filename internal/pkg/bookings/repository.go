package bookings

import (
	"errors"

	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// ErrNotFound means no booking matched the given id.
var ErrNotFound = errors.New("booking not found")

type Repository interface {
	Create(b *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	ListForBuyer(buyerID string) ([]models.Booking, error)
	ListAll() ([]models.Booking, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *gormRepository) GetByID(bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Preload("Listing").Preload("Machine").
		Where("booking_id = ?", bookingID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *gormRepository) ListForBuyer(buyerID string) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.Where("buyer_id = ?", buyerID).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormRepository) ListAll() ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
