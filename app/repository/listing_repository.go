package repository

import (
	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// listingRepository implements the ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing in the database
func (r *listingRepository) Create(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

// GetByID retrieves a listing by its id
func (r *listingRepository) GetByID(listingID string) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.Where("listing_id = ?", listingID).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetByIDWithMachine retrieves a listing together with its attached machine
func (r *listingRepository) GetByIDWithMachine(listingID string) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.Preload("Machine").Where("listing_id = ?", listingID).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List retrieves listings with pagination
func (r *listingRepository) List(offset, limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// ListForMachine retrieves all listings attached to a machine
func (r *listingRepository) ListForMachine(hardwareID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.Where("hardware_id = ?", hardwareID).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// Update persists changes to a listing
func (r *listingRepository) Update(listing *models.Listing) error {
	return r.db.Save(listing).Error
}
