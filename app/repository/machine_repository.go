package repository

import (
	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// machineRepository implements the MachineRepository interface
type machineRepository struct {
	db *gorm.DB
}

// NewMachineRepository creates a new machine repository instance
func NewMachineRepository(db *gorm.DB) MachineRepository {
	return &machineRepository{db: db}
}

// Create creates a new machine in the database
func (r *machineRepository) Create(machine *models.Machine) error {
	return r.db.Create(machine).Error
}

// GetByID retrieves a machine by its hardware id
func (r *machineRepository) GetByID(hardwareID string) (*models.Machine, error) {
	var machine models.Machine
	err := r.db.Where("hardware_id = ?", hardwareID).First(&machine).Error
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

// ListForCustomer retrieves all machines owned by a customer
func (r *machineRepository) ListForCustomer(customerID string) ([]models.Machine, error) {
	var machines []models.Machine
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&machines).Error
	return machines, err
}

// List retrieves machines with pagination
func (r *machineRepository) List(offset, limit int) ([]models.Machine, error) {
	var machines []models.Machine
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&machines).Error
	return machines, err
}

// Delete removes a machine by its hardware id
func (r *machineRepository) Delete(hardwareID string) error {
	return r.db.Where("hardware_id = ?", hardwareID).Delete(&models.Machine{}).Error
}
