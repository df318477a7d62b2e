package repository

import (
	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(customerID string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetOrCreateByEmail(email string) (*models.User, error)
	List(offset, limit int) ([]models.User, error)
}

// MachineRepository defines the interface for machine-related database operations
type MachineRepository interface {
	Create(machine *models.Machine) error
	GetByID(hardwareID string) (*models.Machine, error)
	ListForCustomer(customerID string) ([]models.Machine, error)
	List(offset, limit int) ([]models.Machine, error)
	Delete(hardwareID string) error
}

// ListingRepository defines the interface for listing-related database operations
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(listingID string) (*models.Listing, error)
	GetByIDWithMachine(listingID string) (*models.Listing, error)
	List(offset, limit int) ([]models.Listing, error)
	ListForMachine(hardwareID string) ([]models.Listing, error)
	Update(listing *models.Listing) error
}

// BenchmarkRepository defines the interface for benchmark-related database operations
type BenchmarkRepository interface {
	Create(benchmark *models.Benchmark) error
	GetByID(benchmarkID string) (*models.Benchmark, error)
	ListForMachine(hardwareID string) ([]models.Benchmark, error)
	Update(benchmark *models.Benchmark) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User      UserRepository
	Machine   MachineRepository
	Listing   ListingRepository
	Benchmark BenchmarkRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Machine:   NewMachineRepository(db),
		Listing:   NewListingRepository(db),
		Benchmark: NewBenchmarkRepository(db),
	}
}
