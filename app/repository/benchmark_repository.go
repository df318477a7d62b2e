package repository

import (
	"github.com/rackmarket/rackmarket/app/models"
	"gorm.io/gorm"
)

// benchmarkRepository implements the BenchmarkRepository interface
type benchmarkRepository struct {
	db *gorm.DB
}

// NewBenchmarkRepository creates a new benchmark repository instance
func NewBenchmarkRepository(db *gorm.DB) BenchmarkRepository {
	return &benchmarkRepository{db: db}
}

// Create creates a new benchmark record in the database
func (r *benchmarkRepository) Create(benchmark *models.Benchmark) error {
	return r.db.Create(benchmark).Error
}

// GetByID retrieves a benchmark by its id
func (r *benchmarkRepository) GetByID(benchmarkID string) (*models.Benchmark, error) {
	var benchmark models.Benchmark
	err := r.db.Where("benchmark_id = ?", benchmarkID).First(&benchmark).Error
	if err != nil {
		return nil, err
	}
	return &benchmark, nil
}

// ListForMachine retrieves all benchmarks collected for a machine
func (r *benchmarkRepository) ListForMachine(hardwareID string) ([]models.Benchmark, error) {
	var benchmarks []models.Benchmark
	err := r.db.Where("hardware_id = ?", hardwareID).Order("collected_at DESC").Find(&benchmarks).Error
	return benchmarks, err
}

// Update persists changes to a benchmark
func (r *benchmarkRepository) Update(benchmark *models.Benchmark) error {
	return r.db.Save(benchmark).Error
}
