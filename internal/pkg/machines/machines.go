// Package machines manages the machine inventory on behalf of owners.
package machines

import (
	"context"
	"errors"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/app/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("machine not found")
	// ErrNotOwner means the caller does not own the machine they operate on.
	ErrNotOwner = errors.New("machine is not owned by caller")
)

type Service struct {
	repo repository.MachineRepository
}

func NewService(repo repository.MachineRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMachine(ctx context.Context, hardwareID string) (*models.Machine, error) {
	machine, err := s.repo.GetByID(hardwareID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return machine, nil
}

func (s *Service) ListMachines(ctx context.Context, offset, limit int) ([]models.Machine, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(offset, limit)
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]models.Machine, error) {
	return s.repo.ListForCustomer(customerID)
}

// CreateInput is a machine registration payload.
type CreateInput struct {
	GPUModel         string
	CPUModel         string
	RAMGB            int
	DiskType         string
	DiskSizeGB       int
	NetworkBandwidth string
	OS               string
}

func (s *Service) CreateMachine(ctx context.Context, customerID string, in CreateInput) (*models.Machine, error) {
	machine := &models.Machine{
		CustomerID:       customerID,
		GPUModel:         in.GPUModel,
		CPUModel:         in.CPUModel,
		RAMGB:            in.RAMGB,
		DiskType:         in.DiskType,
		DiskSizeGB:       in.DiskSizeGB,
		NetworkBandwidth: in.NetworkBandwidth,
		OS:               in.OS,
	}
	if err := s.repo.Create(machine); err != nil {
		return nil, err
	}
	return machine, nil
}

// DeleteMachine removes a machine after verifying the caller owns it.
func (s *Service) DeleteMachine(ctx context.Context, customerID, hardwareID string) error {
	machine, err := s.repo.GetByID(hardwareID)
	if err != nil {
		return translateNotFound(err)
	}
	if machine.CustomerID != customerID {
		return ErrNotOwner
	}
	return s.repo.Delete(hardwareID)
}

// CustomerOwnsMachine reports whether the machine exists and belongs to the
// customer.
func (s *Service) CustomerOwnsMachine(ctx context.Context, customerID, hardwareID string) (bool, error) {
	machine, err := s.repo.GetByID(hardwareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return machine.CustomerID == customerID, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
