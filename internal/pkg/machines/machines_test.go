package machines

import (
	"context"
	"testing"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMachineRepo struct {
	machines map[string]*models.Machine
}

func newFakeMachineRepo() *fakeMachineRepo {
	return &fakeMachineRepo{machines: map[string]*models.Machine{}}
}

func (f *fakeMachineRepo) Create(m *models.Machine) error {
	if m.HardwareID == "" {
		m.HardwareID = "hw-1"
	}
	f.machines[m.HardwareID] = m
	return nil
}

func (f *fakeMachineRepo) GetByID(hardwareID string) (*models.Machine, error) {
	if m, ok := f.machines[hardwareID]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMachineRepo) ListForCustomer(customerID string) ([]models.Machine, error) {
	var out []models.Machine
	for _, m := range f.machines {
		if m.CustomerID == customerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMachineRepo) List(offset, limit int) ([]models.Machine, error) {
	var out []models.Machine
	for _, m := range f.machines {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMachineRepo) Delete(hardwareID string) error {
	delete(f.machines, hardwareID)
	return nil
}

func TestCreateAndGetMachine(t *testing.T) {
	repo := newFakeMachineRepo()
	svc := NewService(repo)

	machine, err := svc.CreateMachine(context.Background(), "owner-1", CreateInput{
		GPUModel: "RTX 4090",
		RAMGB:    64,
	})
	require.NoError(t, err)

	got, err := svc.GetMachine(context.Background(), machine.HardwareID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.CustomerID)
	assert.Equal(t, 64, got.RAMGB)
}

func TestGetMachineUnknown(t *testing.T) {
	svc := NewService(newFakeMachineRepo())
	_, err := svc.GetMachine(context.Background(), "hw-x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMachineOwnerOnly(t *testing.T) {
	repo := newFakeMachineRepo()
	repo.machines["hw-1"] = &models.Machine{HardwareID: "hw-1", CustomerID: "owner-1"}
	svc := NewService(repo)

	err := svc.DeleteMachine(context.Background(), "someone-else", "hw-1")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Contains(t, repo.machines, "hw-1")

	require.NoError(t, svc.DeleteMachine(context.Background(), "owner-1", "hw-1"))
	assert.NotContains(t, repo.machines, "hw-1")
}

func TestCustomerOwnsMachine(t *testing.T) {
	repo := newFakeMachineRepo()
	repo.machines["hw-1"] = &models.Machine{HardwareID: "hw-1", CustomerID: "owner-1"}
	svc := NewService(repo)

	owns, err := svc.CustomerOwnsMachine(context.Background(), "owner-1", "hw-1")
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = svc.CustomerOwnsMachine(context.Background(), "owner-2", "hw-1")
	require.NoError(t, err)
	assert.False(t, owns)

	owns, err = svc.CustomerOwnsMachine(context.Background(), "owner-1", "hw-missing")
	require.NoError(t, err)
	assert.False(t, owns)
}
