package listings

import (
	"context"
	"testing"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeListingRepo struct {
	listings map[string]*models.Listing
	created  []*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*models.Listing{}}
}

func (f *fakeListingRepo) Create(l *models.Listing) error {
	if l.ListingID == "" {
		l.ListingID = "listing-1"
	}
	f.listings[l.ListingID] = l
	f.created = append(f.created, l)
	return nil
}

func (f *fakeListingRepo) GetByID(listingID string) (*models.Listing, error) {
	if l, ok := f.listings[listingID]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeListingRepo) GetByIDWithMachine(listingID string) (*models.Listing, error) {
	return f.GetByID(listingID)
}

func (f *fakeListingRepo) List(offset, limit int) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeListingRepo) ListForMachine(hardwareID string) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range f.listings {
		if l.HardwareID == hardwareID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Update(l *models.Listing) error {
	f.listings[l.ListingID] = l
	return nil
}

type fakeMachineRepo struct {
	machines map[string]*models.Machine
}

func (f *fakeMachineRepo) Create(m *models.Machine) error {
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
	return nil, nil
}

func (f *fakeMachineRepo) List(offset, limit int) ([]models.Machine, error) {
	return nil, nil
}

func (f *fakeMachineRepo) Delete(hardwareID string) error {
	delete(f.machines, hardwareID)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeListingRepo, *fakeMachineRepo) {
	t.Helper()
	t.Setenv("CACHE_ENABLED", "false")
	listingRepo := newFakeListingRepo()
	machineRepo := &fakeMachineRepo{machines: map[string]*models.Machine{
		"hw-1": {HardwareID: "hw-1", CustomerID: "owner-1"},
	}}
	return NewService(listingRepo, machineRepo), listingRepo, machineRepo
}

func hourly(rate string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(rate))
}

func TestCreateListingForOwnedMachine(t *testing.T) {
	svc, repo, _ := newTestService(t)

	listing, err := svc.CreateListing(context.Background(), "owner-1", CreateInput{
		HardwareID: "hw-1",
		PriceHour:  hourly("10.00"),
		Currency:   "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", listing.Currency)
	assert.Len(t, repo.created, 1)
}

func TestCreateListingRejectsForeignMachine(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateListing(context.Background(), "someone-else", CreateInput{
		HardwareID: "hw-1",
		PriceHour:  hourly("10.00"),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, repo.created)
}

func TestCreateListingUnknownMachine(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateListing(context.Background(), "owner-1", CreateInput{
		HardwareID: "hw-unknown",
		PriceHour:  hourly("10.00"),
	})
	assert.ErrorIs(t, err, ErrMachineNotFound)
}

func TestCreateListingValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, "owner-1", CreateInput{HardwareID: "hw-1"})
	assert.ErrorIs(t, err, ErrNoRates)

	_, err = svc.CreateListing(ctx, "owner-1", CreateInput{
		HardwareID: "hw-1",
		PriceHour:  hourly("-1.00"),
	})
	assert.ErrorIs(t, err, ErrNegativeRate)

	_, err = svc.CreateListing(ctx, "owner-1", CreateInput{
		HardwareID: "hw-1",
		PriceHour:  hourly("10.00"),
		Currency:   "EURO",
	})
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = svc.CreateListing(ctx, "owner-1", CreateInput{
		HardwareID: "hw-1",
		PriceHour:  hourly("10.00"),
		Status:     "sold",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetListingUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetListing(context.Background(), "listing-x")
	assert.ErrorIs(t, err, ErrNotFound)
}
