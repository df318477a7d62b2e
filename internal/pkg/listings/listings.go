// Package listings manages rentable offers for machines.
package listings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/app/repository"
	"github.com/rackmarket/rackmarket/internal/pkg/cache"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("listing not found")
	// ErrNotOwner means the caller tried to list a machine they do not own.
	ErrNotOwner        = errors.New("machine is not owned by caller")
	ErrMachineNotFound = errors.New("machine not found")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
	ErrInvalidStatus   = errors.New("invalid listing status")
	ErrNegativeRate    = errors.New("rates must not be negative")
	// ErrNoRates means no pricing tier was given at all, which would make
	// the listing unbookable.
	ErrNoRates = errors.New("at least one rate must be set")
)

const listingCacheTTL = 30 * time.Second

type Service struct {
	listings repository.ListingRepository
	machines repository.MachineRepository
}

func NewService(listings repository.ListingRepository, machines repository.MachineRepository) *Service {
	return &Service{listings: listings, machines: machines}
}

// GetListing returns the listing with its machine preloaded. Reads go
// through the cache when it is enabled; a cache failure falls through to
// the database.
func (s *Service) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	cacheKey := "listing:" + listingID
	if cache.IsEnabled() {
		if raw, err := cache.Get(cacheKey); err == nil {
			var listing models.Listing
			if err := json.Unmarshal([]byte(raw), &listing); err == nil {
				return &listing, nil
			}
		}
	}

	listing, err := s.listings.GetByIDWithMachine(listingID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	if cache.IsEnabled() {
		if raw, err := json.Marshal(listing); err == nil {
			if err := cache.Set(cacheKey, string(raw), listingCacheTTL); err != nil {
				log.Printf("[listings] cache set failed for %s: %v", listingID, err)
			}
		}
	}
	return listing, nil
}

func (s *Service) ListListings(ctx context.Context, offset, limit int) ([]models.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.listings.List(offset, limit)
}

func (s *Service) ListForMachine(ctx context.Context, hardwareID string) ([]models.Listing, error) {
	return s.listings.ListForMachine(hardwareID)
}

// CreateInput is a new listing as submitted by a machine owner.
type CreateInput struct {
	HardwareID string
	PriceHour  decimal.NullDecimal
	PriceDay   decimal.NullDecimal
	PriceWeek  decimal.NullDecimal
	Currency   string
	Status     string
}

// CreateListing validates the payload, checks that the caller owns the
// machine and persists the listing.
func (s *Service) CreateListing(ctx context.Context, customerID string, in CreateInput) (*models.Listing, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	machine, err := s.machines.GetByID(in.HardwareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}
	if machine.CustomerID != customerID {
		return nil, ErrNotOwner
	}

	listing := &models.Listing{
		HardwareID: in.HardwareID,
		PriceHour:  in.PriceHour,
		PriceDay:   in.PriceDay,
		PriceWeek:  in.PriceWeek,
		Currency:   strings.ToUpper(in.Currency),
		Status:     in.Status,
	}
	if listing.Currency == "" {
		listing.Currency = "EUR"
	}
	if err := s.listings.Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func validateCreate(in CreateInput) error {
	if in.Currency != "" && len(in.Currency) != 3 {
		return ErrInvalidCurrency
	}
	switch in.Status {
	case "", models.ListingStatusActive, models.ListingStatusPaused, models.ListingStatusArchived:
	default:
		return ErrInvalidStatus
	}
	hasRate := false
	for _, rate := range []decimal.NullDecimal{in.PriceHour, in.PriceDay, in.PriceWeek} {
		if !rate.Valid {
			continue
		}
		if rate.Decimal.IsNegative() {
			return ErrNegativeRate
		}
		hasRate = true
	}
	if !hasRate {
		return ErrNoRates
	}
	return nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
