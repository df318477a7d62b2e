// Package bookings orchestrates the booking lifecycle: validating the
// requested window, pricing it against the listing, persisting the booking
// and provisioning its billing records.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/internal/pkg/listings"
	"github.com/shopspring/decimal"
)

var (
	// ErrAmbiguousTime means a timestamp was given without a UTC offset, so
	// its absolute position on the timeline is undefined.
	ErrAmbiguousTime = errors.New("timestamp must carry an explicit UTC offset")
	// ErrInvalidTime means a timestamp could not be parsed at all.
	ErrInvalidTime = errors.New("timestamp is not a valid RFC 3339 value")
	// ErrInvalidRange means the end of the window is not after its start.
	ErrInvalidRange    = errors.New("end timestamp must be after start timestamp")
	ErrListingNotFound = errors.New("listing not found")
	// ErrMachineNotFound means the listing exists but references no machine,
	// so there is nothing to book.
	ErrMachineNotFound = errors.New("machine for listing not found")
)

// ProvisioningError reports a booking that was created but whose invoice
// and placeholder payment could not be provisioned. The booking row is kept
// so the caller can retry or investigate; the billing side has no partial
// rows.
type ProvisioningError struct {
	BookingID string
	Err       error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("booking %s created but billing provisioning incomplete: %v", e.BookingID, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// ListingReader resolves a listing together with its machine.
type ListingReader interface {
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
}

// BillingProvisioner creates the invoice and placeholder payment for a
// newly persisted booking.
type BillingProvisioner interface {
	ProvisionBooking(ctx context.Context, booking *models.Booking, amount decimal.Decimal, currency, providerID string) error
}

type Service struct {
	repo     Repository
	listings ListingReader
	billing  BillingProvisioner
}

func NewService(repo Repository, listings ListingReader, billing BillingProvisioner) *Service {
	return &Service{repo: repo, listings: listings, billing: billing}
}

// RequestInput is a booking request as it arrives over the wire. Timestamps
// stay strings until validated because the offset requirement is part of
// the contract, not a parsing convenience.
type RequestInput struct {
	ListingID string
	Start     string
	End       string
}

// RequestBooking books the listing's machine for the buyer over the given
// window, persists the booking and provisions invoice and placeholder
// payment. Validation failures leave no rows behind; a provisioning failure
// after the booking was persisted is reported as *ProvisioningError.
func (s *Service) RequestBooking(ctx context.Context, buyerID string, in RequestInput) (*models.Booking, error) {
	return s.create(ctx, buyerID, in)
}

// AdminCreateBooking records a booking on behalf of the given buyer. Same
// validation and provisioning as a buyer-initiated request.
func (s *Service) AdminCreateBooking(ctx context.Context, buyerID string, in RequestInput) (*models.Booking, error) {
	return s.create(ctx, buyerID, in)
}

func (s *Service) create(ctx context.Context, buyerID string, in RequestInput) (*models.Booking, error) {
	start, err := parseRequestTime(in.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := parseRequestTime(in.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	listing, err := s.listings.GetListing(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, listings.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.Machine == nil {
		return nil, ErrMachineNotFound
	}

	booking := &models.Booking{
		ListingID:      listing.ListingID,
		HardwareID:     listing.HardwareID,
		BuyerID:        buyerID,
		StartTimestamp: start,
		EndTimestamp:   end,
		BookingStatus:  models.BookingStatusPending,
	}
	if err := s.repo.Create(booking); err != nil {
		return nil, err
	}

	amount := rentalAmount(start, end, listing)
	if err := s.billing.ProvisionBooking(ctx, booking, amount, listing.Currency, listing.Machine.CustomerID); err != nil {
		log.Printf("[bookings] provisioning failed for booking %s: %v", booking.BookingID, err)
		return booking, &ProvisioningError{BookingID: booking.BookingID, Err: err}
	}
	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.repo.GetByID(bookingID)
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]models.Booking, error) {
	return s.repo.ListForBuyer(buyerID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.repo.ListAll()
}

// parseRequestTime accepts only RFC 3339 timestamps, which always carry an
// explicit offset, and normalizes them to UTC. A value that parses as a
// bare local datetime is rejected as ambiguous rather than malformed.
func parseRequestTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t.UTC(), nil
	}
	if _, bareErr := time.Parse("2006-01-02T15:04:05", value); bareErr == nil {
		return time.Time{}, ErrAmbiguousTime
	}
	return time.Time{}, ErrInvalidTime
}

// rentalAmount prices the window against the listing's hourly rate, half-up
// to cents. A listing without an hourly rate prices to zero; the booking is
// still recorded and the gap is logged upstream.
func rentalAmount(start, end time.Time, listing *models.Listing) decimal.Decimal {
	if !listing.PriceHour.Valid {
		return decimal.Zero
	}
	// Millisecond resolution keeps fractional seconds in the price.
	seconds := decimal.New(end.Sub(start).Milliseconds(), -3)
	return seconds.Mul(listing.PriceHour.Decimal).Div(decimal.NewFromInt(3600)).Round(2)
}
