// Package invoices is the invoice ledger: one invoice per booking, globally
// unique invoice numbers, explicit paid transitions.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrInvalidAmount   = errors.New("amount_total must be >= 0")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
)

// numberAttempts bounds regeneration when a generated invoice number
// collides with an existing row. The unique index is the actual guarantee;
// regeneration keeps the collision invisible to callers.
const numberAttempts = 3

// Service issues and settles invoices.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an invoice service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates an invoice service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// CreateInput carries the fields needed to issue an invoice for a booking.
type CreateInput struct {
	BookingID   string
	PayerID     string
	ProviderID  string
	AmountTotal decimal.Decimal
	Currency    string
	Notes       string
}

// CreateForBooking issues an invoice for a booking. The operation is
// idempotent per booking id: if an invoice already exists it is returned
// unchanged, including when a concurrent caller wins the insert race.
func (s *Service) CreateForBooking(ctx context.Context, in CreateInput) (*models.Invoice, error) {
	if in.BookingID == "" || in.PayerID == "" || in.ProviderID == "" {
		return nil, errors.New("booking_id, payer_id and provider_id are required")
	}
	if in.AmountTotal.IsNegative() {
		return nil, ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	if existing, err := s.repo.GetByBooking(in.BookingID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	issuedAt := s.now().UTC()
	for attempt := 0; attempt < numberAttempts; attempt++ {
		inv := &models.Invoice{
			BookingID:     in.BookingID,
			PayerID:       in.PayerID,
			ProviderID:    in.ProviderID,
			AmountTotal:   in.AmountTotal.Round(2),
			Currency:      currency,
			Status:        models.InvoiceStatusIssued,
			InvoiceNumber: s.generateInvoiceNumber(),
			IssuedAt:      &issuedAt,
			Notes:         in.Notes,
		}

		err := s.repo.Create(inv)
		if err == nil {
			return inv, nil
		}
		if errors.Is(err, ErrDuplicateBooking) {
			// Someone else already created it: treat as success and re-fetch.
			existing, getErr := s.repo.GetByBooking(in.BookingID)
			if getErr == nil {
				return existing, nil
			}
			if !errors.Is(getErr, ErrNotFound) {
				return nil, getErr
			}
			// No row for the booking after all: the duplicate came from the
			// number index under a translated error. Regenerate and retry.
			continue
		}
		if errors.Is(err, ErrDuplicateNumber) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("invoice number collision persisted after %d attempts", numberAttempts)
}

// MarkPaid marks an invoice paid by its id.
func (s *Service) MarkPaid(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	inv, err := s.repo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	return s.markPaid(inv)
}

// MarkPaidByNumber marks an invoice paid by its invoice number.
func (s *Service) MarkPaidByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	inv, err := s.repo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	return s.markPaid(inv)
}

// MarkPaidByBooking marks the invoice of a booking paid.
func (s *Service) MarkPaidByBooking(ctx context.Context, bookingID string) (*models.Invoice, error) {
	inv, err := s.repo.GetByBooking(bookingID)
	if err != nil {
		return nil, err
	}
	return s.markPaid(inv)
}

// GetByBooking returns the invoice of a booking.
func (s *Service) GetByBooking(ctx context.Context, bookingID string) (*models.Invoice, error) {
	return s.repo.GetByBooking(bookingID)
}

func (s *Service) markPaid(inv *models.Invoice) (*models.Invoice, error) {
	paidAt := s.now().UTC()
	inv.Status = models.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	if err := s.repo.Save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// generateInvoiceNumber builds INV-<year>-<9 digits>, the suffix derived
// from the current time at millisecond resolution modulo 1e9.
func (s *Service) generateInvoiceNumber() string {
	now := s.now().UTC()
	suffix := now.UnixMilli() % 1_000_000_000
	return fmt.Sprintf("INV-%d-%09d", now.Year(), suffix)
}
