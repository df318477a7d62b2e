package payments

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
	// ErrNoSessionID means the processor answered a session creation without
	// a usable session id, which would leave the payment unreconcilable.
	ErrNoSessionID = errors.New("payment processor returned no session id")
	// ErrInvalidStatus means a caller asked to record a payment with a
	// status outside the known set.
	ErrInvalidStatus = errors.New("invalid payment status")
	// ErrInvalidCurrency means the currency is not a 3-letter code.
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
	// ErrInvalidAmount means the amount is negative.
	ErrInvalidAmount = errors.New("amount must not be negative")
)

// Service is the payment ledger. It records every processor interaction
// locally and drives the hosted checkout flow through the Processor port.
type Service struct {
	repo Repository
	port Processor
	now  func() time.Time
}

func NewService(repo Repository, port Processor) *Service {
	return &Service{repo: repo, port: port, now: time.Now}
}

func NewServiceFromDB(db *gorm.DB, port Processor) *Service {
	return NewService(NewRepository(db), port)
}

// CheckoutInput describes a hosted checkout to start for a booking.
type CheckoutInput struct {
	BookingID     string
	HardwareID    string
	PayerID       string
	ProviderID    string
	Amount        decimal.Decimal
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

// PlaceholderInput describes a payment row recorded without contacting the
// processor, correlated by an externally chosen reference such as an
// invoice number.
type PlaceholderInput struct {
	BookingID      string
	HardwareID     string
	PayerID        string
	ProviderID     string
	Amount         decimal.Decimal
	Currency       string
	Status         string
	CorrelationRef string
}

// CreateCheckoutSession asks the processor for a hosted session and records
// an incomplete payment keyed by the session id. The recorded row is the
// anchor that later reconciliation resolves.
func (s *Service) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, *models.Payment, error) {
	if err := validateMoney(in.Amount, in.Currency); err != nil {
		return nil, nil, err
	}
	sess, err := s.port.CreateCheckoutSession(ctx, CheckoutSessionInput{
		BookingID:     in.BookingID,
		UserID:        in.PayerID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
		CustomerEmail: in.CustomerEmail,
	})
	if err != nil {
		return nil, nil, err
	}
	if sess.SessionID == "" {
		return nil, nil, ErrNoSessionID
	}

	payment := &models.Payment{
		BookingID:      in.BookingID,
		HardwareID:     in.HardwareID,
		PayerID:        in.PayerID,
		ProviderID:     in.ProviderID,
		AmountTotal:    in.Amount,
		Currency:       strings.ToUpper(in.Currency),
		Status:         models.PaymentStatusIncomplete,
		CorrelationRef: sess.SessionID,
	}
	if err := s.repo.Create(payment); err != nil {
		return nil, nil, fmt.Errorf("record payment for session %s: %w", sess.SessionID, err)
	}
	return sess, payment, nil
}

// CreatePlaceholder records a payment row without a processor round trip.
func (s *Service) CreatePlaceholder(ctx context.Context, in PlaceholderInput) (*models.Payment, error) {
	if err := validateMoney(in.Amount, in.Currency); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.PaymentStatusIncomplete
	}
	switch status {
	case models.PaymentStatusIncomplete, models.PaymentStatusPaid, models.PaymentStatusFailed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	payment := &models.Payment{
		BookingID:      in.BookingID,
		HardwareID:     in.HardwareID,
		PayerID:        in.PayerID,
		ProviderID:     in.ProviderID,
		AmountTotal:    in.Amount,
		Currency:       strings.ToUpper(in.Currency),
		Status:         status,
		CorrelationRef: in.CorrelationRef,
	}
	if err := s.repo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifySession reads the session state from the processor. It never
// mutates the ledger; reconciliation is a separate, explicit step.
func (s *Service) VerifySession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	return s.port.RetrieveCheckoutSession(ctx, sessionID)
}

// MarkPaidByCorrelation settles the payment identified by the correlation
// reference together with its booking's invoice. Safe to repeat.
func (s *Service) MarkPaidByCorrelation(ctx context.Context, ref string) (*models.Payment, *models.Invoice, error) {
	return s.repo.MarkPaidByCorrelation(ref, s.now())
}

// MarkFailedByCorrelation records a failed collection attempt. The invoice
// is untouched; a later retry can still settle it.
func (s *Service) MarkFailedByCorrelation(ctx context.Context, ref string) (*models.Payment, error) {
	return s.repo.MarkFailedByCorrelation(ref, s.now())
}

func (s *Service) GetByCorrelation(ctx context.Context, ref string) (*models.Payment, error) {
	return s.repo.GetByCorrelation(ref)
}

func (s *Service) ListForBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return s.repo.ListForBooking(bookingID)
}

func validateMoney(amount decimal.Decimal, currency string) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}
