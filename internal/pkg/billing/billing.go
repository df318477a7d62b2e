// Package billing ties the booking, invoice and payment ledgers together:
// it provisions billing records when a booking is created and drives the
// hosted checkout flow from initiation to reconciliation.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rackmarket/rackmarket/app/models"
	"github.com/rackmarket/rackmarket/internal/pkg/invoices"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrForbidden means the caller is neither the buyer of the booking nor
	// an admin.
	ErrForbidden = errors.New("caller does not own this booking")
)

type Service struct {
	db       *gorm.DB
	port     payments.Processor
	payments *payments.Service
}

func NewService(db *gorm.DB, port payments.Processor) *Service {
	return &Service{
		db:       db,
		port:     port,
		payments: payments.NewServiceFromDB(db, port),
	}
}

// ProvisionBooking creates the invoice and a placeholder payment for a
// freshly created booking in one database transaction: either both ledgers
// get their row or neither does. The placeholder is correlated by the
// invoice number so a manual settlement can find it without a checkout
// session.
func (s *Service) ProvisionBooking(ctx context.Context, booking *models.Booking, amount decimal.Decimal, currency, providerID string) error {
	if amount.IsZero() {
		log.Printf("[billing] booking %s provisioned with zero amount, listing had no hourly rate", booking.BookingID)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := invoices.NewServiceFromDB(tx).CreateForBooking(ctx, invoices.CreateInput{
			BookingID:   booking.BookingID,
			PayerID:     booking.BuyerID,
			ProviderID:  providerID,
			AmountTotal: amount,
			Currency:    currency,
		})
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		_, err = payments.NewServiceFromDB(tx, s.port).CreatePlaceholder(ctx, payments.PlaceholderInput{
			BookingID:      booking.BookingID,
			HardwareID:     booking.HardwareID,
			PayerID:        booking.BuyerID,
			ProviderID:     providerID,
			Amount:         amount,
			Currency:       currency,
			Status:         models.PaymentStatusIncomplete,
			CorrelationRef: inv.InvoiceNumber,
		})
		if err != nil {
			return fmt.Errorf("create placeholder payment: %w", err)
		}
		return nil
	})
}

// InitiateInput describes a checkout start request for an existing booking.
type InitiateInput struct {
	BookingID     string
	HardwareID    string
	PayerID       string
	IsAdmin       bool
	Amount        decimal.Decimal
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

// InitiateCheckout verifies that the caller may pay for the booking, then
// starts a hosted checkout session and records the pending payment.
func (s *Service) InitiateCheckout(ctx context.Context, in InitiateInput) (*payments.CheckoutSession, *models.Payment, error) {
	var booking models.Booking
	err := s.db.Where("booking_id = ?", in.BookingID).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}
	if booking.BuyerID != in.PayerID && !in.IsAdmin {
		return nil, nil, ErrForbidden
	}
	hardwareID := in.HardwareID
	if hardwareID == "" {
		hardwareID = booking.HardwareID
	}
	return s.payments.CreateCheckoutSession(ctx, payments.CheckoutInput{
		BookingID:     booking.BookingID,
		HardwareID:    hardwareID,
		PayerID:       in.PayerID,
		Amount:        in.Amount,
		Currency:      in.Currency,
		SuccessURL:    in.SuccessURL,
		CancelURL:     in.CancelURL,
		CustomerEmail: in.CustomerEmail,
	})
}

// VerifyResult is the read-only view of a checkout session's state.
type VerifyResult struct {
	Session *payments.SessionStatus `json:"session"`
	Paid    bool                    `json:"paid"`
}

// VerifyCheckout asks the processor about the session without touching the
// ledgers. Settlement only happens through ReconcileCheckout.
func (s *Service) VerifyCheckout(ctx context.Context, sessionID string) (*VerifyResult, error) {
	status, err := s.payments.VerifySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Session: status,
		Paid:    status.PaymentStatus == payments.SessionStatusPaid,
	}, nil
}

// ReconcileCheckout settles the payment recorded for the session together
// with the booking's invoice. Repeating the call is harmless.
func (s *Service) ReconcileCheckout(ctx context.Context, sessionID string) (*models.Payment, *models.Invoice, error) {
	return s.payments.MarkPaidByCorrelation(ctx, sessionID)
}
