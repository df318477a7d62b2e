// Package payments is the payment ledger plus the processor port: the
// abstraction over an external payment processor and the local records of
// every interaction with it.
package payments

import (
	"context"
	"fmt"

	"github.com/rackmarket/rackmarket/internal/pkg/env"
	"github.com/shopspring/decimal"
)

// Processor is the capability contract against the external payment
// processor. Two implementations exist: the Stripe adapter and a
// deterministic mock, selected by configuration. Orchestration code never
// sees processor-specific types or errors.
type Processor interface {
	// CreateHold authorizes funds without capturing them and returns the
	// processor reference of the authorization.
	CreateHold(ctx context.Context, amount decimal.Decimal, currency, reference string) (string, error)

	// CreatePaymentIntent starts a direct (non-hosted) collection with
	// manual capture.
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, reference string) (*PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)

	// Capture settles a previously authorized payment.
	Capture(ctx context.Context, processorRef string) error
	// CancelPaymentIntent voids an authorization that will not be captured.
	CancelPaymentIntent(ctx context.Context, processorRef string) error
	// Refund returns previously captured funds and yields the refund reference.
	Refund(ctx context.Context, processorRef string, amount decimal.Decimal) (string, error)

	// CreateCheckoutSession starts an externally hosted collection flow with
	// manual capture. The session id is the correlation key for later
	// reconciliation.
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error)
	// RetrieveCheckoutSession is the read-only reconciliation query.
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// CheckoutSessionInput carries everything the processor needs to host a
// payment collection page for one booking.
type CheckoutSessionInput struct {
	BookingID     string
	UserID        string
	Amount        decimal.Decimal
	Currency      string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

// CheckoutSession is the processor's answer to a session creation.
type CheckoutSession struct {
	SessionID       string `json:"session_id"`
	URL             string `json:"url"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

// SessionStatus is the processor-side state of a checkout session.
type SessionStatus struct {
	SessionID       string            `json:"session_id"`
	PaymentStatus   string            `json:"payment_status"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	CustomerEmail   string            `json:"customer_email,omitempty"`
	AmountTotal     decimal.Decimal   `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// SessionStatusPaid is the processor status meaning funds were collected.
const SessionStatusPaid = "paid"

// PaymentIntent mirrors the processor's direct-collection primitive.
type PaymentIntent struct {
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret,omitempty"`
	Status          string          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CaptureMethod   string          `json:"capture_method,omitempty"`
}

// ProcessorError is the single error kind every adapter translates external
// failures into, so callers never depend on processor internals.
type ProcessorError struct {
	Op  string
	Err error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("payment processor: %s: %v", e.Op, e.Err)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

func newProcessorError(op string, err error) error {
	return &ProcessorError{Op: op, Err: err}
}

// NewProcessorFromEnv selects the configured processor implementation.
// Anything other than an explicit "stripe" yields the mock.
func NewProcessorFromEnv() (Processor, error) {
	if env.GetEnv("PAYMENTS_PROVIDER", "mock") == "stripe" {
		key := env.GetEnv("STRIPE_SECRET_KEY", "")
		if key == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENTS_PROVIDER=stripe")
		}
		return NewStripeProcessor(key), nil
	}
	return NewMockProcessor(), nil
}
