package payments

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockProcessor is an in-memory Processor for development and tests. Every
// operation succeeds deterministically, ids are freshly generated, and
// sessions created through it are remembered so a later retrieve reports
// the original amount. Retrieving an unknown session still reports it as
// paid so reconciliation flows can be exercised without real processor
// state.
type MockProcessor struct {
	mu       sync.Mutex
	sessions map[string]*SessionStatus
	intents  map[string]*PaymentIntent
}

func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		sessions: make(map[string]*SessionStatus),
		intents:  make(map[string]*PaymentIntent),
	}
}

func mockID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (p *MockProcessor) CreateHold(_ context.Context, amount decimal.Decimal, currency, reference string) (string, error) {
	pi := &PaymentIntent{
		PaymentIntentID: mockID("pi_mock_"),
		Status:          "requires_capture",
		Amount:          amount,
		Currency:        strings.ToLower(currency),
		CaptureMethod:   "manual",
	}
	p.mu.Lock()
	p.intents[pi.PaymentIntentID] = pi
	p.mu.Unlock()
	return pi.PaymentIntentID, nil
}

func (p *MockProcessor) CreatePaymentIntent(_ context.Context, amount decimal.Decimal, currency, reference string) (*PaymentIntent, error) {
	pi := &PaymentIntent{
		PaymentIntentID: mockID("pi_mock_"),
		ClientSecret:    mockID("pi_mock_secret_"),
		Status:          "requires_payment_method",
		Amount:          amount,
		Currency:        strings.ToLower(currency),
		CaptureMethod:   "manual",
	}
	p.mu.Lock()
	p.intents[pi.PaymentIntentID] = pi
	p.mu.Unlock()
	return pi, nil
}

func (p *MockProcessor) ConfirmPaymentIntent(_ context.Context, paymentIntentID string) (*PaymentIntent, error) {
	return p.transitionIntent(paymentIntentID, "requires_capture"), nil
}

func (p *MockProcessor) GetPaymentIntent(_ context.Context, paymentIntentID string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pi, ok := p.intents[paymentIntentID]; ok {
		out := *pi
		return &out, nil
	}
	return &PaymentIntent{
		PaymentIntentID: paymentIntentID,
		Status:          "succeeded",
		CaptureMethod:   "manual",
	}, nil
}

func (p *MockProcessor) Capture(_ context.Context, processorRef string) error {
	p.transitionIntent(processorRef, "succeeded")
	return nil
}

func (p *MockProcessor) CancelPaymentIntent(_ context.Context, processorRef string) error {
	p.transitionIntent(processorRef, "canceled")
	return nil
}

func (p *MockProcessor) Refund(_ context.Context, _ string, _ decimal.Decimal) (string, error) {
	return mockID("re_mock_"), nil
}

func (p *MockProcessor) CreateCheckoutSession(_ context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	sessionID := mockID("cs_mock_")
	intentID := mockID("pi_mock_")
	status := &SessionStatus{
		SessionID:       sessionID,
		PaymentStatus:   SessionStatusPaid,
		PaymentIntentID: intentID,
		CustomerEmail:   in.CustomerEmail,
		AmountTotal:     in.Amount,
		Currency:        strings.ToLower(in.Currency),
		Metadata: map[string]string{
			"booking_id": in.BookingID,
			"user_id":    in.UserID,
		},
	}
	p.mu.Lock()
	p.sessions[sessionID] = status
	p.mu.Unlock()
	return &CheckoutSession{
		SessionID:       sessionID,
		URL:             "https://checkout.mock.local/pay/" + sessionID,
		PaymentIntentID: intentID,
	}, nil
}

func (p *MockProcessor) RetrieveCheckoutSession(_ context.Context, sessionID string) (*SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.sessions[sessionID]; ok {
		out := *status
		return &out, nil
	}
	return &SessionStatus{
		SessionID:     sessionID,
		PaymentStatus: SessionStatusPaid,
	}, nil
}

func (p *MockProcessor) transitionIntent(paymentIntentID, status string) *PaymentIntent {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi, ok := p.intents[paymentIntentID]
	if !ok {
		pi = &PaymentIntent{
			PaymentIntentID: paymentIntentID,
			CaptureMethod:   "manual",
		}
		p.intents[paymentIntentID] = pi
	}
	pi.Status = status
	out := *pi
	return &out
}
