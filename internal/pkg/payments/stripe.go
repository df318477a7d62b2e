package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// stripeTimeout bounds every outbound call so a stalled processor cannot
// hang a request indefinitely.
const stripeTimeout = 15 * time.Second

// StripeProcessor implements Processor against the Stripe API. All holds
// and sessions use manual capture so funds are only settled by an explicit
// Capture call.
type StripeProcessor struct{}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: stripeTimeout})
	return &StripeProcessor{}
}

// toMinorUnits converts a decimal major-unit amount to the integer minor
// units the Stripe API expects.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func (p *StripeProcessor) CreateHold(ctx context.Context, amount decimal.Decimal, currency, reference string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(amount)),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: []*string{
			stripe.String("card"),
		},
	}
	params.Context = ctx
	params.AddMetadata("reference", reference)
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", newProcessorError("create hold", err)
	}
	return pi.ID, nil
}

func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency, reference string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(amount)),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: []*string{
			stripe.String("card"),
		},
	}
	params.Context = ctx
	params.AddMetadata("reference", reference)
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, newProcessorError("create payment intent", err)
	}
	return convertPaymentIntent(pi), nil
}

func (p *StripeProcessor) ConfirmPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx
	pi, err := paymentintent.Confirm(paymentIntentID, params)
	if err != nil {
		return nil, newProcessorError("confirm payment intent", err)
	}
	return convertPaymentIntent(pi), nil
}

func (p *StripeProcessor) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return nil, newProcessorError("get payment intent", err)
	}
	return convertPaymentIntent(pi), nil
}

func (p *StripeProcessor) Capture(ctx context.Context, processorRef string) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if _, err := paymentintent.Capture(processorRef, params); err != nil {
		return newProcessorError("capture", err)
	}
	return nil
}

func (p *StripeProcessor) CancelPaymentIntent(ctx context.Context, processorRef string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := paymentintent.Cancel(processorRef, params); err != nil {
		return newProcessorError("cancel payment intent", err)
	}
	return nil
}

func (p *StripeProcessor) Refund(ctx context.Context, processorRef string, amount decimal.Decimal) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(processorRef),
	}
	if amount.IsPositive() {
		params.Amount = stripe.Int64(toMinorUnits(amount))
	}
	params.Context = ctx
	r, err := refund.New(params)
	if err != nil {
		return "", newProcessorError("refund", err)
	}
	return r.ID, nil
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(toMinorUnits(in.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Machine rental " + in.BookingID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", in.BookingID)
	params.AddMetadata("user_id", in.UserID)
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	sess, err := session.New(params)
	if err != nil {
		return nil, newProcessorError("create checkout session", err)
	}
	out := &CheckoutSession{
		SessionID: sess.ID,
		URL:       sess.URL,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

func (p *StripeProcessor) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, newProcessorError("retrieve checkout session", err)
	}
	status := &SessionStatus{
		SessionID:     sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   fromMinorUnits(sess.AmountTotal),
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		status.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		status.CustomerEmail = sess.CustomerDetails.Email
	}
	return status, nil
}

func convertPaymentIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Status:          string(pi.Status),
		Amount:          fromMinorUnits(pi.Amount),
		Currency:        string(pi.Currency),
		CaptureMethod:   string(pi.CaptureMethod),
	}
}
