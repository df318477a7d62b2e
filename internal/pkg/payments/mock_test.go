package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCheckoutSessionRoundTrip(t *testing.T) {
	p := NewMockProcessor()

	sess, err := p.CreateCheckoutSession(context.Background(), CheckoutSessionInput{
		BookingID: "booking-1",
		UserID:    "user-1",
		Amount:    decimal.RequireFromString("42.50"),
		Currency:  "EUR",
	})
	require.NoError(t, err)
	assert.Contains(t, sess.SessionID, "cs_mock_")
	assert.Contains(t, sess.URL, sess.SessionID)

	status, err := p.RetrieveCheckoutSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusPaid, status.PaymentStatus)
	assert.True(t, status.AmountTotal.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "booking-1", status.Metadata["booking_id"])
}

func TestMockRetrieveUnknownSessionStillReportsPaid(t *testing.T) {
	p := NewMockProcessor()
	status, err := p.RetrieveCheckoutSession(context.Background(), "cs_unknown")
	require.NoError(t, err)
	assert.Equal(t, "cs_unknown", status.SessionID)
	assert.Equal(t, SessionStatusPaid, status.PaymentStatus)
}

func TestMockHoldLifecycle(t *testing.T) {
	p := NewMockProcessor()

	ref, err := p.CreateHold(context.Background(), decimal.NewFromInt(10), "EUR", "booking-1")
	require.NoError(t, err)
	assert.Contains(t, ref, "pi_mock_")

	pi, err := p.GetPaymentIntent(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "requires_capture", pi.Status)

	require.NoError(t, p.Capture(context.Background(), ref))
	pi, err = p.GetPaymentIntent(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", pi.Status)
}

func TestMinorUnitConversion(t *testing.T) {
	assert.Equal(t, int64(2500), toMinorUnits(decimal.RequireFromString("25.00")))
	assert.Equal(t, int64(1), toMinorUnits(decimal.RequireFromString("0.01")))
	assert.True(t, fromMinorUnits(2500).Equal(decimal.RequireFromString("25.00")))
}
