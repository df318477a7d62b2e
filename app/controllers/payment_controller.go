package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/internal/pkg/billing"
	"github.com/rackmarket/rackmarket/internal/pkg/bookings"
	"github.com/rackmarket/rackmarket/internal/pkg/env"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
	"github.com/shopspring/decimal"
)

type checkoutRequest struct {
	BookingID  string          `json:"booking_id" validate:"required,uuid4"`
	HardwareID string          `json:"hardware_id" validate:"omitempty,uuid4"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Currency   string          `json:"currency" validate:"required,len=3"`
}

// HandleCreateCheckout starts a hosted checkout session for a booking the
// caller owns.
func HandleCreateCheckout(bill *billing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req checkoutRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		user := usercontext.GetUserContext(c)
		base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
		sess, payment, err := bill.InitiateCheckout(c.Context(), billing.InitiateInput{
			BookingID:     req.BookingID,
			HardwareID:    req.HardwareID,
			PayerID:       user.CustomerID,
			IsAdmin:       user.IsAdmin,
			Amount:        req.Amount,
			Currency:      req.Currency,
			SuccessURL:    base + "/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:     base + "/payments/cancel",
			CustomerEmail: user.Email,
		})
		if err != nil {
			return respondCheckoutError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id":   sess.SessionID,
			"checkout_url": sess.URL,
			"payment_id":   payment.PaymentID,
			"booking_id":   payment.BookingID,
			"amount":       payment.AmountTotal,
			"currency":     payment.Currency,
			"status":       payment.Status,
		})
	}
}

// HandleVerifyCheckout reports the processor-side state of a session. Read
// only; nothing is settled here.
func HandleVerifyCheckout(bill *billing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("session_id")
		if sessionID == "" {
			return badRequest(c, "session_id missing")
		}
		result, err := bill.VerifyCheckout(c.Context(), sessionID)
		if err != nil {
			if handled, resp := processorFailure(c, err); handled {
				return resp
			}
			return internalError(c, "could not verify session")
		}
		return c.JSON(result)
	}
}

// HandleReconcileCheckout settles the payment recorded for the session and
// its booking's invoice. Safe to repeat.
func HandleReconcileCheckout(bill *billing.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("session_id")
		if sessionID == "" {
			return badRequest(c, "session_id missing")
		}
		payment, invoice, err := bill.ReconcileCheckout(c.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, payments.ErrNotFound):
				return notFound(c, "no payment recorded for this session")
			case errors.Is(err, payments.ErrInvoiceNotFound):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":   "conflict",
					"message": "no invoice exists for the payment's booking; nothing was changed",
				})
			}
			return internalError(c, "could not settle payment")
		}
		return c.JSON(fiber.Map{"payment": payment, "invoice": invoice})
	}
}

// HandleListBookingPayments returns all payments recorded for a booking.
func HandleListBookingPayments(pay *payments.Service, book *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookingID := c.Params("booking_id")
		if bookingID == "" {
			return badRequest(c, "booking_id missing")
		}
		booking, err := book.GetBooking(c.Context(), bookingID)
		if err != nil {
			if errors.Is(err, bookings.ErrNotFound) {
				return notFound(c, "booking not found")
			}
			return internalError(c, "could not load booking")
		}
		user := usercontext.GetUserContext(c)
		if booking.BuyerID != user.CustomerID && !user.IsAdmin {
			return notFound(c, "booking not found")
		}
		list, err := pay.ListForBooking(c.Context(), bookingID)
		if err != nil {
			return internalError(c, "could not list payments")
		}
		return c.JSON(fiber.Map{"payments": list})
	}
}

func respondCheckoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, billing.ErrBookingNotFound):
		return notFound(c, "booking not found")
	case errors.Is(err, billing.ErrForbidden):
		return forbidden(c, "booking belongs to another buyer")
	case errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, payments.ErrInvalidCurrency):
		return badRequest(c, err.Error())
	case errors.Is(err, payments.ErrNoSessionID):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment_processor_error", "message": err.Error()})
	}
	if handled, resp := processorFailure(c, err); handled {
		return resp
	}
	return internalError(c, "could not start checkout")
}
