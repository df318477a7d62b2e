package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/internal/pkg/bookings"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
)

type bookingRequest struct {
	ListingID      string `json:"listing_id" validate:"required,uuid4"`
	StartTimestamp string `json:"start_timestamp" validate:"required"`
	EndTimestamp   string `json:"end_timestamp" validate:"required"`
}

type adminBookingRequest struct {
	BuyerID        string `json:"buyer_id" validate:"required,uuid4"`
	ListingID      string `json:"listing_id" validate:"required,uuid4"`
	StartTimestamp string `json:"start_timestamp" validate:"required"`
	EndTimestamp   string `json:"end_timestamp" validate:"required"`
}

// HandleRequestBooking creates a booking for the authenticated buyer.
func HandleRequestBooking(svc *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bookingRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		user := usercontext.GetUserContext(c)
		booking, err := svc.RequestBooking(c.Context(), user.CustomerID, bookings.RequestInput{
			ListingID: req.ListingID,
			Start:     req.StartTimestamp,
			End:       req.EndTimestamp,
		})
		if err != nil {
			return respondBookingError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(booking)
	}
}

// HandleAdminCreateBooking records a booking on behalf of an arbitrary
// buyer. Admin only.
func HandleAdminCreateBooking(svc *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req adminBookingRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		booking, err := svc.AdminCreateBooking(c.Context(), req.BuyerID, bookings.RequestInput{
			ListingID: req.ListingID,
			Start:     req.StartTimestamp,
			End:       req.EndTimestamp,
		})
		if err != nil {
			return respondBookingError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(booking)
	}
}

// HandleGetBooking returns one booking. Buyers only see their own; admins
// see everything.
func HandleGetBooking(svc *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookingID := c.Params("booking_id")
		if bookingID == "" {
			return badRequest(c, "booking_id missing")
		}
		booking, err := svc.GetBooking(c.Context(), bookingID)
		if err != nil {
			if errors.Is(err, bookings.ErrNotFound) {
				return notFound(c, "booking not found")
			}
			return internalError(c, "could not load booking")
		}
		user := usercontext.GetUserContext(c)
		if booking.BuyerID != user.CustomerID && !user.IsAdmin {
			// Do not leak existence
			return notFound(c, "booking not found")
		}
		return c.JSON(booking)
	}
}

// HandleListMyBookings returns the authenticated buyer's bookings.
func HandleListMyBookings(svc *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := usercontext.GetUserContext(c)
		list, err := svc.ListForBuyer(c.Context(), user.CustomerID)
		if err != nil {
			return internalError(c, "could not list bookings")
		}
		return c.JSON(fiber.Map{"bookings": list})
	}
}

// HandleAdminListBookings returns every booking. Admin only.
func HandleAdminListBookings(svc *bookings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListAll(c.Context())
		if err != nil {
			return internalError(c, "could not list bookings")
		}
		return c.JSON(fiber.Map{"bookings": list})
	}
}

func respondBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, bookings.ErrAmbiguousTime),
		errors.Is(err, bookings.ErrInvalidTime),
		errors.Is(err, bookings.ErrInvalidRange):
		return badRequest(c, err.Error())
	case errors.Is(err, bookings.ErrListingNotFound):
		return notFound(c, "listing not found")
	case errors.Is(err, bookings.ErrMachineNotFound):
		return notFound(c, "machine for listing not found")
	}
	var provErr *bookings.ProvisioningError
	if errors.As(err, &provErr) {
		// The booking row exists; the client must know settlement records
		// are missing.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "provisioning_incomplete",
			"message":    "booking was created but invoice and payment could not be provisioned",
			"booking_id": provErr.BookingID,
		})
	}
	return internalError(c, "could not create booking")
}
