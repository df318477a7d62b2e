package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/internal/pkg/listings"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
	"github.com/shopspring/decimal"
)

type createListingRequest struct {
	HardwareID string              `json:"hardware_id" validate:"required,uuid4"`
	PriceHour  decimal.NullDecimal `json:"price_hour"`
	PriceDay   decimal.NullDecimal `json:"price_day"`
	PriceWeek  decimal.NullDecimal `json:"price_week"`
	Currency   string              `json:"currency" validate:"omitempty,len=3"`
	Status     string              `json:"status" validate:"omitempty,oneof=active paused archived"`
}

// HandleListListings returns all listings. Public.
func HandleListListings(svc *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ListListings(c.Context(), c.QueryInt("offset", 0), c.QueryInt("limit", 100))
		if err != nil {
			return internalError(c, "could not list listings")
		}
		return c.JSON(fiber.Map{"listings": list})
	}
}

// HandleGetListing returns one listing with its machine. Public.
func HandleGetListing(svc *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listingID := c.Params("listing_id")
		if listingID == "" {
			return badRequest(c, "listing_id missing")
		}
		listing, err := svc.GetListing(c.Context(), listingID)
		if err != nil {
			if errors.Is(err, listings.ErrNotFound) {
				return notFound(c, "listing not found")
			}
			return internalError(c, "could not load listing")
		}
		return c.JSON(listing)
	}
}

// HandleCreateListing creates a listing for a machine the caller owns.
func HandleCreateListing(svc *listings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createListingRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		user := usercontext.GetUserContext(c)
		listing, err := svc.CreateListing(c.Context(), user.CustomerID, listings.CreateInput{
			HardwareID: req.HardwareID,
			PriceHour:  req.PriceHour,
			PriceDay:   req.PriceDay,
			PriceWeek:  req.PriceWeek,
			Currency:   req.Currency,
			Status:     req.Status,
		})
		if err != nil {
			switch {
			case errors.Is(err, listings.ErrMachineNotFound):
				return notFound(c, "machine not found")
			case errors.Is(err, listings.ErrNotOwner):
				return forbidden(c, "machine belongs to another customer")
			case errors.Is(err, listings.ErrInvalidCurrency),
				errors.Is(err, listings.ErrInvalidStatus),
				errors.Is(err, listings.ErrNegativeRate),
				errors.Is(err, listings.ErrNoRates):
				return badRequest(c, err.Error())
			}
			return internalError(c, "could not create listing")
		}
		return c.Status(fiber.StatusCreated).JSON(listing)
	}
}
