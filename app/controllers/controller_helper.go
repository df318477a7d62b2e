package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
)

var validate = validator.New()

// parseAndValidate decodes the JSON body into out and runs struct
// validation. On failure it writes the 400 response and reports false.
func parseAndValidate(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		_ = badRequest(c, "invalid request body")
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = badRequest(c, err.Error())
		return false
	}
	return true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": message})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": message})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": message})
}

// processorFailure maps a processor port failure to a client-visible 400
// carrying the reason, without leaking adapter internals beyond the message.
func processorFailure(c *fiber.Ctx, err error) (bool, error) {
	var pErr *payments.ProcessorError
	if errors.As(err, &pErr) {
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_processor_error", "message": pErr.Error()})
	}
	return false, nil
}
