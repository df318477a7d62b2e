package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rackmarket/rackmarket/internal/pkg/machines"
	"github.com/rackmarket/rackmarket/internal/pkg/usercontext"
)

type createMachineRequest struct {
	GPUModel         string `json:"gpu_model"`
	CPUModel         string `json:"cpu_model"`
	RAMGB            int    `json:"ram_gb" validate:"required,gt=0"`
	DiskType         string `json:"disk_type"`
	DiskSizeGB       int    `json:"disk_size_gb" validate:"omitempty,gt=0"`
	NetworkBandwidth string `json:"network_bandwidth"`
	OS               string `json:"os"`
}

// HandleListMyMachines returns the machines owned by the caller.
func HandleListMyMachines(svc *machines.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := usercontext.GetUserContext(c)
		list, err := svc.ListForCustomer(c.Context(), user.CustomerID)
		if err != nil {
			return internalError(c, "could not list machines")
		}
		return c.JSON(fiber.Map{"machines": list})
	}
}

// HandleGetMachine returns one machine. Public; the listing view needs it.
func HandleGetMachine(svc *machines.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hardwareID := c.Params("hardware_id")
		if hardwareID == "" {
			return badRequest(c, "hardware_id missing")
		}
		machine, err := svc.GetMachine(c.Context(), hardwareID)
		if err != nil {
			if errors.Is(err, machines.ErrNotFound) {
				return notFound(c, "machine not found")
			}
			return internalError(c, "could not load machine")
		}
		return c.JSON(machine)
	}
}

// HandleCreateMachine registers a machine for the caller.
func HandleCreateMachine(svc *machines.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createMachineRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		user := usercontext.GetUserContext(c)
		machine, err := svc.CreateMachine(c.Context(), user.CustomerID, machines.CreateInput{
			GPUModel:         req.GPUModel,
			CPUModel:         req.CPUModel,
			RAMGB:            req.RAMGB,
			DiskType:         req.DiskType,
			DiskSizeGB:       req.DiskSizeGB,
			NetworkBandwidth: req.NetworkBandwidth,
			OS:               req.OS,
		})
		if err != nil {
			return internalError(c, "could not create machine")
		}
		return c.Status(fiber.StatusCreated).JSON(machine)
	}
}

// HandleDeleteMachine removes a machine the caller owns.
func HandleDeleteMachine(svc *machines.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hardwareID := c.Params("hardware_id")
		if hardwareID == "" {
			return badRequest(c, "hardware_id missing")
		}
		user := usercontext.GetUserContext(c)
		if err := svc.DeleteMachine(c.Context(), user.CustomerID, hardwareID); err != nil {
			switch {
			case errors.Is(err, machines.ErrNotFound):
				return notFound(c, "machine not found")
			case errors.Is(err, machines.ErrNotOwner):
				return forbidden(c, "machine belongs to another customer")
			}
			return internalError(c, "could not delete machine")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
