package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rackmarket/rackmarket/app/controllers"
	"github.com/rackmarket/rackmarket/app/repository"
	"github.com/rackmarket/rackmarket/internal/pkg/billing"
	"github.com/rackmarket/rackmarket/internal/pkg/bookings"
	"github.com/rackmarket/rackmarket/internal/pkg/listings"
	"github.com/rackmarket/rackmarket/internal/pkg/machines"
	"github.com/rackmarket/rackmarket/internal/pkg/middleware"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
)

// Dependencies is the wired component graph the routes are built from. It
// is assembled once at process start.
type Dependencies struct {
	Users      repository.UserRepository
	Benchmarks repository.BenchmarkRepository
	Machines   *machines.Service
	Listings   *listings.Service
	Bookings   *bookings.Service
	Payments   *payments.Service
	Billing    *billing.Service
	Auth       middleware.AuthConfig
}

type ApiRouter struct {
	deps Dependencies
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	d := h.deps
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "rackmarket api",
		})
	})

	v1 := api.Group("/v1")
	auth := middleware.Auth(d.Users, d.Auth)
	admin := middleware.RequireAdmin()

	// Public catalog
	v1.Get("/listings", controllers.HandleListListings(d.Listings))
	v1.Get("/listings/:listing_id", controllers.HandleGetListing(d.Listings))
	v1.Get("/machines/:hardware_id", controllers.HandleGetMachine(d.Machines))
	v1.Get("/machines/:hardware_id/benchmarks", controllers.HandleListMachineBenchmarks(d.Benchmarks))

	// Inventory, owner scoped
	v1.Get("/machines", auth, controllers.HandleListMyMachines(d.Machines))
	v1.Post("/machines", auth, controllers.HandleCreateMachine(d.Machines))
	v1.Delete("/machines/:hardware_id", auth, controllers.HandleDeleteMachine(d.Machines))
	v1.Post("/listings", auth, controllers.HandleCreateListing(d.Listings))
	v1.Post("/machines/:hardware_id/benchmarks", auth, controllers.HandleSubmitBenchmark(d.Machines, d.Benchmarks))

	// Bookings
	v1.Post("/bookings", auth, controllers.HandleRequestBooking(d.Bookings))
	v1.Get("/bookings", auth, controllers.HandleListMyBookings(d.Bookings))
	v1.Get("/bookings/:booking_id", auth, controllers.HandleGetBooking(d.Bookings))

	// Payments
	v1.Post("/payments/checkout", auth, controllers.HandleCreateCheckout(d.Billing))
	v1.Get("/payments/verify/:session_id", auth, controllers.HandleVerifyCheckout(d.Billing))
	v1.Patch("/payments/mark-paid/:session_id", auth, controllers.HandleReconcileCheckout(d.Billing))
	v1.Get("/payments/bookings/:booking_id", auth, controllers.HandleListBookingPayments(d.Payments, d.Bookings))

	// Admin
	v1.Post("/admin/bookings", auth, admin, controllers.HandleAdminCreateBooking(d.Bookings))
	v1.Get("/admin/bookings", auth, admin, controllers.HandleAdminListBookings(d.Bookings))
	v1.Post("/admin/benchmarks/:benchmark_id/verify", auth, admin, controllers.HandleVerifyBenchmark(d.Benchmarks))
}
