package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rackmarket/rackmarket/app/repository"
	"github.com/rackmarket/rackmarket/internal/pkg/billing"
	"github.com/rackmarket/rackmarket/internal/pkg/bookings"
	"github.com/rackmarket/rackmarket/internal/pkg/cache"
	"github.com/rackmarket/rackmarket/internal/pkg/database"
	"github.com/rackmarket/rackmarket/internal/pkg/env"
	"github.com/rackmarket/rackmarket/internal/pkg/listings"
	"github.com/rackmarket/rackmarket/internal/pkg/machines"
	"github.com/rackmarket/rackmarket/internal/pkg/middleware"
	"github.com/rackmarket/rackmarket/internal/pkg/payments"
	"github.com/rackmarket/rackmarket/internal/pkg/router"
)

func main() {
	app, err := NewApplication()
	if err != nil {
		log.Fatal(err)
	}
	err = app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "8080")))
	log.Fatal(err)
}

// NewApplication assembles the full component graph and returns the ready
// fiber app. Everything is constructed once here and passed down
// explicitly.
func NewApplication() (*fiber.App, error) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repos := repository.NewFactory(db).GetRepositories()

	port, err := payments.NewProcessorFromEnv()
	if err != nil {
		return nil, fmt.Errorf("payment processor setup: %w", err)
	}

	machineSvc := machines.NewService(repos.Machine)
	listingSvc := listings.NewService(repos.Listing, repos.Machine)
	billingSvc := billing.NewService(db, port)
	paymentSvc := payments.NewServiceFromDB(db, port)
	bookingSvc := bookings.NewService(bookings.NewRepository(db), listingSvc, billingSvc)

	app := fiber.New(fiber.Config{
		AppName: "rackmarket",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	router.InstallRouter(app, router.Dependencies{
		Users:      repos.User,
		Benchmarks: repos.Benchmark,
		Machines:   machineSvc,
		Listings:   listingSvc,
		Bookings:   bookingSvc,
		Payments:   paymentSvc,
		Billing:    billingSvc,
		Auth: middleware.AuthConfig{
			JWTSecret:      env.GetEnv("JWT_SECRET", ""),
			DevBearerToken: env.GetEnv("DEV_BEARER_TOKEN", ""),
			DevUserEmail:   env.GetEnv("DEV_USER_EMAIL", ""),
		},
	})

	return app, nil
}
