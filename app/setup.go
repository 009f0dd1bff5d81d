package app

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/api"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/config"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/database"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/router"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/cron"
)

// SetupAndRunServer boots the whole service: config, database, background
// jobs, routes, and finally the HTTP listener. Blocks until the listener
// stops.
func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		fmt.Println("Check whether Postgres is running and DB_* variables are set")
		return err
	}

	if err := store.Init(); err != nil {
		fmt.Println("Failed to run database migrations")
		return err
	}

	// Bootstrap the admin account and demo inventory
	seeder := database.NewSeeder(store.GetDB())
	if err := seeder.SeedAdminUser(); err != nil {
		fmt.Println("Warning: failed to seed admin user:", err)
	}

	// Background jobs (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		db := store.GetDB()
		bookingService := services.NewBookingService(db)
		presenceService := services.NewPresenceService(db)

		cronManager = cron.NewCronManager(db, bookingService, presenceService)
		if err := cronManager.Start(); err != nil {
			fmt.Println("Warning: failed to start cron jobs:", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store)

	return server.Run()
}
