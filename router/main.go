package router

import (
	"context"
	"log"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/config"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/database"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/handlers"
	auth_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/auth"
	booking_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/booking"
	car_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/car"
	chat_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/chat"
	review_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/review"
	user_handlers "github.com/JoshRaimo/Rent-a-Ride-sub000/handlers/user"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/realtime"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/cardata"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/spaces"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/auth"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/cache"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires every handler, service, and middleware into the app
func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Issuer: getEnv.JWT_ISSUER,
	})

	db := store.GetDB()

	// Redis backs the car listing cache, brute force protection, and the
	// cross-instance realtime bridge. The server runs without it, degraded.
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Caching and brute force protection will be disabled.", err)
		redisCache = nil
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Spaces client for image uploads, optional
	var spacesClient *spaces.SpacesClient
	if getEnv.SPACES_ACCESS_KEY != "" {
		spacesClient, err = spaces.NewSpacesClient(spaces.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to create Spaces client: %v. Image uploads will be disabled.", err)
		}
	}

	// Vehicle-data API client, optional
	var carDataClient *cardata.Client
	if getEnv.CAR_API_URL != "" {
		carDataClient = cardata.NewClient(getEnv.CAR_API_URL, getEnv.CAR_API_TOKEN)
	}

	// Services
	carService := services.NewCarService(db, redisCache)
	bookingService := services.NewBookingService(db)
	reviewService := services.NewReviewService(db)
	chatService := services.NewChatService(db)
	presenceService := services.NewPresenceService(db)

	// Real-time hub, fed by the chat service and feeding presence back
	hub := realtime.NewHub(presenceService, chatService)
	chatService.SetBroadcaster(hub)

	if redisCache != nil {
		bridge := realtime.NewRedisBridge(redisCache)
		hub.SetBridge(bridge)
		go bridge.Listen(context.Background(), hub)
	}

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, spacesClient)
	userHandler := user_handlers.NewUserHandler(db)
	carHandler := car_handlers.NewCarHandler(carService, carDataClient, spacesClient)
	bookingHandler := booking_handlers.NewBookingHandler(bookingService)
	reviewHandler := review_handlers.NewReviewHandler(reviewService)
	chatHandler := chat_handlers.NewChatHandler(chatService)

	// Security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store, redisCache))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// User routes; profile endpoints are for any authenticated user, the
	// rest is admin management. Static segments must register before :id.
	users := api.Group("/users", authMiddleware.Required())
	users.Get("/profile", authHandler.GetProfile)
	users.Put("/profile", authHandler.UpdateProfile)
	users.Put("/profile/image", authHandler.UploadProfileImage)
	users.Put("/change-password", authHandler.ChangePassword)
	users.Get("/", authMiddleware.RequireAdmin(), userHandler.ListUsers)
	users.Get("/:id", authMiddleware.RequireAdmin(), userHandler.GetUser)
	users.Patch("/:id/reset-password", authMiddleware.RequireAdmin(), userHandler.ResetPassword)
	users.Delete("/:id", authMiddleware.RequireAdmin(), userHandler.DeleteUser)

	// Car routes
	cars := api.Group("/cars")
	cars.Get("/", carHandler.ListCars)                                                // Public: list cars with filters
	cars.Get("/data/makes", carHandler.ListMakes)                                     // Public: vehicle make catalog
	cars.Get("/data/models/:make", carHandler.ListModels)                             // Public: vehicle models for a make
	cars.Get("/data/years", carHandler.ListYears)                                     // Public: supported model years
	cars.Get("/:id", carHandler.GetCar)                                               // Public: get car by ID
	cars.Post("/", authMiddleware.RequireAdmin(), carHandler.CreateCar)               // Admin only: add car
	cars.Put("/:id", authMiddleware.RequireAdmin(), carHandler.UpdateCar)             // Admin only: update car
	cars.Delete("/:id", authMiddleware.RequireAdmin(), carHandler.DeleteCar)          // Admin only: remove car
	cars.Post("/:id/image", authMiddleware.RequireAdmin(), carHandler.UploadCarImage) // Admin only: upload car photo

	// Booking routes (protected)
	bookings := api.Group("/bookings", authMiddleware.Required())
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/", bookingHandler.ListMyBookings)
	bookings.Get("/all", authMiddleware.RequireAdmin(), bookingHandler.ListAllBookings)
	bookings.Put("/:id/status", bookingHandler.UpdateStatus)
	bookings.Delete("/:id", bookingHandler.DeleteBooking)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/car/:carId", reviewHandler.ListCarReviews) // Public: reviews for a car
	reviews.Post("/", authMiddleware.Required(), reviewHandler.CreateReview)
	reviews.Get("/my-reviews", authMiddleware.Required(), reviewHandler.ListMyReviews)
	reviews.Get("/can-review/:bookingId", authMiddleware.Required(), reviewHandler.CanReview)
	reviews.Get("/admin/all", authMiddleware.RequireAdmin(), reviewHandler.ListAllReviews)
	reviews.Delete("/admin/:id", authMiddleware.RequireAdmin(), reviewHandler.DeleteReview)

	// Chat routes (protected)
	chat := api.Group("/chat", authMiddleware.Required())
	chat.Post("/create", chatHandler.OpenChat)
	chat.Get("/user-chats", chatHandler.ListChats)
	chat.Get("/online-users", chatHandler.ListOnlineUsers)
	chat.Get("/:chatId/messages", chatHandler.ListMessages)
	chat.Post("/:chatId/messages", chatHandler.SendMessage)
	chat.Post("/:chatId/read", chatHandler.MarkRead)
	chat.Delete("/messages/:id", chatHandler.DeleteMessage)

	// WebSocket endpoint, token authenticated before upgrade
	app.Get("/ws", realtime.UpgradeGate(jwtManager), realtime.Handler(hub))
}
