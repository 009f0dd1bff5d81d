package handlers

import (
	"github.com/JoshRaimo/Rent-a-Ride-sub000/database"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/cache"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports service health including its dependencies. The
// cache may be nil when Redis is not configured.
func HandleCheckHealth(store database.Storage, redisCache *cache.RedisCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "ok"
		checks := fiber.Map{}

		if err := store.HealthCheck(); err != nil {
			status = "degraded"
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}

		if redisCache != nil {
			if err := redisCache.Ping(c.Context()); err != nil {
				status = "degraded"
				checks["redis"] = err.Error()
			} else {
				checks["redis"] = "ok"
			}
		}

		code := fiber.StatusOK
		if status != "ok" {
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
