package review

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, mapper func(*fiber.Ctx, error) error, err error) int {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapper(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, reqErr)
	resp.Body.Close()
	return resp.StatusCode
}

func TestCreateReviewErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing booking", services.ErrNotFound, fiber.StatusNotFound},
		{"someone else's booking", services.ErrForbidden, fiber.StatusForbidden},
		{"booking not completed", services.ErrBookingNotCompleted, fiber.StatusBadRequest},
		{"rating out of range", services.ErrInvalidRating, fiber.StatusBadRequest},
		{"duplicate review", services.ErrAlreadyReviewed, fiber.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respondWith(t, createReviewError, tt.err))
		})
	}
}

func TestCanReviewGuards(t *testing.T) {
	h := NewReviewHandler(services.NewReviewService(nil))

	app := fiber.New()
	app.Get("/eligible/:bookingId", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return h.CanReview(c)
	})
	app.Get("/anonymous/:bookingId", h.CanReview)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"non-numeric booking id", "/eligible/abc", fiber.StatusBadRequest},
		{"zero booking id", "/eligible/0", fiber.StatusBadRequest},
		{"no authenticated user", "/anonymous/7", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
