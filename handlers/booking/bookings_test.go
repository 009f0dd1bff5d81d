package booking

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondWith routes a request through a handler that fails with err and
// returns the resulting response.
func respondWith(t *testing.T, mapper func(*fiber.Ctx, error) error, err error) (int, string) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return mapper(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	body, reqErr := io.ReadAll(resp.Body)
	require.NoError(t, reqErr)
	return resp.StatusCode, string(body)
}

func TestCreateBookingErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing car", services.ErrNotFound, fiber.StatusNotFound},
		{"invalid dates", services.ErrInvalidDates, fiber.StatusBadRequest},
		{"start in past", services.ErrStartInPast, fiber.StatusBadRequest},
		{"date conflict", services.ErrCarUnavailable, fiber.StatusBadRequest},
		{"car marked unavailable", services.ErrCarMarkedUnavailable, fiber.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := respondWith(t, createBookingError, tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestDateConflictMessageSurfaces(t *testing.T) {
	status, body := respondWith(t, createBookingError, services.ErrCarUnavailable)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Car is not available for the selected dates")
}

func TestUpdateStatusErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing booking", services.ErrNotFound, fiber.StatusNotFound},
		{"not the owner", services.ErrForbidden, fiber.StatusForbidden},
		{"unknown status", services.ErrInvalidStatus, fiber.StatusBadRequest},
		{"re-cancel", services.ErrAlreadyCanceled, fiber.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := respondWith(t, updateStatusError, tt.err)
			assert.Equal(t, tt.want, status)
		})
	}
}
