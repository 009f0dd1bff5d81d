package booking

import (
	"errors"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles booking requests
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CarID     uint   `json:"car_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// parseBookingDate accepts RFC 3339 timestamps and plain dates
func parseBookingDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateBooking books a car for the authenticated user
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CarID == 0 || req.StartDate == "" || req.EndDate == "" {
		return response.BadRequest(c, "Car ID, start date, and end date are required")
	}

	start, err := parseBookingDate(req.StartDate)
	if err != nil {
		return response.BadRequest(c, "Invalid start date format")
	}
	end, err := parseBookingDate(req.EndDate)
	if err != nil {
		return response.BadRequest(c, "Invalid end date format")
	}

	booking, err := h.bookings.CreateBooking(c.Context(), userID, req.CarID, start, end)
	if err != nil {
		return createBookingError(c, err)
	}

	return response.Created(c, booking)
}

// createBookingError maps booking creation failures to API responses.
// Date conflicts and unavailable cars are client errors, not conflicts.
func createBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Car not found")
	case errors.Is(err, services.ErrInvalidDates),
		errors.Is(err, services.ErrStartInPast),
		errors.Is(err, services.ErrCarUnavailable),
		errors.Is(err, services.ErrCarMarkedUnavailable):
		return response.BadRequest(c, err.Error())
	}
	return response.InternalServerError(c, "Failed to create booking")
}

// ListMyBookings returns the authenticated user's bookings
func (h *BookingHandler) ListMyBookings(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	bookings, err := h.bookings.ListUserBookings(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load bookings")
	}

	return response.Success(c, bookings)
}

// ListAllBookings returns every booking in the system
func (h *BookingHandler) ListAllBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListAllBookings(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load bookings")
	}

	return response.Success(c, bookings)
}

// UpdateStatusRequest represents a booking status change request
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus changes a booking's status. Owners may cancel their own
// bookings; admins may apply any status.
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	booking, err := h.bookings.UpdateStatus(c.Context(), uint(id), userID, role, req.Status)
	if err != nil {
		return updateStatusError(c, err)
	}

	return response.Success(c, booking)
}

// updateStatusError maps status transition failures to API responses.
func updateStatusError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Booking not found")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAlreadyCanceled):
		return response.BadRequest(c, err.Error())
	}
	return response.InternalServerError(c, "Failed to update booking")
}

// DeleteBooking removes a booking. Owners may delete their own bookings;
// admins may delete any.
func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	if err := h.bookings.DeleteBooking(c.Context(), uint(id), userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "")
		}
		return response.InternalServerError(c, "Failed to delete booking")
	}

	return response.SuccessWithMessage(c, "Booking deleted successfully", nil)
}
