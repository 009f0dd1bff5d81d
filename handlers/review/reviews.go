package review

import (
	"errors"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles review requests
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReviewRequest represents a review creation request
type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

// CreateReview adds a review for one of the user's completed bookings
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.BookingID == 0 {
		return response.BadRequest(c, "Booking ID is required")
	}

	review, err := h.reviews.CreateReview(c.Context(), userID, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		return createReviewError(c, err)
	}

	return response.Created(c, review)
}

// createReviewError maps review creation failures to API responses.
// Duplicate reviews are a client error, same as an incomplete booking.
func createReviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Booking not found")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "You can only review your own bookings")
	case errors.Is(err, services.ErrBookingNotCompleted),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrAlreadyReviewed):
		return response.BadRequest(c, err.Error())
	}
	return response.InternalServerError(c, "Failed to create review")
}

// CanReview reports whether the user may still review a booking
func (h *ReviewHandler) CanReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	bookingID, err := c.ParamsInt("bookingId")
	if err != nil || bookingID < 1 {
		return response.BadRequest(c, "Invalid booking ID")
	}

	err = h.reviews.CanReview(c.Context(), userID, uint(bookingID))
	switch {
	case err == nil:
		return response.Success(c, fiber.Map{"can_review": true})
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Booking not found")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "You can only review your own bookings")
	case errors.Is(err, services.ErrBookingNotCompleted),
		errors.Is(err, services.ErrAlreadyReviewed):
		return response.Success(c, fiber.Map{"can_review": false, "reason": err.Error()})
	}
	return response.InternalServerError(c, "Failed to check review eligibility")
}

// ListMyReviews returns the authenticated user's reviews
func (h *ReviewHandler) ListMyReviews(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	reviews, err := h.reviews.ListUserReviews(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load reviews")
	}

	return response.Success(c, reviews)
}

// ListCarReviews returns the reviews for one car
func (h *ReviewHandler) ListCarReviews(c *fiber.Ctx) error {
	carID, err := c.ParamsInt("carId")
	if err != nil || carID < 1 {
		return response.BadRequest(c, "Invalid car ID")
	}

	reviews, err := h.reviews.ListCarReviews(c.Context(), uint(carID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load reviews")
	}

	return response.Success(c, reviews)
}

// ListAllReviews returns every review in the system
func (h *ReviewHandler) ListAllReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.ListAllReviews(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load reviews")
	}

	return response.Success(c, reviews)
}

// DeleteReview removes a review. Admin only.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid review ID")
	}

	role, _ := middleware.GetUserRole(c)

	if err := h.reviews.DeleteReview(c.Context(), uint(id), role); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Review not found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "")
		}
		return response.InternalServerError(c, "Failed to delete review")
	}

	return response.SuccessWithMessage(c, "Review deleted successfully", nil)
}
