package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes; anything else is treated as a server error.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access denied")

	// Bookings
	ErrInvalidDates         = errors.New("invalid booking dates")
	ErrStartInPast          = errors.New("start date must be in the future")
	ErrCarUnavailable       = errors.New("Car is not available for the selected dates")
	ErrAlreadyCanceled      = errors.New("booking is already canceled")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrCarMarkedUnavailable = errors.New("car is not available for booking")

	// Reviews
	ErrBookingNotCompleted = errors.New("booking must be completed before it can be reviewed")
	ErrAlreadyReviewed     = errors.New("a review already exists for this booking")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")

	// Chat
	ErrChatAccessDenied = errors.New("Access denied to this chat")
	ErrEmptyMessage     = errors.New("message content cannot be empty")
	ErrMessageTooLong   = errors.New("message content is too long")
	ErrInvalidChatType  = errors.New("invalid chat type")

	// Users
	ErrLastAdmin = errors.New("cannot delete the last admin user")
)
