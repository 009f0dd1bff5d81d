package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService handles reservation creation, listing and status changes
type BookingService struct {
	db *gorm.DB
}

// NewBookingService creates a new booking service
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBooking reserves a car for a date range. The overlap check and the
// insert run in one transaction holding a row lock on the car, so two
// concurrent requests for the same car serialize instead of both passing
// the check.
func (s *BookingService) CreateBooking(ctx context.Context, userID, carID uint, start, end time.Time) (*model.Booking, error) {
	if !start.Before(end) {
		return nil, ErrInvalidDates
	}
	if !start.After(time.Now()) {
		return nil, ErrStartInPast
	}

	var booking model.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var car model.Car
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&car, carID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !car.Available {
			return ErrCarMarkedUnavailable
		}

		// Closed-interval overlap against other confirmed bookings:
		// bookings whose bounds merely touch still conflict.
		var conflicts int64
		if err := tx.Model(&model.Booking{}).
			Where("car_id = ? AND status = ?", carID, model.BookingStatusConfirmed).
			Where("start_date <= ? AND end_date >= ?", end, start).
			Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrCarUnavailable
		}

		booking = model.Booking{
			UserID:     userID,
			CarID:      carID,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: model.CalculateTotalPrice(start, end, car.PricePerDay),
			Status:     model.BookingStatusConfirmed,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Car").First(&booking, booking.ID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListUserBookings returns the caller's bookings, lazily promoting any of
// their expired confirmed bookings to completed first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID uint) ([]model.Booking, error) {
	if err := s.completeExpired(ctx, s.db.Where("user_id = ?", userID)); err != nil {
		return nil, err
	}

	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Car").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAllBookings returns every booking (admin listing), after the same
// lazy promotion over the whole table.
func (s *BookingService) ListAllBookings(ctx context.Context) ([]model.Booking, error) {
	if err := s.completeExpired(ctx, s.db); err != nil {
		return nil, err
	}

	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Preload("Car").
		Preload("User").
		Order("start_date DESC").
		Find(&bookings).Error
	return bookings, err
}

// completeExpired flips confirmed bookings whose end has passed to
// completed, within the given scope
func (s *BookingService) completeExpired(ctx context.Context, scope *gorm.DB) error {
	return scope.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status = ? AND end_date < ?", model.BookingStatusConfirmed, time.Now()).
		Update("status", model.BookingStatusCompleted).Error
}

// CompleteExpiredBookings is the cron backstop over the whole table. It
// returns how many bookings were promoted.
func (s *BookingService) CompleteExpiredBookings(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status = ? AND end_date < ?", model.BookingStatusConfirmed, time.Now()).
		Update("status", model.BookingStatusCompleted)
	return result.RowsAffected, result.Error
}

// CanUpdateStatus applies the status-change authorization rules: an admin
// may set any of the four statuses; an owner may only cancel their own
// booking, and re-canceling is rejected.
func CanUpdateStatus(b *model.Booking, callerID uint, callerRole, newStatus string) error {
	if !model.IsValidBookingStatus(newStatus) {
		return ErrInvalidStatus
	}

	if callerRole == model.RoleAdmin {
		// Arbitrary transitions are intentionally permitted for admins
		return nil
	}

	if b.UserID != callerID || newStatus != model.BookingStatusCanceled {
		return ErrForbidden
	}
	if b.Status == model.BookingStatusCanceled {
		return ErrAlreadyCanceled
	}
	return nil
}

// UpdateStatus changes a booking's status subject to CanUpdateStatus
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, callerID uint, callerRole, newStatus string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := CanUpdateStatus(&booking, callerID, callerRole, newStatus); err != nil {
		return nil, err
	}

	booking.Status = newStatus
	if err := s.db.WithContext(ctx).Save(&booking).Error; err != nil {
		return nil, err
	}

	log.Printf("Booking %d status set to %s by user %d", booking.ID, newStatus, callerID)
	return &booking, nil
}

// DeleteBooking removes a booking entirely. Only the owner or an admin may
// delete; the row is hard-deleted, not soft-deleted.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, callerID uint, callerRole string) error {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if callerRole != model.RoleAdmin && booking.UserID != callerID {
		return ErrForbidden
	}

	// A review hangs off the booking; drop it in the same transaction and
	// recompute the car aggregate so it never counts a dead review.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("booking_id = ?", bookingID).Delete(&model.Review{})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Unscoped().Delete(&booking).Error; err != nil {
			return err
		}
		if res.RowsAffected > 0 {
			return RecomputeCarRating(tx, booking.CarID)
		}
		return nil
	})
}
