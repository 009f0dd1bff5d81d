package services

import (
	"context"
	"errors"
	"math"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"gorm.io/gorm"
)

// ReviewService handles review creation and the car rating aggregates
// derived from them
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// RatingAggregate computes the derived rating fields from a set of ratings.
// The average is rounded to one decimal place; an empty set yields zeros.
func RatingAggregate(ratings []int) (average float64, count int, sum int) {
	for _, r := range ratings {
		sum += r
	}
	count = len(ratings)
	if count == 0 {
		return 0, 0, 0
	}
	average = math.Round(float64(sum)/float64(count)*10) / 10
	return average, count, sum
}

// RecomputeCarRating re-scans every review for the car and persists the
// aggregate. Full rescan on each write keeps the derived fields trivially
// correct at this scale. Callers that delete reviews outside this service
// must invoke it for each affected car inside the same transaction.
func RecomputeCarRating(tx *gorm.DB, carID uint) error {
	var ratings []int
	if err := tx.Model(&model.Review{}).
		Where("car_id = ?", carID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	average, count, sum := RatingAggregate(ratings)

	return tx.Model(&model.Car{}).
		Where("id = ?", carID).
		Updates(map[string]interface{}{
			"average_rating": average,
			"review_count":   count,
			"total_rating":   sum,
		}).Error
}

// CanReview checks whether the caller may review the given booking.
// The booking must belong to the caller, be completed, and not already
// have a review.
func (s *ReviewService) CanReview(ctx context.Context, userID, bookingID uint) error {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if booking.UserID != userID {
		return ErrForbidden
	}
	if booking.Status != model.BookingStatusCompleted {
		return ErrBookingNotCompleted
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyReviewed
	}

	return nil
}

// CreateReview creates a review for a completed booking and recomputes the
// car's rating aggregate
func (s *ReviewService) CreateReview(ctx context.Context, userID, bookingID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if err := s.CanReview(ctx, userID, bookingID); err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	review := model.Review{
		UserID:    userID,
		CarID:     booking.CarID,
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return RecomputeCarRating(tx, booking.CarID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ListUserReviews returns the caller's reviews with their cars
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("Car").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListCarReviews returns all reviews for a car
func (s *ReviewService) ListCarReviews(ctx context.Context, carID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("car_id = ?", carID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListAllReviews returns every review (admin listing)
func (s *ReviewService) ListAllReviews(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Car").
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// DeleteReview deletes a review and recomputes the car's aggregate,
// resetting it to zeros when the last review goes away. Admin only.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint, callerRole string) error {
	if callerRole != model.RoleAdmin {
		return ErrForbidden
	}

	var review model.Review
	if err := s.db.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return err
		}
		return RecomputeCarRating(tx, review.CarID)
	})
}
