package services

import (
	"context"
	"testing"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/stretchr/testify/assert"
)

func TestRatingAggregate(t *testing.T) {
	tests := []struct {
		name        string
		ratings     []int
		wantAverage float64
		wantCount   int
		wantSum     int
	}{
		{"no ratings", nil, 0, 0, 0},
		{"single rating", []int{4}, 4.0, 1, 4},
		{"whole average", []int{3, 5}, 4.0, 2, 8},
		{"rounds to one decimal", []int{5, 4, 4}, 4.3, 3, 13},
		{"rounds half up", []int{4, 5}, 4.5, 2, 9},
		{"all fives", []int{5, 5, 5, 5}, 5.0, 4, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			average, count, sum := RatingAggregate(tt.ratings)
			assert.Equal(t, tt.wantAverage, average)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantSum, sum)
		})
	}
}

func TestDeleteReviewRequiresAdmin(t *testing.T) {
	svc := NewReviewService(nil)

	// The role gate runs before any lookup, so a plain user is rejected
	// no matter whose review it is.
	err := svc.DeleteReview(context.Background(), 1, model.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRatingAggregateAfterRemovals(t *testing.T) {
	ratings := []int{5, 4, 2}

	average, count, sum := RatingAggregate(ratings[:2])
	assert.Equal(t, 4.5, average)
	assert.Equal(t, 2, count)
	assert.Equal(t, 9, sum)

	// Removing the last review resets the aggregate to zeros
	average, count, sum = RatingAggregate(nil)
	assert.Zero(t, average)
	assert.Zero(t, count)
	assert.Zero(t, sum)
}
