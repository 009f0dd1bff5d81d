package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDatesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{
			name:   "disjoint ranges",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 5),
			bStart: date(2026, 9, 10), bEnd: date(2026, 9, 12),
			want: false,
		},
		{
			name:   "identical ranges",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 5),
			bStart: date(2026, 9, 1), bEnd: date(2026, 9, 5),
			want: true,
		},
		{
			name:   "partial overlap",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 5),
			bStart: date(2026, 9, 4), bEnd: date(2026, 9, 8),
			want: true,
		},
		{
			name:   "contained range",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 10),
			bStart: date(2026, 9, 3), bEnd: date(2026, 9, 4),
			want: true,
		},
		{
			name:   "touching at end boundary",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 5),
			bStart: date(2026, 9, 5), bEnd: date(2026, 9, 8),
			want: true,
		},
		{
			name:   "touching at start boundary",
			aStart: date(2026, 9, 5), aEnd: date(2026, 9, 8),
			bStart: date(2026, 9, 1), bEnd: date(2026, 9, 5),
			want: true,
		},
		{
			name:   "adjacent but one day apart",
			aStart: date(2026, 9, 1), aEnd: date(2026, 9, 4),
			bStart: date(2026, 9, 5), bEnd: date(2026, 9, 8),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DatesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric
			assert.Equal(t, tt.want, DatesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestBookingDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2026, 9, 1), date(2026, 9, 1), 1},
		{"exactly one day", date(2026, 9, 1), date(2026, 9, 2), 1},
		{"four days", date(2026, 9, 1), date(2026, 9, 5), 4},
		{
			"partial day rounds up",
			time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC),
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BookingDays(tt.start, tt.end))
		})
	}
}

func TestCalculateTotalPrice(t *testing.T) {
	assert.Equal(t, 180.0, CalculateTotalPrice(date(2026, 9, 1), date(2026, 9, 5), 45))
	assert.Equal(t, 45.0, CalculateTotalPrice(date(2026, 9, 1), date(2026, 9, 1), 45))
}

func TestIsValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled, BookingStatusCompleted} {
		assert.True(t, IsValidBookingStatus(s), s)
	}
	assert.False(t, IsValidBookingStatus("expired"))
	assert.False(t, IsValidBookingStatus(""))
}

func TestBookingIsExpired(t *testing.T) {
	now := date(2026, 9, 10)

	past := Booking{Status: BookingStatusConfirmed, EndDate: date(2026, 9, 5)}
	assert.True(t, past.IsExpired(now))

	future := Booking{Status: BookingStatusConfirmed, EndDate: date(2026, 9, 15)}
	assert.False(t, future.IsExpired(now))

	// Only confirmed bookings expire
	canceled := Booking{Status: BookingStatusCanceled, EndDate: date(2026, 9, 5)}
	assert.False(t, canceled.IsExpired(now))
}
