package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
	BookingStatusCompleted = "completed"
)

// Booking represents a car reservation for a date range
type Booking struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	CarID      uint           `gorm:"not null;index" json:"car_id"`
	StartDate  time.Time      `gorm:"not null" json:"start_date"`
	EndDate    time.Time      `gorm:"not null" json:"end_date"`
	TotalPrice float64        `gorm:"not null" json:"total_price"`
	Status     string         `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Car  Car  `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"car,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsValidBookingStatus reports whether s is one of the four booking statuses
func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsExpired reports whether a confirmed booking's end date has passed
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == BookingStatusConfirmed && b.EndDate.Before(now)
}

// DatesOverlap reports whether two booking intervals conflict. Bounds are
// inclusive on both sides, so intervals that merely touch count as overlapping.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// BookingDays returns the number of billable days for a date range,
// rounding any partial day up to a full one.
func BookingDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// CalculateTotalPrice computes the booking price for a car over a date range
func CalculateTotalPrice(start, end time.Time, pricePerDay float64) float64 {
	return float64(BookingDays(start, end)) * pricePerDay
}
