package model

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a user's rating of a car, tied to a completed booking.
// A booking can be reviewed exactly once.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CarID     uint           `gorm:"not null;index" json:"car_id"`
	BookingID uint           `gorm:"not null;uniqueIndex" json:"booking_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1..5
	Comment   string         `gorm:"type:varchar(1000)" json:"comment"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Car     Car     `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"car,omitempty"`
	Booking Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}
