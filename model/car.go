package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Car represents a rentable vehicle in the inventory
type Car struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Make        string         `gorm:"not null;index" json:"make"`
	Model       string         `gorm:"not null;index" json:"model"`
	Year        int            `gorm:"not null" json:"year"`
	PricePerDay float64        `gorm:"not null" json:"price_per_day"`
	Available   bool           `gorm:"default:true" json:"available"`
	Image       string         `gorm:"type:text" json:"image"`
	Features    pq.StringArray `gorm:"type:text[]" json:"features,omitempty"`

	// Derived rating aggregates. Recomputed by the review service whenever a
	// review for this car is created or deleted; never edited directly.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"default:0" json:"review_count"`
	TotalRating   int     `gorm:"default:0" json:"total_rating"`

	// Relationships
	Bookings []Booking `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews  []Review  `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Car
func (Car) TableName() string {
	return "cars"
}
