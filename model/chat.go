package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ChatType represents the kind of chat room
type ChatType string

const (
	ChatTypeGeneral ChatType = "general"
	ChatTypeSupport ChatType = "support"
	ChatTypeBooking ChatType = "booking"
)

// GeneralChatKey is the stable key of the single open chat room
const GeneralChatKey = "general-chat"

// Chat represents a chat room. Rooms are keyed by a deterministic string
// rather than their row id, so create-or-get is idempotent per
// (type, user) or (type, booking).
type Chat struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	ChatKey      string         `gorm:"uniqueIndex;not null" json:"chat_id"`
	Type         ChatType       `gorm:"type:varchar(20);not null" json:"type"`
	BookingID    *uint          `gorm:"index" json:"booking_id,omitempty"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastActivity time.Time      `json:"last_activity"`

	// Relationships
	Participants []ChatParticipant `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message         `gorm:"foreignKey:ChatID" json:"-"`
	Booking      *Booking          `gorm:"foreignKey:BookingID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for Chat
func (Chat) TableName() string {
	return "chats"
}

// ChatParticipant links a user to a chat room
type ChatParticipant struct {
	ChatID   uint  `gorm:"primaryKey" json:"chat_id"`
	UserID   uint  `gorm:"primaryKey" json:"user_id"`
	JoinedAt int64 `gorm:"autoCreateTime" json:"joined_at"`

	// Relationships
	Chat Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for ChatParticipant
func (ChatParticipant) TableName() string {
	return "chat_participants"
}

// SupportChatKey builds the deterministic key for a user's support chat
func SupportChatKey(userID uint) string {
	return fmt.Sprintf("support-%d", userID)
}

// BookingChatKey builds the deterministic key for a booking's chat
func BookingChatKey(bookingID uint) string {
	return fmt.Sprintf("booking-%d", bookingID)
}

// HasParticipant reports whether the given user is listed in the chat
func (c *Chat) HasParticipant(userID uint) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CanAccess reports whether a user may read and write this chat.
// General chats are open to any authenticated user, support chats to the
// creating user only, booking chats to listed participants. Admins can
// access everything.
func (c *Chat) CanAccess(userID uint, role string) bool {
	if role == RoleAdmin {
		return true
	}
	switch c.Type {
	case ChatTypeGeneral:
		return true
	case ChatTypeSupport, ChatTypeBooking:
		return c.HasParticipant(userID)
	}
	return false
}
