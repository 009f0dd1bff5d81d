package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageType represents the payload kind of a chat message
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// MaxMessageLength is the longest accepted message content
const MaxMessageLength = 1000

// ReadReceipt records that a user has read a message
type ReadReceipt struct {
	UserID uint      `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// ReadReceipts is a custom type for storing receipt lists as JSONB
type ReadReceipts []ReadReceipt

// Scan implements the sql.Scanner interface for reading from database
func (r *ReadReceipts) Scan(value interface{}) error {
	if value == nil {
		*r = ReadReceipts{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal read receipts value")
	}

	return json.Unmarshal(bytes, r)
}

// Value implements the driver.Valuer interface for writing to database
func (r ReadReceipts) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("[]"), nil // Return empty JSON array instead of nil
	}
	return json.Marshal(r)
}

// Contains reports whether the user already has a receipt on this message
func (r ReadReceipts) Contains(userID uint) bool {
	for _, receipt := range r {
		if receipt.UserID == userID {
			return true
		}
	}
	return false
}

// Message represents a single chat message. Messages are never hard-deleted;
// deletion only flips IsDeleted so threads keep their shape.
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ChatID    uint           `gorm:"not null;index" json:"chat_id"`
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`
	Content   string         `gorm:"type:varchar(1000);not null" json:"content"`
	Type      MessageType    `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	FileMeta  datatypes.JSON `gorm:"type:jsonb" json:"file_meta,omitempty"`
	ReadBy    ReadReceipts   `gorm:"type:jsonb" json:"read_by,omitempty"`
	ReplyToID *uint          `gorm:"index" json:"reply_to_id,omitempty"`
	IsDeleted bool           `gorm:"default:false" json:"is_deleted"`

	// Relationships
	Chat    Chat     `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Sender  User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	ReplyTo *Message `gorm:"foreignKey:ReplyToID" json:"reply_to,omitempty"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageResponse represents the API shape of a message. Soft-deleted
// messages keep their row but withhold the content.
type MessageResponse struct {
	ID        uint           `json:"id"`
	ChatID    uint           `json:"chat_id"`
	SenderID  uint           `json:"sender_id"`
	Sender    string         `json:"sender,omitempty"`
	Content   string         `json:"content"`
	Type      MessageType    `json:"type"`
	FileMeta  datatypes.JSON `json:"file_meta,omitempty"`
	ReadBy    ReadReceipts   `json:"read_by,omitempty"`
	ReplyToID *uint          `json:"reply_to_id,omitempty"`
	IsDeleted bool           `json:"is_deleted"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToResponse converts a Message to MessageResponse
func (m *Message) ToResponse() MessageResponse {
	res := MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Type:      m.Type,
		FileMeta:  m.FileMeta,
		ReadBy:    m.ReadBy,
		ReplyToID: m.ReplyToID,
		IsDeleted: m.IsDeleted,
		CreatedAt: m.CreatedAt,
	}
	if m.Sender.ID != 0 {
		res.Sender = m.Sender.Username
	}
	if m.IsDeleted {
		res.Content = ""
	}
	return res
}
