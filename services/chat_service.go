package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/validation"
	"gorm.io/gorm"
)

// Broadcaster is the fan-out capability the chat service uses to inform
// connected clients about new events. Delivery is best-effort; a nil or
// failing broadcaster never affects persistence.
type Broadcaster interface {
	// BroadcastToChat delivers an event to every connection currently
	// joined to the chat room
	BroadcastToChat(chatKey string, eventType string, payload interface{})
	// BroadcastToUser delivers an event to every connection of one user
	BroadcastToUser(userID uint, eventType string, payload interface{})
}

// ChatService handles chat rooms and message persistence. Real-time
// delivery happens after persistence through the injected Broadcaster.
type ChatService struct {
	db          *gorm.DB
	broadcaster Broadcaster
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// SetBroadcaster attaches the real-time layer. Optional; without it the
// service persists messages and skips fan-out.
func (s *ChatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateOrGetChat returns the chat for (type, user|booking), creating it
// on first access. Rooms are keyed by a deterministic string, so repeated
// calls return the same chat.
func (s *ChatService) CreateOrGetChat(ctx context.Context, userID uint, role string, chatType model.ChatType, bookingID uint) (*model.Chat, error) {
	var key, title string
	var participants []uint
	var bookingRef *uint

	switch chatType {
	case model.ChatTypeGeneral:
		key = model.GeneralChatKey
		title = "General Chat"
	case model.ChatTypeSupport:
		key = model.SupportChatKey(userID)
		title = "Support"
		participants = []uint{userID}
	case model.ChatTypeBooking:
		var booking model.Booking
		if err := s.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if role != model.RoleAdmin && booking.UserID != userID {
			return nil, ErrForbidden
		}
		key = model.BookingChatKey(bookingID)
		title = "Booking Chat"
		participants = []uint{booking.UserID}
		if booking.UserID != userID {
			participants = append(participants, userID)
		}
		bookingRef = &bookingID
	default:
		return nil, ErrInvalidChatType
	}

	var chat model.Chat
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Participants").Where("chat_key = ?", key).First(&chat).Error; err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		chat = model.Chat{
			ChatKey:      key,
			Type:         chatType,
			BookingID:    bookingRef,
			Title:        title,
			IsActive:     true,
			LastActivity: time.Now(),
		}
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}

		for _, pid := range participants {
			p := model.ChatParticipant{ChatID: chat.ID, UserID: pid}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			chat.Participants = append(chat.Participants, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

// getChatByKey loads a chat with its participants and checks access
func (s *ChatService) getChatByKey(ctx context.Context, chatKey string, userID uint, role string) (*model.Chat, error) {
	var chat model.Chat
	if err := s.db.WithContext(ctx).Preload("Participants").
		Where("chat_key = ?", chatKey).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !chat.CanAccess(userID, role) {
		return nil, ErrChatAccessDenied
	}
	return &chat, nil
}

// CanAccessChat reports whether a user may enter a chat room. Returns
// ErrNotFound for unknown keys and ErrChatAccessDenied for known ones the
// user cannot enter.
func (s *ChatService) CanAccessChat(ctx context.Context, chatKey string, userID uint, role string) error {
	_, err := s.getChatByKey(ctx, chatKey, userID, role)
	return err
}

// ListUserChats returns the chats a user can access: the general chat and
// every chat they participate in. Admins see all chats.
func (s *ChatService) ListUserChats(ctx context.Context, userID uint, role string) ([]model.Chat, error) {
	var chats []model.Chat

	query := s.db.WithContext(ctx).Preload("Participants.User").Order("last_activity DESC")
	if role == model.RoleAdmin {
		err := query.Find(&chats).Error
		return chats, err
	}

	err := query.
		Where("type = ?", model.ChatTypeGeneral).
		Or("id IN (?)", s.db.Model(&model.ChatParticipant{}).
			Select("chat_id").
			Where("user_id = ?", userID)).
		Find(&chats).Error
	return chats, err
}

// ListMessages returns a page of messages for a chat, newest page first.
// Soft-deleted messages stay in the listing with their content withheld.
func (s *ChatService) ListMessages(ctx context.Context, chatKey string, userID uint, role string, page, limit int) ([]model.MessageResponse, int64, error) {
	chat, err := s.getChatByKey(ctx, chatKey, userID, role)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ?", chat.ID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []model.Message
	if err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chat.ID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	// Reverse into chronological order for the client
	res := make([]model.MessageResponse, len(messages))
	for i, m := range messages {
		res[len(messages)-1-i] = m.ToResponse()
	}
	return res, total, nil
}

// SendMessage validates access and content, persists the message, bumps the
// chat's last activity, then fans out to connected clients. The broadcast is
// best-effort: persistence has already succeeded by the time it runs.
func (s *ChatService) SendMessage(ctx context.Context, chatKey string, senderID uint, role string, content string, msgType model.MessageType, replyToID *uint) (*model.Message, error) {
	chat, err := s.getChatByKey(ctx, chatKey, senderID, role)
	if err != nil {
		return nil, err
	}

	content = validation.SanitizeString(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > model.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	if msgType == "" {
		msgType = model.MessageTypeText
	}

	message := model.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   content,
		Type:      msgType,
		ReplyToID: replyToID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(chat).Update("last_activity", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Sender").First(&message, message.ID).Error; err != nil {
		return nil, err
	}

	s.broadcastMessage(chat, &message)
	return &message, nil
}

// broadcastMessage fans a persisted message out to the room and notifies
// participants on their personal channel. Failures are logged, never
// surfaced.
func (s *ChatService) broadcastMessage(chat *model.Chat, message *model.Message) {
	if s.broadcaster == nil {
		log.Printf("No broadcaster attached; message %d not fanned out", message.ID)
		return
	}

	payload := message.ToResponse()
	s.broadcaster.BroadcastToChat(chat.ChatKey, "messageReceived", payload)

	for _, p := range chat.Participants {
		if p.UserID == message.SenderID {
			continue
		}
		s.broadcaster.BroadcastToUser(p.UserID, "messageNotification", map[string]interface{}{
			"chat_id": chat.ChatKey,
			"title":   chat.Title,
			"message": payload,
		})
	}
}

// DeleteMessage soft-deletes a message. Only the sender or an admin may
// delete; the row is kept so threads stay intact.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, callerID uint, role string) error {
	var message model.Message
	if err := s.db.WithContext(ctx).Preload("Chat").First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if role != model.RoleAdmin && message.SenderID != callerID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(&message).Update("is_deleted", true).Error; err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToChat(message.Chat.ChatKey, "messageDeleted", map[string]interface{}{
			"message_id": message.ID,
			"chat_id":    message.Chat.ChatKey,
		})
	}
	return nil
}

// MarkMessagesRead adds a read receipt for the user on every message in the
// chat that does not have one yet
func (s *ChatService) MarkMessagesRead(ctx context.Context, chatKey string, userID uint, role string) error {
	chat, err := s.getChatByKey(ctx, chatKey, userID, role)
	if err != nil {
		return err
	}

	var messages []model.Message
	if err := s.db.WithContext(ctx).
		Where("chat_id = ? AND sender_id <> ?", chat.ID, userID).
		Find(&messages).Error; err != nil {
		return err
	}

	now := time.Now()
	for i := range messages {
		if messages[i].ReadBy.Contains(userID) {
			continue
		}
		messages[i].ReadBy = append(messages[i].ReadBy, model.ReadReceipt{UserID: userID, ReadAt: now})
		if err := s.db.WithContext(ctx).Model(&messages[i]).Update("read_by", messages[i].ReadBy).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListOnlineUsers returns users currently flagged online
func (s *ChatService) ListOnlineUsers(ctx context.Context) ([]model.UserResponse, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).
		Where("is_online = ?", true).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	res := make([]model.UserResponse, len(users))
	for i := range users {
		res[i] = users[i].ToResponse()
	}
	return res, nil
}
