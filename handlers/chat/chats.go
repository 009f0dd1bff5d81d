package chat

import (
	"errors"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles chat REST requests. Real-time traffic goes over the
// WebSocket endpoint; these routes cover history, room management, and
// clients without a live connection.
type ChatHandler struct {
	chats *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// OpenChatRequest represents a create-or-get chat request
type OpenChatRequest struct {
	Type      model.ChatType `json:"type" validate:"required"`
	BookingID uint           `json:"booking_id,omitempty"`
}

// OpenChat returns the chat for the requested type, creating it on first
// access
func (h *ChatHandler) OpenChat(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	var req OpenChatRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	chat, err := h.chats.CreateOrGetChat(c.Context(), userID, role, req.Type, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Booking not found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "")
		case errors.Is(err, services.ErrInvalidChatType):
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to open chat")
	}

	return response.Success(c, chat)
}

// ListChats returns the chats the authenticated user can access
func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	chats, err := h.chats.ListUserChats(c.Context(), userID, role)
	if err != nil {
		return response.InternalServerError(c, "Failed to load chats")
	}

	return response.Success(c, chats)
}

// ListMessages returns a page of a chat's message history
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	chatKey := c.Params("chatId")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	messages, total, err := h.chats.ListMessages(c.Context(), chatKey, userID, role, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Chat not found")
		case errors.Is(err, services.ErrChatAccessDenied):
			return response.Forbidden(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to load messages")
	}

	return response.Paginated(c, messages, response.CalculatePagination(page, limit, total))
}

// SendMessageRequest represents a message send request
type SendMessageRequest struct {
	Content   string            `json:"content" validate:"required,max=1000"`
	Type      model.MessageType `json:"type,omitempty"`
	ReplyToID *uint             `json:"reply_to_id,omitempty"`
}

// SendMessage posts a message to a chat over REST. Connected WebSocket
// clients still receive it in real time.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	chatKey := c.Params("chatId")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	message, err := h.chats.SendMessage(c.Context(), chatKey, userID, role, req.Content, req.Type, req.ReplyToID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Chat not found")
		case errors.Is(err, services.ErrChatAccessDenied):
			return response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrEmptyMessage),
			errors.Is(err, services.ErrMessageTooLong):
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to send message")
	}

	return response.Created(c, message.ToResponse())
}

// DeleteMessage soft-deletes a message. Senders may delete their own
// messages; admins may delete any.
func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid message ID")
	}

	if err := h.chats.DeleteMessage(c.Context(), uint(id), userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Message not found")
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "")
		}
		return response.InternalServerError(c, "Failed to delete message")
	}

	return response.SuccessWithMessage(c, "Message deleted", nil)
}

// MarkRead adds read receipts for the user on a chat's messages
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	role, _ := middleware.GetUserRole(c)

	chatKey := c.Params("chatId")

	if err := h.chats.MarkMessagesRead(c.Context(), chatKey, userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Chat not found")
		case errors.Is(err, services.ErrChatAccessDenied):
			return response.Forbidden(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to mark messages read")
	}

	return response.SuccessWithMessage(c, "Messages marked read", nil)
}

// ListOnlineUsers returns the users currently online
func (h *ChatHandler) ListOnlineUsers(c *fiber.Ctx) error {
	users, err := h.chats.ListOnlineUsers(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load online users")
	}

	return response.Success(c, users)
}
