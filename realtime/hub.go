package realtime

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
)

// defaultTypingTimeout is how long after the last typing signal the hub
// announces that the user stopped typing
const defaultTypingTimeout = 3 * time.Second

// PresenceStore persists online state as connections come and go
type PresenceStore interface {
	SetOnline(ctx context.Context, userID uint, online bool) error
}

// Hub tracks every live WebSocket connection and fans events out to them.
// Connections are grouped per user and per chat room. A user may hold many
// connections; presence flips only on the first and last one.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	typing  map[string]map[uint]*time.Timer

	presence PresenceStore
	chats    *services.ChatService
	bridge   *RedisBridge

	typingTimeout time.Duration
}

// NewHub creates a hub with no connections
func NewHub(presence PresenceStore, chats *services.ChatService) *Hub {
	return &Hub{
		clients:  make(map[uint]map[*Client]struct{}),
		rooms:    make(map[string]map[*Client]struct{}),
		typing:   make(map[string]map[uint]*time.Timer),
		presence: presence,
		chats:    chats,

		typingTimeout: defaultTypingTimeout,
	}
}

// SetBridge attaches a Redis bridge so events reach clients connected to
// other instances. Optional; without it the hub is single-instance.
func (h *Hub) SetBridge(b *RedisBridge) {
	h.bridge = b
}

// Register adds a connection. The first connection of a user marks them
// online and announces the change.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	first := len(h.clients[c.userID]) == 0
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()

	if first {
		h.setPresence(c.userID, true)
		h.announceStatus(c.userID, c.username, true)
	}
}

// Unregister removes a connection. The last connection of a user marks them
// offline and announces the change.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if c.chatKey != "" {
		h.leaveRoomLocked(c)
	}
	if conns, ok := h.clients[c.userID]; ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	last := len(h.clients[c.userID]) == 0
	h.mu.Unlock()

	if last {
		h.setPresence(c.userID, false)
		h.announceStatus(c.userID, c.username, false)
	}
}

// JoinChat moves a connection into a chat room after an access check. A
// connection is in at most one chat room at a time.
func (h *Hub) JoinChat(c *Client, chatKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.chats.CanAccessChat(ctx, chatKey, c.userID, c.role); err != nil {
		c.sendEvent(Event{Event: EventError, Data: err.Error()})
		return
	}

	h.mu.Lock()
	if c.chatKey != "" {
		h.leaveRoomLocked(c)
	}
	if h.rooms[chatKey] == nil {
		h.rooms[chatKey] = make(map[*Client]struct{})
	}
	h.rooms[chatKey][c] = struct{}{}
	c.chatKey = chatKey
	h.mu.Unlock()

	h.BroadcastToChat(chatKey, EventUserJoinedChat, map[string]interface{}{
		"chat_id":  chatKey,
		"user_id":  c.userID,
		"username": c.username,
	})
}

// LeaveChat removes a connection from its current chat room
func (h *Hub) LeaveChat(c *Client) {
	h.mu.Lock()
	chatKey := c.chatKey
	if chatKey != "" {
		h.leaveRoomLocked(c)
	}
	h.mu.Unlock()

	if chatKey != "" {
		h.BroadcastToChat(chatKey, EventUserLeftChat, map[string]interface{}{
			"chat_id":  chatKey,
			"user_id":  c.userID,
			"username": c.username,
		})
	}
}

// leaveRoomLocked removes the client from its room and stops any typing
// timer it holds. Caller must hold the hub lock.
func (h *Hub) leaveRoomLocked(c *Client) {
	room := h.rooms[c.chatKey]
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.chatKey)
	}
	if timers, ok := h.typing[c.chatKey]; ok {
		if t, running := timers[c.userID]; running {
			t.Stop()
			delete(timers, c.userID)
		}
		if len(timers) == 0 {
			delete(h.typing, c.chatKey)
		}
	}
	c.chatKey = ""
}

// BroadcastToChat delivers an event to every connection joined to the chat.
// The general chat reaches every connection, joined or not, so lobby
// messages behave like announcements.
func (h *Hub) BroadcastToChat(chatKey string, eventType string, payload interface{}) {
	event := Event{Event: eventType, Data: payload}
	h.deliverToChat(chatKey, event)

	if h.bridge != nil {
		h.bridge.Publish(chatKey, event)
	}
}

// BroadcastToUser delivers an event to every connection of one user
func (h *Hub) BroadcastToUser(userID uint, eventType string, payload interface{}) {
	event := Event{Event: eventType, Data: payload}
	h.deliverToUser(userID, event)

	if h.bridge != nil {
		h.bridge.Publish(userRoom(userID), event)
	}
}

// deliverToChat fans an event out to local connections only
func (h *Hub) deliverToChat(chatKey string, event Event) {
	frame := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	if chatKey == model.GeneralChatKey {
		for _, conns := range h.clients {
			for c := range conns {
				c.queue(frame)
			}
		}
		return
	}

	for c := range h.rooms[chatKey] {
		c.queue(frame)
	}
}

// deliverToUser fans an event out to one user's local connections only
func (h *Hub) deliverToUser(userID uint, event Event) {
	frame := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		c.queue(frame)
	}
}

// deliverRemote applies an event that arrived over the Redis bridge
func (h *Hub) deliverRemote(room string, event Event) {
	if uid, ok := parseUserRoom(room); ok {
		h.deliverToUser(uid, event)
		return
	}
	h.deliverToChat(room, event)
}

// OnlineUserIDs returns the IDs of users with at least one live connection
// on this instance
func (h *Hub) OnlineUserIDs() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// handleClientMessage dispatches one inbound frame
func (h *Hub) handleClientMessage(c *Client, msg ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Event {
	case ActionJoinChat:
		h.JoinChat(c, msg.ChatID)

	case ActionLeaveChat:
		h.LeaveChat(c)

	case ActionNewMessage:
		chatKey := msg.ChatID
		if chatKey == "" {
			chatKey = c.currentChat(h)
		}
		if _, err := h.chats.SendMessage(ctx, chatKey, c.userID, c.role, msg.Content, model.MessageTypeText, msg.ReplyToID); err != nil {
			c.sendEvent(Event{Event: EventError, Data: err.Error()})
		}

	case ActionDeleteMessage:
		if err := h.chats.DeleteMessage(ctx, msg.MessageID, c.userID, c.role); err != nil {
			c.sendEvent(Event{Event: EventError, Data: err.Error()})
		}

	case ActionTyping:
		h.startTyping(c, msg.ChatID)

	case ActionStopTyping:
		h.stopTyping(c, msg.ChatID)

	case ActionUpdateStatus:
		online := msg.Status != "offline"
		h.setPresence(c.userID, online)
		h.announceStatus(c.userID, c.username, online)

	default:
		c.sendEvent(Event{Event: EventError, Data: "unknown event"})
	}
}

// startTyping announces the typing user to the room and arms the timer that
// announces the stop if the client never sends one
func (h *Hub) startTyping(c *Client, chatKey string) {
	if chatKey == "" {
		chatKey = c.currentChat(h)
	}
	if chatKey == "" || !h.isJoined(c, chatKey) {
		return
	}

	h.mu.Lock()
	if h.typing[chatKey] == nil {
		h.typing[chatKey] = make(map[uint]*time.Timer)
	}
	fresh := h.typing[chatKey][c.userID] == nil
	if t, ok := h.typing[chatKey][c.userID]; ok {
		t.Reset(h.typingTimeout)
	} else {
		userID, username := c.userID, c.username
		h.typing[chatKey][c.userID] = time.AfterFunc(h.typingTimeout, func() {
			h.clearTyping(chatKey, userID, username)
		})
	}
	h.mu.Unlock()

	if fresh {
		h.BroadcastToChat(chatKey, EventUserTyping, map[string]interface{}{
			"chat_id":  chatKey,
			"user_id":  c.userID,
			"username": c.username,
		})
	}
}

// stopTyping announces the stop right away and disarms the timer
func (h *Hub) stopTyping(c *Client, chatKey string) {
	if chatKey == "" {
		chatKey = c.currentChat(h)
	}
	if chatKey == "" {
		return
	}

	h.mu.Lock()
	active := false
	if timers, ok := h.typing[chatKey]; ok {
		if t, running := timers[c.userID]; running {
			t.Stop()
			delete(timers, c.userID)
			active = true
		}
		if len(timers) == 0 {
			delete(h.typing, chatKey)
		}
	}
	h.mu.Unlock()

	if active {
		h.BroadcastToChat(chatKey, EventUserStoppedTyping, map[string]interface{}{
			"chat_id":  chatKey,
			"user_id":  c.userID,
			"username": c.username,
		})
	}
}

// clearTyping is the timer callback for a typing signal that was never
// followed by a stop
func (h *Hub) clearTyping(chatKey string, userID uint, username string) {
	h.mu.Lock()
	if timers, ok := h.typing[chatKey]; ok {
		delete(timers, userID)
		if len(timers) == 0 {
			delete(h.typing, chatKey)
		}
	}
	h.mu.Unlock()

	h.BroadcastToChat(chatKey, EventUserStoppedTyping, map[string]interface{}{
		"chat_id":  chatKey,
		"user_id":  userID,
		"username": username,
	})
}

func (h *Hub) isJoined(c *Client, chatKey string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[chatKey][c]
	return ok
}

func (h *Hub) setPresence(userID uint, online bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.presence.SetOnline(ctx, userID, online); err != nil {
		log.Printf("Failed to persist presence for user %d: %v", userID, err)
	}
}

func (h *Hub) announceStatus(userID uint, username string, online bool) {
	h.BroadcastToChat(model.GeneralChatKey, EventUserStatusChanged, map[string]interface{}{
		"user_id":   userID,
		"username":  username,
		"is_online": online,
	})
}

// currentChat reads the client's room under the hub lock
func (c *Client) currentChat(h *Hub) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.chatKey
}

// queue appends a pre-encoded frame without blocking. Caller holds at least
// the hub read lock, which keeps the send channel from closing underneath.
func (c *Client) queue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Printf("Dropping frame for slow client, user %d", c.userID)
	}
}

func userRoom(userID uint) string {
	return "user-" + strconv.FormatUint(uint64(userID), 10)
}

func parseUserRoom(room string) (uint, bool) {
	if !strings.HasPrefix(room, "user-") {
		return 0, false
	}
	id, err := strconv.ParseUint(room[len("user-"):], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
