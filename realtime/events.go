package realtime

import "encoding/json"

// Server-to-client event names
const (
	EventMessageReceived     = "messageReceived"
	EventMessageDeleted      = "messageDeleted"
	EventMessageNotification = "messageNotification"
	EventUserTyping          = "userTyping"
	EventUserStoppedTyping   = "userStoppedTyping"
	EventUserStatusChanged   = "userStatusChanged"
	EventUserJoinedChat      = "userJoinedChat"
	EventUserLeftChat        = "userLeftChat"
	EventError               = "error"
)

// Client-to-server event names
const (
	ActionJoinChat      = "joinChat"
	ActionLeaveChat     = "leaveChat"
	ActionTyping        = "typing"
	ActionStopTyping    = "stopTyping"
	ActionNewMessage    = "newMessage"
	ActionDeleteMessage = "messageDeleted"
	ActionUpdateStatus  = "updateStatus"
)

// Event is the frame sent to clients
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Encode marshals the event for the wire. Marshal failures collapse to an
// error frame so a client never receives a half-written payload.
func (e Event) Encode() []byte {
	b, err := json.Marshal(e)
	if err != nil {
		b, _ = json.Marshal(Event{Event: EventError, Data: "encoding failed"})
	}
	return b
}

// ClientMessage is the frame received from clients
type ClientMessage struct {
	Event     string `json:"event"`
	ChatID    string `json:"chat_id,omitempty"`
	Content   string `json:"content,omitempty"`
	MessageID uint   `json:"message_id,omitempty"`
	ReplyToID *uint  `json:"reply_to_id,omitempty"`
	Status    string `json:"status,omitempty"`
}
