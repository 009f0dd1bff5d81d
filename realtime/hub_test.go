package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresence struct {
	calls []presenceCall
}

type presenceCall struct {
	userID uint
	online bool
}

func (f *fakePresence) SetOnline(_ context.Context, userID uint, online bool) error {
	f.calls = append(f.calls, presenceCall{userID, online})
	return nil
}

func newTestClient(hub *Hub, userID uint, username string) *Client {
	return &Client{
		hub:      hub,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		username: username,
		role:     "user",
	}
}

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case frame := <-c.send:
			var e Event
			if err := json.Unmarshal(frame, &e); err == nil {
				events = append(events, e)
			}
		default:
			return events
		}
	}
}

func TestRegisterFlipsPresenceOnFirstConnection(t *testing.T) {
	presence := &fakePresence{}
	hub := NewHub(presence, nil)

	first := newTestClient(hub, 1, "alice")
	second := newTestClient(hub, 1, "alice")

	hub.Register(first)
	require.Len(t, presence.calls, 1)
	assert.Equal(t, presenceCall{1, true}, presence.calls[0])

	// Second connection of the same user does not flip presence again
	hub.Register(second)
	assert.Len(t, presence.calls, 1)

	hub.Unregister(first)
	assert.Len(t, presence.calls, 1)

	hub.Unregister(second)
	require.Len(t, presence.calls, 2)
	assert.Equal(t, presenceCall{1, false}, presence.calls[1])
}

func TestBroadcastToUserReachesAllConnections(t *testing.T) {
	hub := NewHub(&fakePresence{}, nil)

	tab1 := newTestClient(hub, 1, "alice")
	tab2 := newTestClient(hub, 1, "alice")
	other := newTestClient(hub, 2, "bob")

	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(other)
	drain(tab1)
	drain(tab2)
	drain(other)

	hub.BroadcastToUser(1, EventMessageNotification, map[string]interface{}{"chat_id": "support-1"})

	for _, c := range []*Client{tab1, tab2} {
		events := drain(c)
		require.Len(t, events, 1)
		assert.Equal(t, EventMessageNotification, events[0].Event)
	}
	assert.Empty(t, drain(other))
}

func TestGeneralChatReachesEveryConnection(t *testing.T) {
	hub := NewHub(&fakePresence{}, nil)

	alice := newTestClient(hub, 1, "alice")
	bob := newTestClient(hub, 2, "bob")

	hub.Register(alice)
	hub.Register(bob)
	drain(alice)
	drain(bob)

	hub.BroadcastToChat("general-chat", EventMessageReceived, map[string]interface{}{"content": "hi"})

	for _, c := range []*Client{alice, bob} {
		events := drain(c)
		require.Len(t, events, 1)
		assert.Equal(t, EventMessageReceived, events[0].Event)
	}
}

func TestRoomBroadcastOnlyReachesJoinedClients(t *testing.T) {
	hub := NewHub(&fakePresence{}, nil)

	alice := newTestClient(hub, 1, "alice")
	bob := newTestClient(hub, 2, "bob")

	hub.Register(alice)
	hub.Register(bob)

	// Place alice in the room directly; JoinChat needs a database-backed
	// access check which room delivery itself does not
	hub.mu.Lock()
	hub.rooms["booking-7"] = map[*Client]struct{}{alice: {}}
	alice.chatKey = "booking-7"
	hub.mu.Unlock()

	drain(alice)
	drain(bob)

	hub.deliverToChat("booking-7", Event{Event: EventMessageReceived})

	assert.Len(t, drain(alice), 1)
	assert.Empty(t, drain(bob))
}

func TestTypingSignals(t *testing.T) {
	hub := NewHub(&fakePresence{}, nil)

	alice := newTestClient(hub, 1, "alice")
	bob := newTestClient(hub, 2, "bob")

	hub.Register(alice)
	hub.Register(bob)

	hub.mu.Lock()
	hub.rooms["booking-7"] = map[*Client]struct{}{alice: {}, bob: {}}
	alice.chatKey = "booking-7"
	bob.chatKey = "booking-7"
	hub.mu.Unlock()

	drain(alice)
	drain(bob)

	hub.startTyping(alice, "booking-7")
	events := drain(bob)
	require.Len(t, events, 1)
	assert.Equal(t, EventUserTyping, events[0].Event)

	// Repeated signals only reset the timer, no duplicate broadcast
	hub.startTyping(alice, "booking-7")
	assert.Empty(t, drain(bob))

	hub.stopTyping(alice, "booking-7")
	events = drain(bob)
	require.Len(t, events, 1)
	assert.Equal(t, EventUserStoppedTyping, events[0].Event)

	// Stop without an active timer is a no-op
	hub.stopTyping(alice, "booking-7")
	assert.Empty(t, drain(bob))
}

func TestTypingExpiresWithoutStopSignal(t *testing.T) {
	hub := NewHub(&fakePresence{}, nil)
	hub.typingTimeout = 20 * time.Millisecond

	alice := newTestClient(hub, 1, "alice")
	bob := newTestClient(hub, 2, "bob")

	hub.Register(alice)
	hub.Register(bob)

	hub.mu.Lock()
	hub.rooms["booking-7"] = map[*Client]struct{}{alice: {}, bob: {}}
	alice.chatKey = "booking-7"
	bob.chatKey = "booking-7"
	hub.mu.Unlock()

	drain(alice)
	drain(bob)

	hub.startTyping(alice, "booking-7")
	events := drain(bob)
	require.Len(t, events, 1)
	assert.Equal(t, EventUserTyping, events[0].Event)

	// The stop announcement arrives from the timer alone
	require.Eventually(t, func() bool {
		for _, e := range drain(bob) {
			if e.Event == EventUserStoppedTyping {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	_, tracked := hub.typing["booking-7"]
	hub.mu.RUnlock()
	assert.False(t, tracked)
}

func TestParseUserRoom(t *testing.T) {
	tests := []struct {
		room   string
		wantID uint
		wantOK bool
	}{
		{"user-42", 42, true},
		{"user-0", 0, true},
		{"booking-7", 0, false},
		{"user-", 0, false},
		{"user-abc", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseUserRoom(tt.room)
		assert.Equal(t, tt.wantOK, ok, tt.room)
		if ok {
			assert.Equal(t, tt.wantID, id, tt.room)
		}
	}
}

func TestUserRoomRoundTrip(t *testing.T) {
	id, ok := parseUserRoom(userRoom(123))
	require.True(t, ok)
	assert.Equal(t, uint(123), id)
}
