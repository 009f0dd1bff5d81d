package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatKeys(t *testing.T) {
	assert.Equal(t, "support-42", SupportChatKey(42))
	assert.Equal(t, "booking-7", BookingChatKey(7))
	assert.Equal(t, "general-chat", GeneralChatKey)
}

func TestHasParticipant(t *testing.T) {
	chat := Chat{Participants: []ChatParticipant{{UserID: 1}, {UserID: 2}}}

	assert.True(t, chat.HasParticipant(1))
	assert.True(t, chat.HasParticipant(2))
	assert.False(t, chat.HasParticipant(3))
}

func TestChatCanAccess(t *testing.T) {
	general := Chat{Type: ChatTypeGeneral}
	support := Chat{Type: ChatTypeSupport, Participants: []ChatParticipant{{UserID: 1}}}
	booking := Chat{Type: ChatTypeBooking, Participants: []ChatParticipant{{UserID: 1}, {UserID: 2}}}

	tests := []struct {
		name   string
		chat   Chat
		userID uint
		role   string
		want   bool
	}{
		{"general open to any user", general, 5, RoleUser, true},
		{"support open to its owner", support, 1, RoleUser, true},
		{"support closed to other users", support, 2, RoleUser, false},
		{"support open to admins", support, 9, RoleAdmin, true},
		{"booking open to participants", booking, 2, RoleUser, true},
		{"booking closed to outsiders", booking, 3, RoleUser, false},
		{"booking open to admins", booking, 9, RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.chat.CanAccess(tt.userID, tt.role))
		})
	}
}
