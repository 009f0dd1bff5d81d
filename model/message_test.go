package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadReceiptsContains(t *testing.T) {
	receipts := ReadReceipts{
		{UserID: 1, ReadAt: time.Now()},
		{UserID: 3, ReadAt: time.Now()},
	}

	assert.True(t, receipts.Contains(1))
	assert.True(t, receipts.Contains(3))
	assert.False(t, receipts.Contains(2))
	assert.False(t, ReadReceipts{}.Contains(1))
}

func TestReadReceiptsValue(t *testing.T) {
	// Empty slices must serialize to an empty JSON array, not NULL
	v, err := ReadReceipts{}.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestMessageToResponseWithholdsDeletedContent(t *testing.T) {
	msg := Message{
		ID:       1,
		ChatID:   2,
		SenderID: 3,
		Content:  "hello",
		Type:     MessageTypeText,
		Sender:   User{ID: 3, Username: "alice"},
	}

	res := msg.ToResponse()
	assert.Equal(t, "hello", res.Content)
	assert.Equal(t, "alice", res.Sender)
	assert.False(t, res.IsDeleted)

	msg.IsDeleted = true
	res = msg.ToResponse()
	assert.Empty(t, res.Content)
	assert.True(t, res.IsDeleted)
}
