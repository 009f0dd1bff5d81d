package services

import (
	"context"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"gorm.io/gorm"
)

// PresenceService persists online flags. The real-time hub calls it on
// connect and disconnect so presence survives across API reads.
type PresenceService struct {
	db *gorm.DB
}

// NewPresenceService creates a new presence service
func NewPresenceService(db *gorm.DB) *PresenceService {
	return &PresenceService{db: db}
}

// SetOnline updates a user's online flag and last-seen timestamp
func (s *PresenceService) SetOnline(ctx context.Context, userID uint, online bool) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online": online,
			"last_seen": time.Now(),
		}).Error
}

// ResetStale clears the online flag for users whose last heartbeat is older
// than the cutoff. Used by the cron backstop to recover from crashed
// connections that never sent a clean disconnect.
func (s *PresenceService) ResetStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("is_online = ? AND last_seen < ?", true, cutoff).
		Update("is_online", false)
	return result.RowsAffected, result.Error
}
