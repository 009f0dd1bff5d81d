package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
)

const stalePresenceCutoff = 30 * time.Minute

// CompleteExpiredBookings promotes confirmed bookings whose end date has
// passed. Reads already promote lazily; this job keeps rows that nobody
// reads from staying confirmed forever.
func (m *CronManager) CompleteExpiredBookings() {
	jobName := "complete_expired_bookings"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := m.bookings.CompleteExpiredBookings(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Completed %d expired bookings", count))
}

// ResetStalePresence clears online flags for users whose connection died
// without a clean disconnect
func (m *CronManager) ResetStalePresence() {
	jobName := "reset_stale_presence"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := m.presence.ResetStale(ctx, stalePresenceCutoff)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reset %d stale online flags", count))
}

// CleanupOldJobLogs removes cron job log rows older than 30 days
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old job logs", result.RowsAffected))
}
