package db

import (
	"context"
	"time"

	"github.com/smith3v/tg-pill-reminder/pkg/logger"
)

const (
	DoseCleanupInterval = time.Hour
	DoseRetention       = 90 * 24 * time.Hour
)

// CleanupOldDoseEvents prunes adherence log rows older than the retention
// window. The daily summary only looks at the current day, so the log is
// kept around for history, not correctness.
func CleanupOldDoseEvents(now time.Time) (int64, error) {
	if DB == nil {
		return 0, nil
	}
	res := DB.Where("taken_at <= ?", now.Add(-DoseRetention)).Delete(&DoseEvent{})
	return res.RowsAffected, res.Error
}

func StartDoseCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DoseCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := CleanupOldDoseEvents(time.Now().UTC()); err != nil {
				logger.Error("failed to cleanup old dose events", "error", err)
			}
		}
	}
}
