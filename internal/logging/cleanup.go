package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup deletes system_logs older than retentionDays once at start and
// then daily until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		run := func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("log cleanup panicked", "panic", r)
				}
			}()
			cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
			deleted, err := DeleteLogsBefore(context.Background(), db, cutoff)
			if err != nil {
				slog.Error("log cleanup failed", "error", err)
			} else if deleted > 0 {
				slog.Info("log cleanup completed", "deleted", deleted)
			}
		}

		run()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-done:
				return
			}
		}
	}()
}

func DeleteLogsBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
