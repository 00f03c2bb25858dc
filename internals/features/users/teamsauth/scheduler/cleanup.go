package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"okrhub_backend/internals/features/users/teamsauth/model"
)

// StartBlacklistCleanupScheduler purges expired blacklist rows hourly so the
// per-request lookup stays small. Runs for the lifetime of the process.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		cleanup(db)
		for range ticker.C {
			cleanup(db)
		}
	}()
	log.Println("🧹 Token blacklist cleanup scheduler started (hourly)")
}

func cleanup(db *gorm.DB) {
	res := db.Unscoped().
		Where("expired_at < ?", time.Now()).
		Delete(&model.TokenBlacklistModel{})
	if res.Error != nil {
		log.Printf("[ERROR] blacklist cleanup failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[INFO] blacklist cleanup removed %d expired tokens", res.RowsAffected)
	}
}
