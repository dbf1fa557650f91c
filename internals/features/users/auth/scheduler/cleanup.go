package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"eventpulse_backend/internals/features/users/auth/model"

	"gorm.io/gorm"
)

// StartBlacklistCleanupScheduler prunes expired blacklist rows and stale
// refresh-token hashes once a day.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		// TTL from env (default: 7 days past expiry)
		ttlDays := 7
		if val := os.Getenv("TOKEN_BLACKLIST_TTL_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				ttlDays = parsed
			}
		}

		for {
			log.Println("[CLEANUP] Pruning token_blacklist...")

			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			var expiredTokens []model.TokenBlacklist
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", deleteBefore).
				Limit(100).
				Find(&expiredTokens).Error; err != nil {
				log.Printf("[CLEANUP ERROR] Failed to load expired tokens: %v", err)
			} else if len(expiredTokens) > 0 {
				if err := db.Delete(&expiredTokens).Error; err != nil {
					log.Printf("[CLEANUP ERROR] Failed to delete tokens: %v", err)
				} else {
					log.Printf("[CLEANUP] %d expired tokens removed", len(expiredTokens))
				}
			} else {
				log.Println("[CLEANUP] Nothing to prune")
			}

			if err := db.
				Where("expires_at < ?", time.Now()).
				Delete(&model.RefreshTokenModel{}).Error; err != nil {
				log.Printf("[CLEANUP ERROR] Failed to prune refresh tokens: %v", err)
			}

			// once a day
			time.Sleep(24 * time.Hour)
		}
	}()
}
