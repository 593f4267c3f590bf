package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureIndexes adds Postgres-only indexes that gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_notification_user_unread
		ON notification (user_id, created_at DESC)
		WHERE is_read = false;
	`).Error; err != nil {
		return fmt.Errorf("create idx_notification_user_unread: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_submission_pending_created
		ON submission (created_at)
		WHERE status = 'PENDING';
	`).Error; err != nil {
		return fmt.Errorf("create idx_submission_pending_created: %w", err)
	}
	return nil
}
