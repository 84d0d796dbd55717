package db

import (
	"github.com/taskhive/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// AutoMigrate all models
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Task{},
		&domain.HistoryEntry{},
		&domain.Comment{},
	)
	if err != nil {
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		return err
	}

	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	// Ledger lookups are always per task, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_history_entries_task_time
		ON history_entries (task_id, timestamp DESC)
	`).Error; err != nil {
		return err
	}

	// Ownership scans filter on the normalized assignee/assigner emails.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to_email
		ON tasks (assigned_to_email)
	`).Error; err != nil {
		return err
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_assigned_by_email
		ON tasks (assigned_by_email)
	`).Error; err != nil {
		return err
	}

	return nil
}
