package db

import (
	"context"

	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// historyRepository is append-only: there is deliberately no update or
// delete method for ledger entries.
type historyRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepository(db *gorm.DB, log *logger.Logger) ports.HistoryRepository {
	return &historyRepository{db: db, log: log}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.log.Errorw("history_repo_create_failed", "task_id", entry.TaskID, "action", entry.Action, "error", err)
		return err
	}
	r.log.Infow("history_repo_create_ok", "id", entry.ID, "task_id", entry.TaskID, "action", entry.Action)
	return nil
}

func (r *historyRepository) GetByTaskID(ctx context.Context, taskID string) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("timestamp desc").
		Find(&entries).Error
	if err != nil {
		r.log.Errorw("history_repo_list_failed", "task_id", taskID, "error", err)
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) GetRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		r.log.Errorw("history_repo_recent_failed", "error", err)
		return nil, err
	}
	return entries, nil
}
