package db

import (
	"context"

	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type commentRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepository(db *gorm.DB, log *logger.Logger) ports.CommentRepository {
	return &commentRepository{db: db, log: log}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.Errorw("comment_repo_create_failed", "task_id", comment.TaskID, "error", err)
		return err
	}
	r.log.Infow("comment_repo_create_ok", "id", comment.ID, "task_id", comment.TaskID)
	return nil
}

func (r *commentRepository) GetByTaskID(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		r.log.Errorw("comment_repo_list_failed", "task_id", taskID, "error", err)
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		r.log.Errorw("comment_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id).Error; err != nil {
		r.log.Errorw("comment_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("comment_repo_delete_ok", "id", id)
	return nil
}
