package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type commentService struct {
	repo     ports.CommentRepository
	taskRepo ports.TaskRepository
	history  ports.HistoryService
	logger   *logger.Logger
}

type CommentServiceConfig struct {
	Repository ports.CommentRepository
	TaskRepo   ports.TaskRepository
	History    ports.HistoryService
	Logger     *logger.Logger
}

func NewCommentService(cfg CommentServiceConfig) ports.CommentService {
	return &commentService{
		repo:     cfg.Repository,
		taskRepo: cfg.TaskRepo,
		history:  cfg.History,
		logger:   cfg.Logger,
	}
}

// Add creates a comment and records a comment_added ledger event. The event
// captures that a comment happened, not a live join to its content: deleting
// the comment later never removes this entry.
func (s *commentService) Add(ctx context.Context, taskID, content string, actor domain.Actor) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentEmpty
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		Content:     content,
		CreatedAt:   time.Now(),
		AuthorID:    actor.ID,
		AuthorName:  actor.Name,
		AuthorEmail: actor.Email,
		AuthorRole:  actor.Role,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.history.Append(ctx, taskID, domain.ActionCommentAdded,
		fmt.Sprintf("Comment added by %s", actor.Email), actor,
		domain.JSONB{"comment_id": comment.ID})
	return comment, nil
}

func (s *commentService) List(ctx context.Context, taskID string) ([]domain.Comment, error) {
	return s.repo.GetByTaskID(ctx, taskID)
}

func (s *commentService) Delete(ctx context.Context, taskID, commentID string, actor domain.Actor) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.TaskID != taskID {
		return ErrCommentNotFound
	}
	if !actor.IsAdmin() && domain.NormalizeEmail(comment.AuthorEmail) != domain.NormalizeEmail(actor.Email) {
		return ErrCommentNotAuthor
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return err
	}
	s.history.Append(ctx, taskID, domain.ActionCommentDeleted,
		fmt.Sprintf("Comment removed by %s", actor.Email), actor,
		domain.JSONB{"comment_id": commentID})
	return nil
}
