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

// lifecycleService drives every task state transition. Each transition is
// permission-checked, persisted fail-closed, and followed by exactly one
// ledger entry; a failed persist applies nothing and appends nothing (the
// one exception is the best-effort task_edit_failed marker).
type lifecycleService struct {
	repo     ports.TaskRepository
	history  ports.HistoryService
	notifier ports.Notifier
	logger   *logger.Logger
}

type LifecycleServiceConfig struct {
	Repository ports.TaskRepository
	History    ports.HistoryService
	Notifier   ports.Notifier
	Logger     *logger.Logger
}

func NewLifecycleService(cfg LifecycleServiceConfig) ports.LifecycleService {
	return &lifecycleService{
		repo:     cfg.Repository,
		history:  cfg.History,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
}

func (s *lifecycleService) Create(ctx context.Context, input ports.CreateTaskInput, actor domain.Actor) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskInvalidInput
	}
	assignedBy := input.AssignedBy
	if assignedBy.IsZero() {
		assignedBy = actor.Ref()
	}
	if domain.NormalizeEmail(assignedBy.Email) == "" {
		return nil, ErrTaskInvalidInput
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   input.Description,
		Priority:      priority,
		DueDate:       input.DueDate,
		TaskType:      input.TaskType,
		CompanyName:   input.CompanyName,
		Brand:         input.Brand,
		AssignedTo:    input.AssignedTo,
		AssignedBy:    assignedBy,
		Status:        domain.TaskStatusPending,
		ApprovalState: domain.ApprovalStateNone,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.history.Append(ctx, task.ID, domain.ActionTaskCreated,
		fmt.Sprintf("Task %q created", task.Title), actor, nil)
	s.notify(ctx, fmt.Sprintf("New task %q assigned to %s", task.Title, task.AssignedTo.Email))
	return task, nil
}

func (s *lifecycleService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.repo.GetByIDWithHistory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *lifecycleService) List(ctx context.Context) ([]domain.Task, error) {
	return s.repo.GetAll(ctx)
}

func (s *lifecycleService) MarkCompleted(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanToggleCompletion(task, actor); err != nil {
		s.denied(id, domain.ActionMarkedCompleted, actor, err)
		return nil, err
	}

	task.Status = domain.TaskStatusCompleted
	if actor.IsAdmin() {
		// An admin claiming completion counts as approval; the ledger scan
		// treats it the same way.
		task.ApprovalState = domain.ApprovalStateAdmin
	} else {
		task.ApprovalState = domain.ApprovalStatePending
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionMarkedCompleted,
		fmt.Sprintf("Task marked completed by %s", actor.Email), actor, nil)
	s.notify(ctx, fmt.Sprintf("Task %q marked completed by %s", task.Title, actor.Email))
	return task, nil
}

func (s *lifecycleService) MarkPending(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanToggleCompletion(task, actor); err != nil {
		s.denied(id, domain.ActionMarkedPending, actor, err)
		return nil, err
	}

	// Reopening a locked task is only reachable by the assigner (the toggle
	// gate rejects everyone else); doing so is an explicit unlock.
	task.CompletedApproval = false
	task.Status = domain.TaskStatusPending
	task.ApprovalState = domain.ApprovalStateNone

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionMarkedPending,
		fmt.Sprintf("Task reopened by %s", actor.Email), actor, nil)
	return task, nil
}

func (s *lifecycleService) AdminApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanAdminApprove(task, actor); err != nil {
		s.denied(id, domain.ActionAdminApproved, actor, err)
		return nil, err
	}
	if !IsCompleted(task) {
		return nil, ErrNotCompleted
	}

	task.ApprovalState = domain.ApprovalStateAdmin
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionAdminApproved,
		fmt.Sprintf("Completion approved by admin %s", actor.Email), actor, nil)
	s.notify(ctx, fmt.Sprintf("Task %q approved by %s", task.Title, actor.Email))
	return task, nil
}

func (s *lifecycleService) AdminReject(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanAdminApprove(task, actor); err != nil {
		s.denied(id, domain.ActionRejectedByAdmin, actor, err)
		return nil, err
	}
	if !IsCompleted(task) {
		return nil, ErrNotCompleted
	}

	task.Status = domain.TaskStatusPending
	task.ApprovalState = domain.ApprovalStateNone
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionRejectedByAdmin,
		fmt.Sprintf("Completion rejected by admin %s, task returned to pending", actor.Email), actor, nil)
	s.notify(ctx, fmt.Sprintf("Task %q rejected by %s", task.Title, actor.Email))
	return task, nil
}

func (s *lifecycleService) PermanentApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanPermanentApprove(task, actor); err != nil {
		s.denied(id, domain.ActionPermanentApproved, actor, err)
		return nil, err
	}

	task.CompletedApproval = true
	task.Status = domain.TaskStatusCompleted
	task.ApprovalState = domain.ApprovalStatePermanent
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionPermanentApproved,
		fmt.Sprintf("Permanently approved by assigner %s", actor.Email), actor, nil)
	s.notify(ctx, fmt.Sprintf("Task %q permanently approved", task.Title))
	return task, nil
}

func (s *lifecycleService) RemovePermanentApproval(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanRemovePermanentApproval(task, actor); err != nil {
		s.denied(id, domain.ActionPermanentApprovalRemoved, actor, err)
		return nil, err
	}

	task.CompletedApproval = false
	// Unlocking does not re-run admin approval: the resulting state is
	// whatever the ledger already supports.
	entries, _ := s.history.EntriesFor(ctx, task.ID)
	task.ApprovalState = InferApprovalState(task, entries)

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionPermanentApprovalRemoved,
		fmt.Sprintf("Permanent approval removed by assigner %s", actor.Email), actor, nil)
	return task, nil
}

func (s *lifecycleService) Reassign(ctx context.Context, id string, to domain.UserRef, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanReassign(task, actor); err != nil {
		s.denied(id, domain.ActionTaskReassigned, actor, err)
		return nil, err
	}
	if domain.NormalizeEmail(to.Email) == "" {
		return nil, ErrTaskInvalidInput
	}

	from := task.AssignedTo
	task.AssignedTo = to
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.history.Append(ctx, task.ID, domain.ActionTaskReassigned,
		fmt.Sprintf("Task reassigned from %s to %s", from.Email, to.Email), actor,
		domain.JSONB{"from": from.Email, "to": to.Email})
	s.notify(ctx, fmt.Sprintf("Task %q reassigned to %s", task.Title, to.Email))
	return task, nil
}

func (s *lifecycleService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := CanDelete(task, actor); err != nil {
		s.denied(id, domain.ActionTaskDeleted, actor, err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.history.Append(ctx, id, domain.ActionTaskDeleted,
		fmt.Sprintf("Task %q deleted by %s", task.Title, actor.Email), actor, nil)
	return nil
}

// fieldChange pairs a single-field edit with its dedicated ledger action.
type fieldChange struct {
	action string
	from   string
	to     string
}

func (s *lifecycleService) Edit(ctx context.Context, id string, input ports.EditTaskInput, actor domain.Actor) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanEdit(task, actor); err != nil {
		s.denied(id, domain.ActionTaskEdited, actor, err)
		return nil, err
	}

	var changes []fieldChange
	if input.Title != nil && strings.TrimSpace(*input.Title) != task.Title {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskInvalidInput
		}
		changes = append(changes, fieldChange{domain.ActionTitleChanged, task.Title, title})
		task.Title = title
	}
	if input.Description != nil && *input.Description != task.Description {
		changes = append(changes, fieldChange{domain.ActionDescriptionChanged, task.Description, *input.Description})
		task.Description = *input.Description
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		changes = append(changes, fieldChange{domain.ActionPriorityChanged, string(task.Priority), string(*input.Priority)})
		task.Priority = *input.Priority
	}
	if input.DueDate != nil && !equalDates(task.DueDate, input.DueDate) {
		changes = append(changes, fieldChange{domain.ActionDueDateChanged, formatDate(task.DueDate), formatDate(input.DueDate)})
		task.DueDate = input.DueDate
	}
	if input.TaskType != nil && *input.TaskType != task.TaskType {
		changes = append(changes, fieldChange{domain.ActionTypeChanged, task.TaskType, *input.TaskType})
		task.TaskType = *input.TaskType
	}
	if input.CompanyName != nil && *input.CompanyName != task.CompanyName {
		changes = append(changes, fieldChange{domain.ActionCompanyChanged, task.CompanyName, *input.CompanyName})
		task.CompanyName = *input.CompanyName
	}
	if input.Brand != nil && *input.Brand != task.Brand {
		changes = append(changes, fieldChange{domain.ActionBrandChanged, task.Brand, *input.Brand})
		task.Brand = *input.Brand
	}

	if len(changes) == 0 {
		return task, nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		// Best effort: the ledger records that an edit was attempted and
		// failed, even though nothing was applied.
		s.history.Append(ctx, task.ID, domain.ActionTaskEditFailed,
			fmt.Sprintf("Edit by %s failed: %v", actor.Email, err), actor, nil)
		return nil, err
	}

	if len(changes) == 1 {
		c := changes[0]
		s.history.Append(ctx, task.ID, c.action,
			fmt.Sprintf("%s: %q -> %q", domain.ActionLabel(c.action), c.from, c.to), actor,
			domain.JSONB{"from": c.from, "to": c.to})
	} else {
		data := domain.JSONB{}
		for _, c := range changes {
			data[c.action] = map[string]interface{}{"from": c.from, "to": c.to}
		}
		s.history.Append(ctx, task.ID, domain.ActionTaskEdited,
			fmt.Sprintf("Task edited by %s (%d fields)", actor.Email, len(changes)), actor, data)
	}
	return task, nil
}

// BulkSetStatus toggles completion across many tasks. Admin only; tasks that
// are missing or locked are skipped rather than failing the batch.
func (s *lifecycleService) BulkSetStatus(ctx context.Context, ids []string, completed bool, actor domain.Actor) (*ports.BulkStatusResult, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAdmin
	}

	result := &ports.BulkStatusResult{}
	for _, id := range ids {
		task, err := s.load(ctx, id)
		if err != nil {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if IsPermanentlyApproved(task) {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		action := domain.ActionBulkPending
		if completed {
			task.Status = domain.TaskStatusCompleted
			task.ApprovalState = domain.ApprovalStateAdmin
			action = domain.ActionBulkCompleted
		} else {
			task.Status = domain.TaskStatusPending
			task.ApprovalState = domain.ApprovalStateNone
		}

		if err := s.repo.Update(ctx, task); err != nil {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		s.history.Append(ctx, task.ID, action,
			fmt.Sprintf("%s by admin %s", domain.ActionLabel(action), actor.Email), actor, nil)
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}

func (s *lifecycleService) load(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *lifecycleService) denied(taskID, action string, actor domain.Actor, err error) {
	s.logger.Warnw("lifecycle_transition_denied",
		"task_id", taskID, "action", action, "actor", actor.Email, "role", actor.Role, "reason", err)
}

func (s *lifecycleService) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warnw("lifecycle_notify_failed", "error", err)
	}
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
