package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/infrastructure/logger"
)

// bulkImportService stages draft tasks in memory before submission. Drafts
// keep a stable rowNumber across repeated paste operations so failures can
// be correlated back to their row after a partial-failure submit.
type bulkImportService struct {
	lifecycle ports.LifecycleService
	logger    *logger.Logger

	mu       sync.Mutex
	sessions map[string]*draftSession
}

type draftSession struct {
	drafts  []domain.BulkTaskDraft
	counter int // total drafts ever added; next rowNumber continues from here
}

type BulkImportServiceConfig struct {
	Lifecycle ports.LifecycleService
	Logger    *logger.Logger
}

func NewBulkImportService(cfg BulkImportServiceConfig) ports.BulkImportService {
	return &bulkImportService{
		lifecycle: cfg.Lifecycle,
		logger:    cfg.Logger,
		sessions:  make(map[string]*draftSession),
	}
}

func (s *bulkImportService) CreateSession() string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &draftSession{}
	s.mu.Unlock()
	s.logger.Infow("bulk_session_created", "session_id", id)
	return id
}

// AddTitles splits a pasted text block into drafts: one title per line,
// trimmed, blank lines silently dropped. New drafts inherit the defaults,
// are validated immediately, and are prepended to the existing list.
func (s *bulkImportService) AddTitles(sessionID, text string, defaults ports.BulkDefaults) ([]domain.BulkTaskDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrBulkSessionNotFound
	}

	var fresh []domain.BulkTaskDraft
	for _, line := range strings.Split(text, "\n") {
		title := strings.TrimSpace(line)
		if title == "" {
			continue
		}
		session.counter++
		draft := domain.BulkTaskDraft{
			ID:          uuid.New().String(),
			RowNumber:   session.counter,
			Title:       title,
			Priority:    defaults.Priority,
			DueDate:     defaults.DueDate,
			AssignedTo:  defaults.AssignedTo,
			TaskType:    defaults.TaskType,
			CompanyName: defaults.CompanyName,
			Brand:       defaults.Brand,
		}
		draft.Errors = validateDraft(draft)
		fresh = append(fresh, draft)
	}

	session.drafts = append(fresh, session.drafts...)
	return cloneDrafts(session.drafts), nil
}

// ApplyToAll overwrites one field across every current draft with its
// default. Refuses when the default for that field is unset.
func (s *bulkImportService) ApplyToAll(sessionID, field string, defaults ports.BulkDefaults) ([]domain.BulkTaskDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrBulkSessionNotFound
	}

	apply, err := applierFor(field, defaults)
	if err != nil {
		return nil, err
	}
	for i := range session.drafts {
		apply(&session.drafts[i])
		session.drafts[i].Errors = validateDraft(session.drafts[i])
	}
	return cloneDrafts(session.drafts), nil
}

func applierFor(field string, defaults ports.BulkDefaults) (func(*domain.BulkTaskDraft), error) {
	switch field {
	case "assigned_to":
		if defaults.AssignedTo == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.AssignedTo = defaults.AssignedTo }, nil
	case "due_date":
		if defaults.DueDate == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.DueDate = defaults.DueDate }, nil
	case "priority":
		if defaults.Priority == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.Priority = defaults.Priority }, nil
	case "task_type":
		if defaults.TaskType == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.TaskType = defaults.TaskType }, nil
	case "company_name":
		if defaults.CompanyName == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.CompanyName = defaults.CompanyName }, nil
	case "brand":
		if defaults.Brand == "" {
			return nil, ErrBulkDefaultUnset
		}
		return func(d *domain.BulkTaskDraft) { d.Brand = defaults.Brand }, nil
	default:
		return nil, ErrBulkUnknownField
	}
}

func (s *bulkImportService) UpdateDraft(sessionID string, rowNumber int, update ports.DraftUpdate) (*domain.BulkTaskDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrBulkSessionNotFound
	}
	for i := range session.drafts {
		d := &session.drafts[i]
		if d.RowNumber != rowNumber {
			continue
		}
		if update.Title != nil {
			d.Title = strings.TrimSpace(*update.Title)
		}
		if update.Description != nil {
			d.Description = *update.Description
		}
		if update.Priority != nil {
			d.Priority = *update.Priority
		}
		if update.DueDate != nil {
			d.DueDate = *update.DueDate
		}
		if update.AssignedTo != nil {
			d.AssignedTo = *update.AssignedTo
		}
		if update.TaskType != nil {
			d.TaskType = *update.TaskType
		}
		if update.CompanyName != nil {
			d.CompanyName = *update.CompanyName
		}
		if update.Brand != nil {
			d.Brand = *update.Brand
		}
		// Editing clears stale errors and re-validates.
		d.Errors = validateDraft(*d)
		clone := *d
		return &clone, nil
	}
	return nil, ErrBulkDraftNotFound
}

func (s *bulkImportService) RemoveDraft(sessionID string, rowNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrBulkSessionNotFound
	}
	for i := range session.drafts {
		if session.drafts[i].RowNumber == rowNumber {
			session.drafts = append(session.drafts[:i], session.drafts[i+1:]...)
			return nil
		}
	}
	return ErrBulkDraftNotFound
}

func (s *bulkImportService) Drafts(sessionID string) ([]domain.BulkTaskDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrBulkSessionNotFound
	}
	return cloneDrafts(session.drafts), nil
}

// Submit re-validates the whole batch first; any invalid row aborts with
// nothing sent. Valid batches are submitted sequentially in row order so
// failure indexes correlate deterministically with rowNumbers. Failed rows
// stay in the session for correction and retry; successful rows are removed.
func (s *bulkImportService) Submit(ctx context.Context, sessionID string, actor domain.Actor) (*ports.BulkSubmitResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrBulkSessionNotFound
	}
	if len(session.drafts) == 0 {
		s.mu.Unlock()
		return nil, ErrBulkNoDrafts
	}

	invalid := false
	for i := range session.drafts {
		session.drafts[i].Errors = validateDraft(session.drafts[i])
		if len(session.drafts[i].Errors) > 0 {
			invalid = true
		}
	}
	if invalid {
		drafts := cloneDrafts(session.drafts)
		s.mu.Unlock()
		return &ports.BulkSubmitResult{Retained: drafts}, ErrBulkValidation
	}

	// Submit oldest row first so indexes follow row numbering.
	batch := cloneDrafts(session.drafts)
	s.mu.Unlock()
	sort.Slice(batch, func(i, j int) bool { return batch[i].RowNumber < batch[j].RowNumber })

	result := &ports.BulkSubmitResult{}
	succeeded := make(map[int]bool)
	for i, draft := range batch {
		due, _ := time.Parse("2006-01-02", draft.DueDate)
		task, err := s.lifecycle.Create(ctx, ports.CreateTaskInput{
			Title:       draft.Title,
			Description: draft.Description,
			Priority:    draft.Priority,
			DueDate:     &due,
			TaskType:    draft.TaskType,
			CompanyName: draft.CompanyName,
			Brand:       draft.Brand,
			AssignedTo:  domain.UserRef{Email: draft.AssignedTo},
			AssignedBy:  actor.Ref(),
		}, actor)
		if err != nil {
			result.Failures = append(result.Failures, ports.BulkRowFailure{
				Index:     i,
				RowNumber: draft.RowNumber,
				Title:     draft.Title,
				Reason:    err.Error(),
			})
			s.logger.Warnw("bulk_row_failed",
				"session_id", sessionID, "row", draft.RowNumber, "title", draft.Title, "error", err)
			continue
		}
		succeeded[draft.RowNumber] = true
		result.Created = append(result.Created, *task)
	}

	s.mu.Lock()
	retained := session.drafts[:0]
	for _, d := range session.drafts {
		if !succeeded[d.RowNumber] {
			retained = append(retained, d)
		}
	}
	session.drafts = retained
	result.Retained = cloneDrafts(session.drafts)
	s.mu.Unlock()

	s.logger.Infow("bulk_submit_done",
		"session_id", sessionID,
		"created", len(result.Created),
		"failed", len(result.Failures))
	return result, nil
}

// validateDraft mirrors the draft-time rules: a title, an assigner that
// looks like an email, and a parseable due date. No semantic date check
// happens at draft time.
func validateDraft(d domain.BulkTaskDraft) []string {
	var errs []string
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "title is required")
	}
	if d.AssignedTo == "" {
		errs = append(errs, "assignee is required")
	} else if !strings.Contains(d.AssignedTo, "@") {
		errs = append(errs, fmt.Sprintf("assignee %q is not an email address", d.AssignedTo))
	}
	if d.DueDate == "" {
		errs = append(errs, "due date is required")
	} else if _, err := time.Parse("2006-01-02", d.DueDate); err != nil {
		errs = append(errs, fmt.Sprintf("due date %q is not a valid date", d.DueDate))
	}
	return errs
}

func cloneDrafts(drafts []domain.BulkTaskDraft) []domain.BulkTaskDraft {
	out := make([]domain.BulkTaskDraft, len(drafts))
	copy(out, drafts)
	return out
}
