package ports

import (
	"context"
	"time"

	"github.com/taskhive/backend/internal/domain"
)

type HistoryService interface {
	// Append never fails the caller: on a persistence error the entry is
	// retained in a local fallback copy of the ledger and returned as-is.
	Append(ctx context.Context, taskID, action, description string, actor domain.Actor, additionalData domain.JSONB) domain.HistoryEntry
	EntriesFor(ctx context.Context, taskID string) ([]domain.HistoryEntry, error)
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Subscribe() (<-chan domain.HistoryEntry, func())
}

type LifecycleService interface {
	Create(ctx context.Context, input CreateTaskInput, actor domain.Actor) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Edit(ctx context.Context, id string, input EditTaskInput, actor domain.Actor) (*domain.Task, error)
	MarkCompleted(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	MarkPending(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	AdminApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	AdminReject(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	PermanentApprove(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	RemovePermanentApproval(ctx context.Context, id string, actor domain.Actor) (*domain.Task, error)
	Reassign(ctx context.Context, id string, to domain.UserRef, actor domain.Actor) (*domain.Task, error)
	Delete(ctx context.Context, id string, actor domain.Actor) error
	BulkSetStatus(ctx context.Context, ids []string, completed bool, actor domain.Actor) (*BulkStatusResult, error)
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	DueDate     *time.Time
	TaskType    string
	CompanyName string
	Brand       string
	AssignedTo  domain.UserRef
	AssignedBy  domain.UserRef
}

type EditTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	TaskType    *string
	CompanyName *string
	Brand       *string
}

type BulkStatusResult struct {
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}

type BulkImportService interface {
	CreateSession() string
	AddTitles(sessionID, text string, defaults BulkDefaults) ([]domain.BulkTaskDraft, error)
	ApplyToAll(sessionID, field string, defaults BulkDefaults) ([]domain.BulkTaskDraft, error)
	UpdateDraft(sessionID string, rowNumber int, update DraftUpdate) (*domain.BulkTaskDraft, error)
	RemoveDraft(sessionID string, rowNumber int) error
	Drafts(sessionID string) ([]domain.BulkTaskDraft, error)
	Submit(ctx context.Context, sessionID string, actor domain.Actor) (*BulkSubmitResult, error)
}

type BulkDefaults struct {
	AssignedTo  string
	DueDate     string
	Priority    domain.TaskPriority
	TaskType    string
	CompanyName string
	Brand       string
}

type DraftUpdate struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	DueDate     *string
	AssignedTo  *string
	TaskType    *string
	CompanyName *string
	Brand       *string
}

type BulkRowFailure struct {
	Index     int    `json:"index"`
	RowNumber int    `json:"row_number"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
}

type BulkSubmitResult struct {
	Created  []domain.Task          `json:"created"`
	Failures []BulkRowFailure       `json:"failures"`
	Retained []domain.BulkTaskDraft `json:"retained"`
}

type CommentService interface {
	Add(ctx context.Context, taskID, content string, actor domain.Actor) (*domain.Comment, error)
	List(ctx context.Context, taskID string) ([]domain.Comment, error)
	Delete(ctx context.Context, taskID, commentID string, actor domain.Actor) error
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ParseToken(token string) (domain.Actor, error)
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}
