package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// ApprovalState is stored explicitly and written in the same transaction as
// the status change it reflects, so readers never have to reconstruct it by
// scanning the ledger.
type ApprovalState string

const (
	ApprovalStateNone      ApprovalState = "none"
	ApprovalStatePending   ApprovalState = "pending_approval"
	ApprovalStateAdmin     ApprovalState = "admin_approved"
	ApprovalStatePermanent ApprovalState = "permanently_approved"
)

// StatusBadge is the presentation-facing classification of a task's
// completion/approval state.
type StatusBadge string

const (
	BadgePending             StatusBadge = "Pending"
	BadgePendingApproval     StatusBadge = "PendingApproval"
	BadgeApproved            StatusBadge = "Approved"
	BadgePermanentlyApproved StatusBadge = "PermanentlyApproved"
)

// ==================== JSONB TYPES ====================

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("failed to scan JSONB: invalid type")
	}
}

// ==================== ENTITIES ====================

type Task struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"size:20;not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `gorm:"index" json:"due_date,omitempty"`
	TaskType    string       `gorm:"size:100" json:"task_type"`
	CompanyName string       `gorm:"size:255" json:"company_name"`
	Brand       string       `gorm:"size:255" json:"brand"`

	AssignedTo UserRef `gorm:"embedded;embeddedPrefix:assigned_to_" json:"assigned_to"`
	AssignedBy UserRef `gorm:"embedded;embeddedPrefix:assigned_by_" json:"assigned_by"`

	Status TaskStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// CompletedApproval locks Status at completed until the assigner clears it.
	CompletedApproval bool          `gorm:"default:false" json:"completed_approval"`
	ApprovalState     ApprovalState `gorm:"size:30;not null;default:'none'" json:"approval_state"`

	History  []HistoryEntry `gorm:"foreignKey:TaskID" json:"history,omitempty"`
	Comments []Comment      `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

// HistoryEntry is an immutable audit record. The actor fields are a snapshot
// taken at append time, not a live join to the users table.
type HistoryEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"description"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	UserID    string `gorm:"size:36" json:"user_id"`
	UserName  string `gorm:"size:255" json:"user_name"`
	UserEmail string `gorm:"size:255" json:"user_email"`
	UserRole  Role   `gorm:"size:20" json:"user_role"`

	AdditionalData JSONB `gorm:"type:jsonb" json:"additional_data,omitempty"`

	// Local marks an entry that could not be persisted and lives only in the
	// in-session fallback copy of the ledger.
	Local bool `gorm:"-" json:"local,omitempty"`
}

type Comment struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string         `gorm:"size:36;not null;index" json:"task_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	AuthorID    string `gorm:"size:36" json:"author_id"`
	AuthorName  string `gorm:"size:255" json:"author_name"`
	AuthorEmail string `gorm:"size:255" json:"author_email"`
	AuthorRole  Role   `gorm:"size:20" json:"author_role"`
}

type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text" json:"-"`
	Role         Role   `gorm:"size:20;not null;default:'user'" json:"role"`
}

// BulkTaskDraft is a transient staging row; it is never persisted.
type BulkTaskDraft struct {
	ID          string       `json:"id"`
	RowNumber   int          `json:"row_number"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"due_date"`
	AssignedTo  string       `json:"assigned_to"`
	TaskType    string       `json:"task_type"`
	CompanyName string       `json:"company_name"`
	Brand       string       `json:"brand"`
	Errors      []string     `json:"errors,omitempty"`
}
