package dto

import (
	"strings"
	"time"

	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

// CreateTaskRequest accepts assigned_to/assigned_by as either a plain email
// string or an embedded user object; domain.UserRef normalizes both shapes.
type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    string         `json:"priority"`
	DueDate     string         `json:"due_date"`
	TaskType    string         `json:"task_type"`
	CompanyName string         `json:"company_name"`
	Brand       string         `json:"brand"`
	AssignedTo  domain.UserRef `json:"assigned_to"`
	AssignedBy  domain.UserRef `json:"assigned_by"`
}

func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Title) == "" {
		errors = append(errors, "title is required")
	}
	if r.Priority != "" && !validPriority(r.Priority) {
		errors = append(errors, "priority must be one of: low, medium, high, urgent")
	}
	if r.DueDate != "" {
		if _, err := time.Parse("2006-01-02", r.DueDate); err != nil {
			errors = append(errors, "due_date must be YYYY-MM-DD")
		}
	}
	if r.AssignedTo.Email != "" && !strings.Contains(r.AssignedTo.Email, "@") {
		errors = append(errors, "assigned_to is not an email address")
	}

	return errors
}

func (r *CreateTaskRequest) ToInput() ports.CreateTaskInput {
	input := ports.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TaskPriority(r.Priority),
		TaskType:    r.TaskType,
		CompanyName: r.CompanyName,
		Brand:       r.Brand,
		AssignedTo:  r.AssignedTo,
		AssignedBy:  r.AssignedBy,
	}
	if r.DueDate != "" {
		if due, err := time.Parse("2006-01-02", r.DueDate); err == nil {
			input.DueDate = &due
		}
	}
	return input
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	TaskType    *string `json:"task_type"`
	CompanyName *string `json:"company_name"`
	Brand       *string `json:"brand"`
}

func (r *UpdateTaskRequest) Validate() []string {
	var errors []string
	if r.Priority != nil && !validPriority(*r.Priority) {
		errors = append(errors, "priority must be one of: low, medium, high, urgent")
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if _, err := time.Parse("2006-01-02", *r.DueDate); err != nil {
			errors = append(errors, "due_date must be YYYY-MM-DD")
		}
	}
	return errors
}

func (r *UpdateTaskRequest) ToInput() ports.EditTaskInput {
	input := ports.EditTaskInput{
		Title:       r.Title,
		Description: r.Description,
		TaskType:    r.TaskType,
		CompanyName: r.CompanyName,
		Brand:       r.Brand,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		input.Priority = &p
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if due, err := time.Parse("2006-01-02", *r.DueDate); err == nil {
			input.DueDate = &due
		}
	}
	return input
}

type ReassignRequest struct {
	AssignedTo domain.UserRef `json:"assigned_to"`
}

func (r *ReassignRequest) Validate() []string {
	if domain.NormalizeEmail(r.AssignedTo.Email) == "" {
		return []string{"assigned_to is required"}
	}
	return nil
}

type BulkStatusRequest struct {
	TaskIDs   []string `json:"task_ids"`
	Completed bool     `json:"completed"`
}

func (r *BulkStatusRequest) Validate() []string {
	if len(r.TaskIDs) == 0 {
		return []string{"task_ids is required"}
	}
	return nil
}

// TaskResponse decorates a task with its derived badge so the presentation
// layer never recomputes approval state.
type TaskResponse struct {
	domain.Task
	Badge   domain.StatusBadge `json:"badge"`
	Overdue bool               `json:"overdue"`
}

func NewTaskResponse(task *domain.Task, badge domain.StatusBadge, overdue bool) TaskResponse {
	return TaskResponse{Task: *task, Badge: badge, Overdue: overdue}
}

func validPriority(p string) bool {
	switch domain.TaskPriority(p) {
	case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh, domain.TaskPriorityUrgent:
		return true
	}
	return false
}
