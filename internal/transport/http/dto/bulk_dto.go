package dto

import (
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
)

type BulkDefaultsRequest struct {
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	TaskType    string `json:"task_type"`
	CompanyName string `json:"company_name"`
	Brand       string `json:"brand"`
}

func (r *BulkDefaultsRequest) ToDefaults() ports.BulkDefaults {
	return ports.BulkDefaults{
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
		Priority:    domain.TaskPriority(r.Priority),
		TaskType:    r.TaskType,
		CompanyName: r.CompanyName,
		Brand:       r.Brand,
	}
}

type AddTitlesRequest struct {
	Text     string              `json:"text"`
	Defaults BulkDefaultsRequest `json:"defaults"`
}

type ApplyAllRequest struct {
	Field    string              `json:"field"`
	Defaults BulkDefaultsRequest `json:"defaults"`
}

type UpdateDraftRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *string `json:"assigned_to"`
	TaskType    *string `json:"task_type"`
	CompanyName *string `json:"company_name"`
	Brand       *string `json:"brand"`
}

func (r *UpdateDraftRequest) ToUpdate() ports.DraftUpdate {
	update := ports.DraftUpdate{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		AssignedTo:  r.AssignedTo,
		TaskType:    r.TaskType,
		CompanyName: r.CompanyName,
		Brand:       r.Brand,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		update.Priority = &p
	}
	return update
}

type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Drafts    []domain.BulkTaskDraft `json:"drafts,omitempty"`
}
