package services

import "errors"

// Task errors
var (
	ErrTaskNotFound     = errors.New("task: not found")
	ErrTaskInvalidInput = errors.New("task: invalid input")
)

// Permission errors
var (
	ErrPermissionDenied       = errors.New("permission: actor may not perform this action")
	ErrNotAssigner            = errors.New("permission: only the assigner may perform this action")
	ErrNotAdmin               = errors.New("permission: admin role required")
	ErrNotParticipant         = errors.New("permission: only the assignee or assigner may toggle completion")
	ErrApprovalLocked         = errors.New("permission: task is permanently approved and locked against changes")
	ErrNotCompleted           = errors.New("permission: task must be completed first")
	ErrNotPermanentlyApproved = errors.New("permission: task is not permanently approved")
)

// Bulk import errors
var (
	ErrBulkSessionNotFound = errors.New("bulk: session not found")
	ErrBulkDraftNotFound   = errors.New("bulk: draft not found")
	ErrBulkDefaultUnset    = errors.New("bulk: default value for this field is not set")
	ErrBulkUnknownField    = errors.New("bulk: unknown field")
	ErrBulkValidation      = errors.New("bulk: one or more rows have validation errors")
	ErrBulkNoDrafts        = errors.New("bulk: no drafts to submit")
)

// Comment errors
var (
	ErrCommentNotFound  = errors.New("comment: not found")
	ErrCommentEmpty     = errors.New("comment: content is empty")
	ErrCommentNotAuthor = errors.New("comment: only the author or an admin may delete")
)

// Auth errors
var (
	ErrUserExists         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidToken       = errors.New("auth: invalid token")
)
