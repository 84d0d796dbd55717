package services

import (
	"github.com/taskhive/backend/internal/domain"
)

// Permission evaluation. Pure functions over a task and the resolved actor;
// a nil error means the transition may proceed. Denials carry a sentinel
// error and imply no mutation and no ledger entry.

func IsAssigner(task *domain.Task, actor domain.Actor) bool {
	email := domain.NormalizeEmail(task.AssignedBy.Email)
	return email != "" && email == domain.NormalizeEmail(actor.Email)
}

func IsAssignee(task *domain.Task, actor domain.Actor) bool {
	email := domain.NormalizeEmail(task.AssignedTo.Email)
	return email != "" && email == domain.NormalizeEmail(actor.Email)
}

// CanToggleCompletion gates marked_completed / marked_pending. The assignee
// or the assigner may toggle, except that an assignee who is not also the
// assigner is locked out while the task is permanently approved.
func CanToggleCompletion(task *domain.Task, actor domain.Actor) error {
	assigner := IsAssigner(task, actor)
	assignee := IsAssignee(task, actor)
	if !assigner && !assignee {
		return ErrNotParticipant
	}
	if IsPermanentlyApproved(task) && !assigner {
		return ErrApprovalLocked
	}
	return nil
}

func CanAdminApprove(task *domain.Task, actor domain.Actor) error {
	if !actor.IsAdmin() {
		return ErrNotAdmin
	}
	if IsPermanentlyApproved(task) {
		return ErrApprovalLocked
	}
	return nil
}

// CanPermanentApprove gates the assigner lock; it is only legal once the
// task is already completed.
func CanPermanentApprove(task *domain.Task, actor domain.Actor) error {
	if !IsAssigner(task, actor) {
		return ErrNotAssigner
	}
	if !IsCompleted(task) {
		return ErrNotCompleted
	}
	return nil
}

func CanRemovePermanentApproval(task *domain.Task, actor domain.Actor) error {
	if !IsAssigner(task, actor) {
		return ErrNotAssigner
	}
	if !IsPermanentlyApproved(task) {
		return ErrNotPermanentlyApproved
	}
	return nil
}

func CanReassign(task *domain.Task, actor domain.Actor) error {
	if actor.IsAdmin() || IsAssigner(task, actor) {
		return nil
	}
	return ErrPermissionDenied
}

func CanDelete(task *domain.Task, actor domain.Actor) error {
	if actor.IsAdmin() || IsAssigner(task, actor) {
		return nil
	}
	return ErrPermissionDenied
}

// CanEdit covers content edits (title, description, priority, dates, facets).
func CanEdit(task *domain.Task, actor domain.Actor) error {
	if IsPermanentlyApproved(task) && !IsAssigner(task, actor) && !actor.IsAdmin() {
		return ErrApprovalLocked
	}
	if actor.IsAdmin() || IsAssigner(task, actor) || IsAssignee(task, actor) {
		return nil
	}
	return ErrPermissionDenied
}
