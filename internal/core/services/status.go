package services

import (
	"github.com/taskhive/backend/internal/domain"
)

// Derived-status resolution. These are pure functions: the same task and
// ledger snapshot always produce the same answer.

func IsPermanentlyApproved(task *domain.Task) bool {
	return task.CompletedApproval
}

// IsCompleted treats a permanently approved task as completed even if its
// stored status disagrees; the lock flag wins.
func IsCompleted(task *domain.Task) bool {
	return task.Status == domain.TaskStatusCompleted || IsPermanentlyApproved(task)
}

// IsPendingAdminApproval reconstructs the waiting-for-admin state from the
// ledger: a completed, not-locked task with no admin approval event on record.
// An approval counts if it was logged as admin_approved, or as a
// marked_completed performed by an admin.
func IsPendingAdminApproval(task *domain.Task, entries []domain.HistoryEntry) bool {
	if !IsCompleted(task) || IsPermanentlyApproved(task) {
		return false
	}
	for _, e := range entries {
		if e.Action == domain.ActionAdminApproved {
			return false
		}
		if e.Action == domain.ActionMarkedCompleted && e.UserRole == domain.RoleAdmin {
			return false
		}
	}
	return true
}

// InferApprovalState derives the explicit approval state from the ledger.
// New rows carry ApprovalState directly; this exists to reconcile rows
// written before the field was introduced.
func InferApprovalState(task *domain.Task, entries []domain.HistoryEntry) domain.ApprovalState {
	switch {
	case IsPermanentlyApproved(task):
		return domain.ApprovalStatePermanent
	case !IsCompleted(task):
		return domain.ApprovalStateNone
	case IsPendingAdminApproval(task, entries):
		return domain.ApprovalStatePending
	default:
		return domain.ApprovalStateAdmin
	}
}

// BadgeFor maps a task to its presentation badge using the stored approval
// state, falling back to ledger inference when the field is unset.
func BadgeFor(task *domain.Task, entries []domain.HistoryEntry) domain.StatusBadge {
	state := task.ApprovalState
	if state == "" || state == domain.ApprovalStateNone {
		state = InferApprovalState(task, entries)
	}
	switch state {
	case domain.ApprovalStatePermanent:
		return domain.BadgePermanentlyApproved
	case domain.ApprovalStateAdmin:
		return domain.BadgeApproved
	case domain.ApprovalStatePending:
		return domain.BadgePendingApproval
	default:
		return domain.BadgePending
	}
}
