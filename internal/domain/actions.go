package domain

// Task history action types
const (
	ActionTaskCreated              = "task_created"
	ActionTaskEdited               = "task_edited"
	ActionTaskDeleted              = "task_deleted"
	ActionMarkedCompleted          = "marked_completed"
	ActionMarkedPending            = "marked_pending"
	ActionAdminApproved            = "admin_approved"
	ActionRejectedByAdmin          = "rejected_by_admin"
	ActionPermanentApproved        = "assigner_permanent_approved"
	ActionPermanentApprovalRemoved = "permanent_approval_removed"
	ActionTaskReassigned           = "task_reassigned"
	ActionPriorityChanged          = "priority_changed"
	ActionDueDateChanged           = "due_date_changed"
	ActionStatusChanged            = "status_changed"
	ActionCommentAdded             = "comment_added"
	ActionCommentDeleted           = "comment_deleted"
	ActionTitleChanged             = "title_changed"
	ActionDescriptionChanged       = "description_changed"
	ActionTypeChanged              = "type_changed"
	ActionCompanyChanged           = "company_changed"
	ActionBrandChanged             = "brand_changed"
	ActionTaskEditFailed           = "task_edit_failed"
	ActionBulkCompleted            = "bulk_completed"
	ActionBulkPending              = "bulk_pending"
)

var actionLabels = map[string]string{
	ActionTaskCreated:              "Task created",
	ActionTaskEdited:               "Task edited",
	ActionTaskDeleted:              "Task deleted",
	ActionMarkedCompleted:          "Marked completed",
	ActionMarkedPending:            "Marked pending",
	ActionAdminApproved:            "Approved by admin",
	ActionRejectedByAdmin:          "Rejected by admin",
	ActionPermanentApproved:        "Permanently approved by assigner",
	ActionPermanentApprovalRemoved: "Permanent approval removed",
	ActionTaskReassigned:           "Task reassigned",
	ActionPriorityChanged:          "Priority changed",
	ActionDueDateChanged:           "Due date changed",
	ActionStatusChanged:            "Status changed",
	ActionCommentAdded:             "Comment added",
	ActionCommentDeleted:           "Comment deleted",
	ActionTitleChanged:             "Title changed",
	ActionDescriptionChanged:       "Description changed",
	ActionTypeChanged:              "Type changed",
	ActionCompanyChanged:           "Company changed",
	ActionBrandChanged:             "Brand changed",
	ActionTaskEditFailed:           "Task edit failed",
	ActionBulkCompleted:            "Completed in bulk",
	ActionBulkPending:              "Reopened in bulk",
}

// ActionLabel renders an action for display. Unknown actions are never
// rejected; they fall back to the raw value.
func ActionLabel(action string) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return action
}

// KnownAction reports whether the action belongs to the closed vocabulary.
// Entries with unknown actions are still stored and rendered.
func KnownAction(action string) bool {
	_, ok := actionLabels[action]
	return ok
}
