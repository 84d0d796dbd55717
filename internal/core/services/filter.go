package services

import (
	"sort"
	"strings"
	"time"

	"github.com/taskhive/backend/internal/domain"
)

// Filter engine: a pure predicate chain over the in-memory task list.
// All predicates are AND-combined; any failing predicate excludes the task.

type OwnershipScope string

const (
	ScopeAll          OwnershipScope = "all"
	ScopeAssignedToMe OwnershipScope = "assigned-to-me"
	ScopeAssignedByMe OwnershipScope = "assigned-by-me"
)

type DueBucket string

const (
	DueAny      DueBucket = ""
	DueToday    DueBucket = "today"
	DueThisWeek DueBucket = "this-week"
	DueOverdue  DueBucket = "overdue"
)

type StatusFilter string

const (
	StatusAny       StatusFilter = ""
	StatusOpen      StatusFilter = "open"
	StatusCompleted StatusFilter = "completed"
)

type TaskFilter struct {
	Scope       OwnershipScope
	Status      StatusFilter
	Priority    domain.TaskPriority
	TaskType    string
	CompanyName string
	Brand       string
	Due         DueBucket
	Search      string
	Now         time.Time
}

// IsOverdue is the single overdue rule for the whole app: due date strictly
// in the past and the task not completed.
func IsOverdue(task *domain.Task, now time.Time) bool {
	if task.DueDate == nil || IsCompleted(task) {
		return false
	}
	return task.DueDate.Before(now)
}

// VisibleTasks returns the subset of tasks the filter admits, in the
// canonical order: due date ascending, tasks without a due date last, ties
// broken by creation time descending.
func VisibleTasks(tasks []domain.Task, actor domain.Actor, filter TaskFilter) []domain.Task {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	var visible []domain.Task
	for i := range tasks {
		if matches(&tasks[i], actor, filter, now) {
			visible = append(visible, tasks[i])
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i].DueDate, visible[j].DueDate
		switch {
		case a == nil && b == nil:
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		default:
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		}
	})
	return visible
}

func matches(task *domain.Task, actor domain.Actor, filter TaskFilter, now time.Time) bool {
	switch filter.Scope {
	case ScopeAssignedToMe:
		if !IsAssignee(task, actor) {
			return false
		}
	case ScopeAssignedByMe:
		if !IsAssigner(task, actor) {
			return false
		}
	}

	// Status filters through the derived view, not the raw column: a
	// permanently approved task counts as completed regardless of status.
	switch filter.Status {
	case StatusCompleted:
		if !IsCompleted(task) {
			return false
		}
	case StatusOpen:
		if IsCompleted(task) {
			return false
		}
	}

	if filter.Priority != "" && task.Priority != filter.Priority {
		return false
	}
	if !equalsFold(filter.TaskType, task.TaskType) {
		return false
	}
	if !equalsFold(filter.CompanyName, task.CompanyName) {
		return false
	}
	if !equalsFold(filter.Brand, task.Brand) {
		return false
	}

	switch filter.Due {
	case DueToday:
		if task.DueDate == nil || !sameDay(*task.DueDate, now) {
			return false
		}
	case DueThisWeek:
		if task.DueDate == nil || !sameWeek(*task.DueDate, now) {
			return false
		}
	case DueOverdue:
		if !IsOverdue(task, now) {
			return false
		}
	}

	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		haystacks := []string{
			task.Title,
			task.AssignedTo.Email,
			task.AssignedBy.Email,
			task.TaskType,
			task.CompanyName,
			task.Brand,
		}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func equalsFold(want, have string) bool {
	return want == "" || strings.EqualFold(want, have)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sameWeek treats the week as Monday through Sunday.
func sameWeek(a, b time.Time) bool {
	ya, wa := a.ISOWeek()
	yb, wb := b.ISOWeek()
	return ya == yb && wa == wb
}
