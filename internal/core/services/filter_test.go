package services

import (
	"testing"
	"time"

	"github.com/taskhive/backend/internal/domain"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name string
		task domain.Task
		want bool
	}{
		{"past due and open", domain.Task{DueDate: &past, Status: domain.TaskStatusPending}, true},
		{"past due but completed", domain.Task{DueDate: &past, Status: domain.TaskStatusCompleted}, false},
		{"past due but locked", domain.Task{DueDate: &past, CompletedApproval: true}, false},
		{"future due", domain.Task{DueDate: &future, Status: domain.TaskStatusPending}, false},
		{"no due date", domain.Task{Status: domain.TaskStatusPending}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(&tt.task, now); got != tt.want {
				t.Fatalf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleTasksOrdering(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)
	later := now.Add(96 * time.Hour)

	tasks := []domain.Task{
		{ID: "no-due-old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "later", DueDate: &later, CreatedAt: now},
		{ID: "no-due-new", CreatedAt: now.Add(-time.Hour)},
		{ID: "soon-old", DueDate: &soon, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "soon-new", DueDate: &soon, CreatedAt: now.Add(-time.Hour)},
	}

	got := VisibleTasks(tasks, assignee, TaskFilter{Now: now})
	want := []string{"soon-new", "soon-old", "later", "no-due-new", "no-due-old"}
	if len(got) != len(want) {
		t.Fatalf("visible = %d tasks, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestVisibleTasksScope(t *testing.T) {
	tasks := []domain.Task{
		{ID: "mine", AssignedTo: domain.UserRef{Email: "dev@acme.com"}},
		{ID: "delegated", AssignedBy: domain.UserRef{Email: "dev@acme.com"}},
		{ID: "unrelated", AssignedTo: domain.UserRef{Email: "other@acme.com"}},
	}
	actor := domain.Actor{Email: "dev@acme.com"}

	toMe := VisibleTasks(tasks, actor, TaskFilter{Scope: ScopeAssignedToMe})
	if len(toMe) != 1 || toMe[0].ID != "mine" {
		t.Fatalf("assigned-to-me = %v", ids(toMe))
	}
	byMe := VisibleTasks(tasks, actor, TaskFilter{Scope: ScopeAssignedByMe})
	if len(byMe) != 1 || byMe[0].ID != "delegated" {
		t.Fatalf("assigned-by-me = %v", ids(byMe))
	}
	all := VisibleTasks(tasks, actor, TaskFilter{Scope: ScopeAll})
	if len(all) != 3 {
		t.Fatalf("all = %v", ids(all))
	}
}

// The status filter goes through the derived view: a locked task counts as
// completed whatever its raw status column says.
func TestVisibleTasksStatusUsesDerivedView(t *testing.T) {
	tasks := []domain.Task{
		{ID: "open", Status: domain.TaskStatusPending},
		{ID: "done", Status: domain.TaskStatusCompleted},
		{ID: "locked-but-pending", Status: domain.TaskStatusPending, CompletedApproval: true},
	}

	completed := VisibleTasks(tasks, assignee, TaskFilter{Status: StatusCompleted})
	if len(completed) != 2 {
		t.Fatalf("completed = %v, want done and locked-but-pending", ids(completed))
	}
	open := VisibleTasks(tasks, assignee, TaskFilter{Status: StatusOpen})
	if len(open) != 1 || open[0].ID != "open" {
		t.Fatalf("open = %v", ids(open))
	}
}

func TestVisibleTasksFacetsAndSearch(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{
			ID:          "match",
			Title:       "Design landing page",
			TaskType:    "Design",
			CompanyName: "Acme",
			Brand:       "Roadrunner",
			Priority:    domain.TaskPriorityHigh,
			AssignedTo:  domain.UserRef{Email: "dev@acme.com"},
		},
		{
			ID:       "other",
			Title:    "Write release notes",
			TaskType: "Copy",
			Priority: domain.TaskPriorityLow,
		},
	}

	tests := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"facet match is case-insensitive", TaskFilter{TaskType: "design", Now: now}, []string{"match"}},
		{"priority is exact", TaskFilter{Priority: domain.TaskPriorityHigh, Now: now}, []string{"match"}},
		{"search hits the title", TaskFilter{Search: "landing", Now: now}, []string{"match"}},
		{"search hits the assignee", TaskFilter{Search: "DEV@", Now: now}, []string{"match"}},
		{"search hits the brand", TaskFilter{Search: "roadrunner", Now: now}, []string{"match"}},
		{"search misses", TaskFilter{Search: "nonexistent", Now: now}, nil},
		{"facets AND together", TaskFilter{TaskType: "design", CompanyName: "wrong", Now: now}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisibleTasks(tasks, assignee, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("visible = %v, want %v", ids(got), tt.want)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("visible = %v, want %v", ids(got), tt.want)
				}
			}
		})
	}
}

func TestVisibleTasksDueBuckets(t *testing.T) {
	// A Wednesday.
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "today", DueDate: datePtr(time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC))},
		{ID: "friday", DueDate: datePtr(time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC))},
		{ID: "next-monday", DueDate: datePtr(time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC))},
		{ID: "overdue", DueDate: datePtr(now.Add(-72 * time.Hour)), Status: domain.TaskStatusPending},
		{ID: "no-due"},
	}

	today := VisibleTasks(tasks, assignee, TaskFilter{Due: DueToday, Now: now})
	if len(today) != 1 || today[0].ID != "today" {
		t.Fatalf("today = %v", ids(today))
	}
	week := VisibleTasks(tasks, assignee, TaskFilter{Due: DueThisWeek, Now: now})
	if len(week) != 2 {
		t.Fatalf("this-week = %v, want today and friday", ids(week))
	}
	overdue := VisibleTasks(tasks, assignee, TaskFilter{Due: DueOverdue, Now: now})
	if len(overdue) != 1 || overdue[0].ID != "overdue" {
		t.Fatalf("overdue = %v", ids(overdue))
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
