package services

import (
	"context"
	"errors"
	"testing"

	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
)

type bulkFixture struct {
	svc   ports.BulkImportService
	tasks *fakeTaskRepo
}

func newBulkFixture() *bulkFixture {
	tasks := newFakeTaskRepo()
	ledger := &fakeHistoryRepo{}
	log := testLogger()
	history := NewHistoryService(HistoryServiceConfig{Repository: ledger, TaskRepo: tasks, Logger: log})
	lifecycle := NewLifecycleService(LifecycleServiceConfig{Repository: tasks, History: history, Logger: log})
	svc := NewBulkImportService(BulkImportServiceConfig{Lifecycle: lifecycle, Logger: log})
	return &bulkFixture{svc: svc, tasks: tasks}
}

func validDefaults() ports.BulkDefaults {
	return ports.BulkDefaults{
		AssignedTo: "dev@acme.com",
		DueDate:    "2026-09-15",
		Priority:   domain.TaskPriorityMedium,
	}
}

func TestAddTitlesDropsBlankLinesAndTrims(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()

	drafts, err := f.svc.AddTitles(sid, "A\n\n  B  \n   \n", validDefaults())
	if err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("drafts = %d, want 2", len(drafts))
	}
	// Line order within a single paste.
	if drafts[0].Title != "A" || drafts[1].Title != "B" {
		t.Fatalf("titles = %q, %q", drafts[0].Title, drafts[1].Title)
	}
	if drafts[0].RowNumber != 1 || drafts[1].RowNumber != 2 {
		t.Fatalf("row numbers = %d, %d, want 1, 2", drafts[0].RowNumber, drafts[1].RowNumber)
	}
}

func TestRowNumbersStayStableAcrossPastes(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()

	first, err := f.svc.AddTitles(sid, "A\nB", validDefaults())
	if err != nil {
		t.Fatalf("first paste: %v", err)
	}
	second, err := f.svc.AddTitles(sid, "C", validDefaults())
	if err != nil {
		t.Fatalf("second paste: %v", err)
	}

	// The new draft is prepended and numbering continues; the earlier rows
	// keep the numbers they were first issued.
	if second[0].Title != "C" || second[0].RowNumber != 3 {
		t.Fatalf("new draft = %q row %d, want C row 3", second[0].Title, second[0].RowNumber)
	}
	if second[1].RowNumber != first[0].RowNumber || second[2].RowNumber != first[1].RowNumber {
		t.Fatalf("existing rows renumbered: %v vs %v", second[1:], first)
	}

	// Removing a row does not recycle its number.
	if err := f.svc.RemoveDraft(sid, 2); err != nil {
		t.Fatalf("RemoveDraft: %v", err)
	}
	third, err := f.svc.AddTitles(sid, "D", validDefaults())
	if err != nil {
		t.Fatalf("third paste: %v", err)
	}
	if third[0].RowNumber != 4 {
		t.Fatalf("row number after removal = %d, want 4", third[0].RowNumber)
	}
}

func TestAddTitlesValidatesImmediately(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()

	drafts, err := f.svc.AddTitles(sid, "A", ports.BulkDefaults{AssignedTo: "not-an-email", DueDate: "soon"})
	if err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	if len(drafts[0].Errors) != 2 {
		t.Fatalf("errors = %v, want assignee and due date complaints", drafts[0].Errors)
	}
}

func TestApplyToAll(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(sid, "A\nB", ports.BulkDefaults{}); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}

	if _, err := f.svc.ApplyToAll(sid, "assigned_to", ports.BulkDefaults{}); !errors.Is(err, ErrBulkDefaultUnset) {
		t.Fatalf("apply with unset default = %v, want ErrBulkDefaultUnset", err)
	}
	if _, err := f.svc.ApplyToAll(sid, "color", validDefaults()); !errors.Is(err, ErrBulkUnknownField) {
		t.Fatalf("apply to unknown field = %v, want ErrBulkUnknownField", err)
	}

	drafts, err := f.svc.ApplyToAll(sid, "assigned_to", validDefaults())
	if err != nil {
		t.Fatalf("ApplyToAll: %v", err)
	}
	for _, d := range drafts {
		if d.AssignedTo != "dev@acme.com" {
			t.Fatalf("row %d assignee = %q", d.RowNumber, d.AssignedTo)
		}
	}
}

func TestUpdateDraftRevalidates(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(sid, "A", ports.BulkDefaults{}); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}

	to := "dev@acme.com"
	due := "2026-09-15"
	draft, err := f.svc.UpdateDraft(sid, 1, ports.DraftUpdate{AssignedTo: &to, DueDate: &due})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if len(draft.Errors) != 0 {
		t.Fatalf("errors after fix = %v", draft.Errors)
	}

	if _, err := f.svc.UpdateDraft(sid, 99, ports.DraftUpdate{}); !errors.Is(err, ErrBulkDraftNotFound) {
		t.Fatalf("update missing row = %v, want ErrBulkDraftNotFound", err)
	}
}

func TestSubmitRefusesInvalidBatch(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(sid, "good", validDefaults()); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	if _, err := f.svc.AddTitles(sid, "bad", ports.BulkDefaults{}); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}

	result, err := f.svc.Submit(context.Background(), sid, assigner)
	if !errors.Is(err, ErrBulkValidation) {
		t.Fatalf("Submit = %v, want ErrBulkValidation", err)
	}
	if len(result.Retained) != 2 {
		t.Fatalf("retained = %d, want the whole batch", len(result.Retained))
	}
	// Nothing reached the store: an invalid batch sends nothing at all.
	all, _ := f.tasks.GetAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("tasks created from invalid batch: %d", len(all))
	}
}

func TestSubmitEmptySession(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.Submit(context.Background(), sid, assigner); !errors.Is(err, ErrBulkNoDrafts) {
		t.Fatalf("Submit = %v, want ErrBulkNoDrafts", err)
	}
	if _, err := f.svc.Submit(context.Background(), "unknown", assigner); !errors.Is(err, ErrBulkSessionNotFound) {
		t.Fatalf("Submit = %v, want ErrBulkSessionNotFound", err)
	}
}

func TestSubmitPartialFailureRoundTrip(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(sid, "alpha\nbeta\ngamma", validDefaults()); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	f.tasks.failTitle["beta"] = errStorage

	result, err := f.svc.Submit(context.Background(), sid, assigner)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Every row is accounted for exactly once.
	if got := len(result.Created) + len(result.Failures); got != 3 {
		t.Fatalf("created+failures = %d, want 3", got)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %v, want one", result.Failures)
	}
	failure := result.Failures[0]
	if failure.Title != "beta" || failure.RowNumber != 2 {
		t.Fatalf("failure = %+v, want beta row 2", failure)
	}
	// Oldest row first: alpha is row 1 and index 0, beta row 2 index 1.
	if failure.Index != 1 {
		t.Fatalf("failure index = %d, want 1", failure.Index)
	}

	// The failed row stays with its original number; successes are gone.
	if len(result.Retained) != 1 || result.Retained[0].RowNumber != 2 {
		t.Fatalf("retained = %+v, want beta row 2", result.Retained)
	}

	// Retry after the store recovers: only the retained row is sent again.
	delete(f.tasks.failTitle, "beta")
	retry, err := f.svc.Submit(context.Background(), sid, assigner)
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if len(retry.Created) != 1 || retry.Created[0].Title != "beta" {
		t.Fatalf("retry created = %+v, want beta only", retry.Created)
	}
	all, _ := f.tasks.GetAll(context.Background())
	if len(all) != 3 {
		t.Fatalf("store holds %d tasks, want 3 with no duplicates", len(all))
	}
}

func TestSubmitOrderIsOldestRowFirst(t *testing.T) {
	f := newBulkFixture()
	sid := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(sid, "first", validDefaults()); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	if _, err := f.svc.AddTitles(sid, "second", validDefaults()); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}

	result, err := f.svc.Submit(context.Background(), sid, assigner)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("created = %d, want 2", len(result.Created))
	}
	if result.Created[0].Title != "first" || result.Created[1].Title != "second" {
		t.Fatalf("submit order = %q, %q, want first then second", result.Created[0].Title, result.Created[1].Title)
	}
}

func TestSessionIsolation(t *testing.T) {
	f := newBulkFixture()
	a := f.svc.CreateSession()
	b := f.svc.CreateSession()
	if _, err := f.svc.AddTitles(a, "only in a", validDefaults()); err != nil {
		t.Fatalf("AddTitles: %v", err)
	}
	drafts, err := f.svc.Drafts(b)
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("session b sees %d drafts from session a", len(drafts))
	}
}
