package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testProject(id string) Project {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return Project{
		ID:            id,
		Name:          "Pushups",
		Type:          "SETS_REPS",
		Status:        "ACTIVE",
		Sets:          3,
		RepsPerSet:    10,
		CompletedSets: []int{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestProjectRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := testProject("p1")
	in.CompletedSets = []int{10, 8}
	if err := store.CreateProject(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := store.GetProject(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Name != in.Name || out.Type != in.Type || out.Sets != in.Sets {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if len(out.CompletedSets) != 2 || out.CompletedSets[0] != 10 || out.CompletedSets[1] != 8 {
		t.Fatalf("completed sets mismatch: %v", out.CompletedSets)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", out.CreatedAt, in.CreatedAt)
	}
	if out.CompletedAt != nil {
		t.Fatalf("expected nil completed_at, got %v", out.CompletedAt)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProject(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProjectNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateProject(context.Background(), testProject("missing"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateProject(ctx, testProject("p1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestListProjectsOrderAndFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		p := testProject(id)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		p.UpdatedAt = p.CreatedAt
		if id == "p2" {
			p.Status = "COMPLETED"
			done := p.CreatedAt.Add(time.Minute)
			p.CompletedAt = &done
			p.CompletedDate = "2026-08-01"
		}
		if err := store.CreateProject(ctx, p); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	all, err := store.ListProjects(ctx, ProjectListFilter{OrderBy: "createdAt", Desc: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "p3" || all[2].ID != "p1" {
		t.Fatalf("unexpected order: %+v", all)
	}

	completed, err := store.ListProjects(ctx, ProjectListFilter{Status: "COMPLETED", CompletedDate: "2026-08-01"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != "p2" {
		t.Fatalf("unexpected filtered result: %+v", completed)
	}
}

func TestListProjectsRejectsUnknownOrderField(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ListProjects(context.Background(), ProjectListFilter{OrderBy: "favoriteColor"})
	if !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestRecordRangeFilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateProject(ctx, testProject("p1")); err != nil {
		t.Fatalf("create project: %v", err)
	}

	base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := ProgressRecord{
			ID:        string(rune('a' + i)),
			ProjectID: "p1",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Type:      "SETS_REPS",
			Value:     i + 1,
		}
		if err := store.CreateRecord(ctx, rec); err != nil {
			t.Fatalf("create record %d: %v", i, err)
		}
	}

	from := base.Add(time.Hour)
	to := base.Add(3 * time.Hour)
	records, err := store.ListRecords(ctx, RecordListFilter{ProjectID: "p1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records in range, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatalf("records out of order: %+v", records)
		}
	}
}

func TestDeleteRecordsByProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		rec := ProgressRecord{ID: string(rune('a' + i)), ProjectID: "p1", Timestamp: now, Type: "SETS_REPS", Value: 1}
		if err := store.CreateRecord(ctx, rec); err != nil {
			t.Fatalf("create record: %v", err)
		}
	}
	if err := store.CreateRecord(ctx, ProgressRecord{ID: "other", ProjectID: "p2", Timestamp: now, Type: "SETS_REPS", Value: 1}); err != nil {
		t.Fatalf("create record: %v", err)
	}

	removed, err := store.DeleteRecordsByProject(ctx, "p1")
	if err != nil {
		t.Fatalf("delete by project: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}

	rest, err := store.ListRecords(ctx, RecordListFilter{ProjectID: "p2"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("unrelated records should survive, got %d", len(rest))
	}
}

func TestReminderRoundTripAndLookupByProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(48 * time.Hour)
	in := Reminder{
		ID:           "r1",
		ProjectID:    "p1",
		Enabled:      true,
		Deadline:     &deadline,
		RemindBefore: 30,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateReminder(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := store.GetReminderByProject(ctx, "p1")
	if err != nil {
		t.Fatalf("get by project: %v", err)
	}
	if out.ID != "r1" || !out.Enabled || out.Deadline == nil || !out.Deadline.Equal(deadline) {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	if _, err := store.GetReminderByProject(ctx, "p2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRemindersEnabledFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	deadline := now.Add(time.Hour)
	for i, on := range []bool{true, false, true} {
		rem := Reminder{
			ID:           string(rune('a' + i)),
			ProjectID:    "p1",
			Enabled:      on,
			Deadline:     &deadline,
			RemindBefore: 10,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.CreateReminder(ctx, rem); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	enabled := true
	out, err := store.ListReminders(ctx, ReminderListFilter{Enabled: &enabled})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 enabled reminders, got %d", len(out))
	}
}

func TestTemplateRoundTripWithConfigList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	in := Template{
		ID:   "t1",
		Name: "Morning routine",
		ProjectList: []TemplateConfig{
			{Name: "Pushups", Type: "SETS_REPS", Sets: 3, RepsPerSet: 10},
			{Name: "Running", Type: "TOTAL_COUNT", TargetCount: 50},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateTemplate(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := store.GetTemplate(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out.ProjectList) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(out.ProjectList))
	}
	if out.ProjectList[0].Name != "Pushups" || out.ProjectList[1].TargetCount != 50 {
		t.Fatalf("config list mismatch: %+v", out.ProjectList)
	}

	if err := store.DeleteTemplate(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteTemplate(ctx, "t1"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}
