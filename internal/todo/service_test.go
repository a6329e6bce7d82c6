package todo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

var dec15 = civil.Date{Year: 2025, Month: time.December, Day: 15}

func newTestService(t *testing.T) (*Service, *fakeStore, *logtest.Hook) {
	t.Helper()
	store := newFakeStore()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewService(store, logger), store, hook
}

func mustCreate(t *testing.T, svc *Service, date civil.Date, title string, done bool) model.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), date, title, title+" content", done)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return task
}

func ids(tasks []model.Task) string {
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = t.Title
	}
	return strings.Join(parts, ",")
}

func TestListForDate_DoneMovesToBottom(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, dec15, "A", false)
	mustCreate(t, svc, dec15, "B", false)

	if _, err := svc.Update(ctx, a.ID, dec15, "A", "A content", true); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tasks, err := svc.ListForDate(ctx, dec15)
	if err != nil {
		t.Fatalf("ListForDate failed: %v", err)
	}
	if got := ids(tasks); got != "B,A" {
		t.Errorf("ListForDate order = %s, want B,A", got)
	}
	if tasks[0].Done || !tasks[1].Done {
		t.Errorf("done flags = %v,%v; want false,true", tasks[0].Done, tasks[1].Done)
	}
}

func TestListForDate_OrderingInvariant(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	other := dec15.AddDays(1)

	mustCreate(t, svc, dec15, "d1", true)
	mustCreate(t, svc, dec15, "u1", false)
	mustCreate(t, svc, other, "x", false)
	mustCreate(t, svc, dec15, "d2", true)
	mustCreate(t, svc, dec15, "u2", false)

	tasks, err := svc.ListForDate(ctx, dec15)
	if err != nil {
		t.Fatalf("ListForDate failed: %v", err)
	}
	if got := ids(tasks); got != "u1,u2,d1,d2" {
		t.Errorf("ListForDate order = %s, want u1,u2,d1,d2", got)
	}

	seenDone := false
	for i, task := range tasks {
		if task.Date != dec15 {
			t.Errorf("task %s has date %v, want %v", task.Title, task.Date, dec15)
		}
		if task.Done {
			seenDone = true
		} else if seenDone {
			t.Errorf("undone task %s listed after a done task", task.Title)
		}
		if i > 0 && tasks[i-1].Done == task.Done && task.CreatedAt.Before(tasks[i-1].CreatedAt) {
			t.Errorf("task %s created before its predecessor", task.Title)
		}
	}
}

func TestListForDate_TimestampTieFallsBackToID(t *testing.T) {
	svc, store, _ := newTestService(t)
	store.frozen = true

	mustCreate(t, svc, dec15, "first", false)
	mustCreate(t, svc, dec15, "second", false)
	mustCreate(t, svc, dec15, "third", false)

	for i := 0; i < 3; i++ {
		tasks, err := svc.ListForDate(context.Background(), dec15)
		if err != nil {
			t.Fatalf("ListForDate failed: %v", err)
		}
		if got := ids(tasks); got != "first,second,third" {
			t.Fatalf("ListForDate order = %s, want first,second,third", got)
		}
	}
}

func TestListForDate_EmptyDay(t *testing.T) {
	svc, _, _ := newTestService(t)
	tasks, err := svc.ListForDate(context.Background(), dec15)
	if err != nil {
		t.Fatalf("ListForDate failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tasks))
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	svc, _, hook := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dec15, "제목", "내용", false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create returned an empty ID")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Date != dec15 || got.Title != "제목" || got.Content != "내용" || got.Done {
		t.Errorf("Get = %+v, want the written fields", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Message != "task created" {
		t.Fatalf("last log entry = %v, want 'task created'", entry)
	}
	if entry.Data["task_id"] != created.ID {
		t.Errorf("log task_id = %v, want %s", entry.Data["task_id"], created.ID)
	}
}

func TestUpdate_ReplacesFieldsKeepsIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, dec15, "old", false)
	next := dec15.AddDays(3)

	updated, err := svc.Update(ctx, created.ID, next, "new", "new content", true)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID = %s, want %s", updated.ID, created.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if updated.Date != next || updated.Title != "new" || updated.Content != "new content" || !updated.Done {
		t.Errorf("Update = %+v, want replaced fields", updated)
	}

	old, _ := svc.ListForDate(ctx, dec15)
	if len(old) != 0 {
		t.Errorf("task still listed on the old date: %v", ids(old))
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing", dec15, "t", "c", false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update error = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" {
		t.Errorf("errors.As NotFoundError = %+v", nf)
	}
}

func TestUpdate_ValidatesBeforeSaving(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, dec15, "keep", false)

	_, err := svc.Update(ctx, created.ID, dec15, "   ", "c", false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Update error = %v, want ErrInvalidInput", err)
	}
	if store.tasks[created.ID].Title != "keep" {
		t.Errorf("stored title = %q, want %q", store.tasks[created.ID].Title, "keep")
	}
}

func TestCreate_ValidationBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		content    string
		wantFields []string
	}{
		{"title 100", strings.Repeat("x", 100), "c", nil},
		{"title 101", strings.Repeat("x", 101), "c", []string{"title"}},
		{"content 200", "t", strings.Repeat("y", 200), nil},
		{"content 201", "t", strings.Repeat("y", 201), []string{"content"}},
		{"padded title 100", "  " + strings.Repeat("x", 100) + "  ", "c", nil},
		{"multibyte title 100", strings.Repeat("가", 100), "c", nil},
		{"multibyte title 101", strings.Repeat("가", 101), "c", []string{"title"}},
		{"blank title", "", "c", []string{"title"}},
		{"whitespace content", "t", " \t\n", []string{"content"}},
		{"both invalid", "", strings.Repeat("y", 201), []string{"content", "title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)

			_, err := svc.Create(context.Background(), dec15, tt.title, tt.content, false)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Create failed: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create error = %v, want *ValidationError", err)
			}
			if got := strings.Join(verr.FieldNames(), ","); got != strings.Join(tt.wantFields, ",") {
				t.Errorf("fields = %s, want %s", got, strings.Join(tt.wantFields, ","))
			}
			if len(store.tasks) != 0 {
				t.Errorf("store has %d tasks, want 0 after a rejected create", len(store.tasks))
			}
		})
	}
}

func TestCreate_RejectsZeroDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), civil.Date{}, "t", "c", false)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create error = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["date"]; !ok {
		t.Errorf("fields = %v, want date", verr.Fields)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	keep := mustCreate(t, svc, dec15, "keep", false)
	gone := mustCreate(t, svc, dec15, "gone", false)

	if err := svc.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of unknown id failed: %v", err)
	}

	tasks, _ := svc.ListForDate(ctx, dec15)
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("remaining tasks = %s, want keep", ids(tasks))
	}
	if _, err := svc.Get(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v, want ErrNotFound", err)
	}
}

func TestSummarize_Classification(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	d1 := dec15
	d2 := dec15.AddDays(1)
	d3 := dec15.AddDays(2)

	mustCreate(t, svc, d1, "A", true)
	mustCreate(t, svc, d1, "B", true)
	mustCreate(t, svc, d2, "C", true)
	mustCreate(t, svc, d2, "D", false)

	statuses, err := svc.MonthStatuses(ctx, calendar.Month{Year: 2025, Month: time.December})
	if err != nil {
		t.Fatalf("MonthStatuses failed: %v", err)
	}
	if statuses[d1] != model.StatusAllDone {
		t.Errorf("status[%v] = %v, want AllDone", d1, statuses[d1])
	}
	if statuses[d2] != model.StatusIncomplete {
		t.Errorf("status[%v] = %v, want Incomplete", d2, statuses[d2])
	}
	if _, ok := statuses[d3]; ok {
		t.Errorf("status[%v] present, want absent", d3)
	}
	if len(statuses) != 2 {
		t.Errorf("len(statuses) = %d, want 2", len(statuses))
	}
}

func TestSummarize_RangeIsInclusive(t *testing.T) {
	svc, _, _ := newTestService(t)
	m := calendar.Month{Year: 2025, Month: time.December}

	mustCreate(t, svc, m.First(), "first", false)
	mustCreate(t, svc, m.Last(), "last", true)
	mustCreate(t, svc, m.Last().AddDays(1), "next month", false)
	mustCreate(t, svc, m.First().AddDays(-1), "prev month", false)

	statuses, err := svc.Summarize(context.Background(), m.First(), m.Last())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("len(statuses) = %d, want 2: %v", len(statuses), statuses)
	}
	if statuses[m.First()] != model.StatusIncomplete || statuses[m.Last()] != model.StatusAllDone {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestSummarize_StaleAndMissingCounts(t *testing.T) {
	svc, store, _ := newTestService(t)
	zero, one, two := int64(0), int64(1), int64(2)

	store.rows = []model.DayCount{
		{Date: dec15, Total: &zero, Done: &zero},          // stale aggregate row
		{Date: dec15.AddDays(1), Total: nil, Done: &one},  // missing total
		{Date: dec15.AddDays(2), Total: &two, Done: nil},  // missing done
		{Date: dec15.AddDays(3), Total: &one, Done: &two}, // done over total
	}

	statuses, err := svc.Summarize(context.Background(), dec15, dec15.AddDays(10))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if _, ok := statuses[dec15]; ok {
		t.Error("total=0 row should be skipped")
	}
	if _, ok := statuses[dec15.AddDays(1)]; ok {
		t.Error("nil total should count as zero and be skipped")
	}
	if got := statuses[dec15.AddDays(2)]; got != model.StatusIncomplete {
		t.Errorf("nil done status = %v, want Incomplete", got)
	}
	if got := statuses[dec15.AddDays(3)]; got != model.StatusAllDone {
		t.Errorf("done>total status = %v, want AllDone", got)
	}
}

func TestStoreFailuresPropagate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	boom := errors.New("disk on fire")
	store.err = boom

	checks := map[string]error{}
	_, checks["ListForDate"] = svc.ListForDate(ctx, dec15)
	_, checks["Summarize"] = svc.Summarize(ctx, dec15, dec15)
	_, checks["Create"] = svc.Create(ctx, dec15, "t", "c", false)
	_, checks["Update"] = svc.Update(ctx, "x", dec15, "t", "c", false)
	_, checks["Get"] = svc.Get(ctx, "x")
	checks["Delete"] = svc.Delete(ctx, "x")

	for name, err := range checks {
		if !errors.Is(err, boom) {
			t.Errorf("%s error = %v, want wrapped store error", name, err)
		}
		var serr *StoreError
		if !errors.As(err, &serr) {
			t.Errorf("%s error = %T, want *StoreError", name, err)
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s store failure misclassified: %v", name, err)
		}
	}
}
