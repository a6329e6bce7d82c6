package todo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// fakeStore keeps tasks in a map and returns FindByDate results in reverse
// insertion order so the service's own ordering is what tests observe.
type fakeStore struct {
	tasks  map[string]model.Task
	order  []string
	seq    int
	now    time.Time
	rows   []model.DayCount // when set, returned verbatim by CountsByDateRange
	err    error
	frozen bool // keep the clock still to force timestamp ties
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks: make(map[string]model.Task),
		now:   time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	if !f.frozen {
		f.now = f.now.Add(time.Second)
	}
	return f.now
}

func (f *fakeStore) FindByID(_ context.Context, id string) (model.Task, bool, error) {
	if f.err != nil {
		return model.Task{}, false, f.err
	}
	t, ok := f.tasks[id]
	return t, ok, nil
}

func (f *fakeStore) FindByDate(_ context.Context, date civil.Date) ([]model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Task
	for i := len(f.order) - 1; i >= 0; i-- {
		t, ok := f.tasks[f.order[i]]
		if ok && t.Date == date {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) CountsByDateRange(_ context.Context, start, end civil.Date) ([]model.DayCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.rows != nil {
		return f.rows, nil
	}
	totals := make(map[civil.Date][2]int64)
	var dates []civil.Date
	for _, id := range f.order {
		t, ok := f.tasks[id]
		if !ok || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		c, seen := totals[t.Date]
		if !seen {
			dates = append(dates, t.Date)
		}
		c[0]++
		if t.Done {
			c[1]++
		}
		totals[t.Date] = c
	}
	rows := make([]model.DayCount, 0, len(dates))
	for _, d := range dates {
		c := totals[d]
		total, done := c[0], c[1]
		rows = append(rows, model.DayCount{Date: d, Total: &total, Done: &done})
	}
	return rows, nil
}

func (f *fakeStore) Save(_ context.Context, task model.Task) (model.Task, error) {
	if f.err != nil {
		return model.Task{}, f.err
	}
	now := f.tick()
	if task.ID == "" {
		f.seq++
		task.ID = fmt.Sprintf("t%04d", f.seq)
		task.CreatedAt = now
		f.order = append(f.order, task.ID)
	} else {
		task.CreatedAt = f.tasks[task.ID].CreatedAt
	}
	task.UpdatedAt = now
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.tasks, id)
	return nil
}
