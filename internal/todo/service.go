// Package todo holds the task rules that sit between the stores and the
// calendar views: validation, display ordering and per-day status
// aggregation.
package todo

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/calendar"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/sirupsen/logrus"
)

// Store is the persistence contract the service consumes.
type Store interface {
	// FindByID reports ok=false when no task has the id.
	FindByID(ctx context.Context, id string) (task model.Task, ok bool, err error)
	// FindByDate returns the tasks of one day in no particular order.
	FindByDate(ctx context.Context, date civil.Date) ([]model.Task, error)
	// CountsByDateRange groups tasks by date over [start, end], one row per
	// date that has at least one task.
	CountsByDateRange(ctx context.Context, start, end civil.Date) ([]model.DayCount, error)
	// Save inserts a task without an id (assigning id and both timestamps)
	// or replaces an existing one (keeping CreatedAt, refreshing UpdatedAt).
	Save(ctx context.Context, task model.Task) (model.Task, error)
	// DeleteByID is a no-op when the id is unknown.
	DeleteByID(ctx context.Context, id string) error
}

type Service struct {
	store Store
	log   logrus.FieldLogger
}

func NewService(store Store, log logrus.FieldLogger) *Service {
	return &Service{store: store, log: log}
}

// ListForDate returns the day's tasks, undone first, oldest first.
func (s *Service) ListForDate(ctx context.Context, date civil.Date) ([]model.Task, error) {
	tasks, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return nil, storeErr("find by date", err)
	}
	SortForDisplay(tasks)
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Task, error) {
	task, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, storeErr("find by id", err)
	}
	if !ok {
		return model.Task{}, &NotFoundError{ID: id}
	}
	return task, nil
}

func (s *Service) Create(ctx context.Context, date civil.Date, title, content string, done bool) (model.Task, error) {
	candidate := model.Task{
		Date:    date,
		Title:   title,
		Content: content,
		Done:    done,
	}
	if err := Validate(candidate); err != nil {
		return model.Task{}, err
	}

	saved, err := s.store.Save(ctx, candidate)
	if err != nil {
		return model.Task{}, storeErr("save", err)
	}
	s.log.WithFields(logrus.Fields{"task_id": saved.ID, "date": saved.Date.String()}).Debug("task created")
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id string, date civil.Date, title, content string, done bool) (model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	task.Date = date
	task.Title = title
	task.Content = content
	task.Done = done

	if err := Validate(task); err != nil {
		return model.Task{}, err
	}

	saved, err := s.store.Save(ctx, task)
	if err != nil {
		return model.Task{}, storeErr("save", err)
	}
	s.log.WithFields(logrus.Fields{"task_id": saved.ID, "date": saved.Date.String(), "done": saved.Done}).Debug("task updated")
	return saved, nil
}

// Delete removes the task; an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return storeErr("delete", err)
	}
	s.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// Summarize classifies every day in [start, end] that has tasks. Days
// without tasks are absent from the result.
func (s *Service) Summarize(ctx context.Context, start, end civil.Date) (map[civil.Date]model.DayStatus, error) {
	rows, err := s.store.CountsByDateRange(ctx, start, end)
	if err != nil {
		return nil, storeErr("count by date range", err)
	}
	return StatusesFromCounts(rows), nil
}

func (s *Service) MonthStatuses(ctx context.Context, month calendar.Month) (map[civil.Date]model.DayStatus, error) {
	return s.Summarize(ctx, month.First(), month.Last())
}
