package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/sirupsen/logrus"
)

func LoadJson[T any](filePath string, v *[]T) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// A missing file is an empty store
		*v = []T{}
		return nil
	} else if err != nil {
		return fmt.Errorf("❌ Failed to check JSON file: %w", err)
	}

	jsonBytes, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to read JSON file: %w", err)
	}

	if len(jsonBytes) > 0 {
		err = json.Unmarshal(jsonBytes, v)
		if err != nil {
			return fmt.Errorf("❌ Failed to parse JSON: %w", err)
		}
	}

	return nil
}

func SaveJson[T any](filePath string, v []T) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to convert to JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("❌ Failed to create directory for %s: %w", filePath, err)
	}

	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, jsonBytes, 0644); err != nil {
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("❌ Failed to replace JSON file: %w", err)
	}
	return nil
}

// JSONStore keeps every task in a single JSON array that is rewritten on
// each mutation.
type JSONStore struct {
	mu   sync.Mutex
	path string
	ids  *idGenerator
	now  func() time.Time
	log  logrus.FieldLogger
}

func NewJSONStore(path string, log logrus.FieldLogger) *JSONStore {
	return &JSONStore{
		path: path,
		ids:  newIDGenerator(),
		now:  time.Now,
		log:  log,
	}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) load() ([]model.Task, error) {
	var tasks []model.Task
	if err := LoadJson(s.path, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *JSONStore) FindByID(_ context.Context, id string) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return model.Task{}, false, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, true, nil
		}
	}
	return model.Task{}, false, nil
}

func (s *JSONStore) FindByDate(_ context.Context, date civil.Date) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out, nil
}

// All returns every stored task in file order.
func (s *JSONStore) All(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) CountsByDateRange(_ context.Context, start, end civil.Date) ([]model.DayCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	byDate := make(map[civil.Date]*model.DayCount)
	for _, t := range tasks {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		row, ok := byDate[t.Date]
		if !ok {
			var total, done int64
			row = &model.DayCount{Date: t.Date, Total: &total, Done: &done}
			byDate[t.Date] = row
		}
		*row.Total++
		if t.Done {
			*row.Done++
		}
	}

	rows := make([]model.DayCount, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (s *JSONStore) Save(_ context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	if task.ID == "" {
		id, err := s.ids.next(now)
		if err != nil {
			return model.Task{}, fmt.Errorf("failed to generate task id: %w", err)
		}
		task.ID = id
		task.CreatedAt = now
		task.UpdatedAt = now
		tasks = append(tasks, task)
	} else {
		idx := -1
		for i := range tasks {
			if tasks[i].ID == task.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return model.Task{}, fmt.Errorf("task %s does not exist in %s", task.ID, s.path)
		}
		task.CreatedAt = tasks[idx].CreatedAt
		task.UpdatedAt = notBefore(now, task.CreatedAt)
		tasks[idx] = task
	}

	if err := SaveJson(s.path, tasks); err != nil {
		return model.Task{}, err
	}
	s.log.WithFields(logrus.Fields{"op": "save", "task_id": task.ID}).Debug("json store updated")
	return task, nil
}

func (s *JSONStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}

	if err := SaveJson(s.path, kept); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"op": "delete", "task_id": id}).Debug("json store updated")
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
