package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/sirupsen/logrus"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Fixed-width UTC layout so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	task_date  TEXT NOT NULL,
	title      VARCHAR(100) NOT NULL,
	content    VARCHAR(200) NOT NULL,
	done       INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks (task_date);
`

const taskColumns = `id, task_date, title, content, done, created_at, updated_at`

type SQLiteStore struct {
	db   *sql.DB
	path string
	ids  *idGenerator
	now  func() time.Time
	log  logrus.FieldLogger
}

// OpenSQLite opens (creating if needed) the database file and applies the
// schema.
func OpenSQLite(ctx context.Context, path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}
	// SQLite typically uses 1 for write safety
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping %s: %w", path, err)
	}

	s := &SQLiteStore{
		db:   db,
		path: path,
		ids:  newIDGenerator(),
		now:  time.Now,
		log:  log,
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", path).Debug("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: failed to apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (model.Task, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, err
	}
	return task, true, nil
}

func (s *SQLiteStore) FindByDate(ctx context.Context, date civil.Date) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE task_date = ?
		ORDER BY done ASC, created_at ASC, id ASC
	`, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// All returns every stored task ordered by date.
func (s *SQLiteStore) All(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY task_date ASC, done ASC, created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (s *SQLiteStore) CountsByDateRange(ctx context.Context, start, end civil.Date) ([]model.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_date, COUNT(id), SUM(CASE WHEN done = 1 THEN 1 ELSE 0 END)
		FROM tasks
		WHERE task_date BETWEEN ? AND ?
		GROUP BY task_date
		ORDER BY task_date ASC
	`, start.String(), end.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.DayCount
	for rows.Next() {
		var (
			rawDate     string
			total, done sql.NullInt64
		)
		if err := rows.Scan(&rawDate, &total, &done); err != nil {
			return nil, err
		}
		date, err := civil.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("invalid task_date %q: %w", rawDate, err)
		}
		counts = append(counts, model.DayCount{
			Date:  date,
			Total: nullableCount(total),
			Done:  nullableCount(done),
		})
	}
	return counts, rows.Err()
}

func nullableCount(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func (s *SQLiteStore) Save(ctx context.Context, task model.Task) (model.Task, error) {
	now := s.now().UTC()

	if task.ID == "" {
		id, err := s.ids.next(now)
		if err != nil {
			return model.Task{}, fmt.Errorf("failed to generate task id: %w", err)
		}
		task.ID = id
		task.CreatedAt = now
		task.UpdatedAt = now

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			task.ID,
			task.Date.String(),
			task.Title,
			task.Content,
			task.Done,
			task.CreatedAt.Format(timeLayout),
			task.UpdatedAt.Format(timeLayout),
		)
		if err != nil {
			return model.Task{}, err
		}
		s.log.WithFields(logrus.Fields{"op": "insert", "task_id": task.ID}).Debug("sqlite store updated")
		return task, nil
	}

	existing, ok, err := s.FindByID(ctx, task.ID)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task %s does not exist in %s", task.ID, s.path)
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = notBefore(now, task.CreatedAt)

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks
		SET task_date = ?, title = ?, content = ?, done = ?, updated_at = ?
		WHERE id = ?
	`,
		task.Date.String(),
		task.Title,
		task.Content,
		task.Done,
		task.UpdatedAt.Format(timeLayout),
		task.ID,
	)
	if err != nil {
		return model.Task{}, err
	}
	s.log.WithFields(logrus.Fields{"op": "update", "task_id": task.ID}).Debug("sqlite store updated")
	return task, nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.log.WithFields(logrus.Fields{"op": "delete", "task_id": id}).Debug("sqlite store updated")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		task               model.Task
		rawDate            string
		createdAt, updated string
	)
	if err := row.Scan(
		&task.ID,
		&rawDate,
		&task.Title,
		&task.Content,
		&task.Done,
		&createdAt,
		&updated,
	); err != nil {
		return model.Task{}, err
	}

	date, err := civil.ParseDate(rawDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid task_date %q: %w", rawDate, err)
	}
	task.Date = date

	if task.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Task{}, fmt.Errorf("invalid created_at: %w", err)
	}
	if task.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return model.Task{}, fmt.Errorf("invalid updated_at: %w", err)
	}
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
