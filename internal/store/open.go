package store

import (
	"context"
	"fmt"

	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/todo"
	"github.com/sirupsen/logrus"
)

// TaskStore is a todo.Store that owns resources and can list everything,
// which search and export need.
type TaskStore interface {
	todo.Store
	All(ctx context.Context) ([]model.Task, error)
	Path() string
	Close() error
}

var (
	_ TaskStore = (*JSONStore)(nil)
	_ TaskStore = (*SQLiteStore)(nil)
)

// Open creates the data directory and opens the backend named by
// config.Storage.Driver.
func Open(ctx context.Context, config model.Config, log logrus.FieldLogger) (TaskStore, error) {
	if err := EnsureDataDir(config); err != nil {
		return nil, err
	}

	switch config.Storage.Driver {
	case "sqlite":
		s, err := OpenSQLite(ctx, DataFile(config, config.Storage.SQLiteFile), log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "json":
		return NewJSONStore(DataFile(config, config.Storage.JsonFile), log), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want sqlite or json)", config.Storage.Driver)
	}
}
