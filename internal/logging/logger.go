// Package logging builds the logrus logger used by the stores, the service
// and the sync commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/sirupsen/logrus"
)

// New configures a logger from cfg.Log. When cfg.Log.File is set the log is
// appended to that file (relative to the data dir); otherwise it goes to
// stderr. The returned func closes the file.
func New(cfg model.Config) (*logrus.Logger, func(), error) {
	l := logrus.New()

	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	l.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{DisableColors: cfg.Log.File != "", FullTimestamp: true})
	}

	if cfg.Log.File == "" {
		l.SetOutput(os.Stderr)
		return l, func() {}, nil
	}

	path := store.DataFile(cfg, cfg.Log.File)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	l.SetOutput(f)

	return l, func() {
		_ = f.Close()
	}, nil
}

// ParseLevel accepts the config spellings; empty means info.
func ParseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	default:
		level, err := logrus.ParseLevel(s)
		if err != nil {
			return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
		}
		return level, nil
	}
}

// Nop discards everything.
func Nop() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
