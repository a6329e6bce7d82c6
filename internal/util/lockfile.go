package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrLocked is returned by CreateLockFile when another process holds the lock.
var ErrLocked = errors.New("lock file already exists")

// CreateLockFile writes a lock file describing the current process. It fails
// with ErrLocked if the file exists.
func CreateLockFile(lockFileName, command string) error {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "unknown"
	}

	lockFile := model.LockFile{
		ID:       uuid.NewString(),
		User:     user,
		Pid:      os.Getpid(),
		Command:  command,
		LockedAt: time.Now().UTC(),
	}

	info, err := yaml.Marshal(&lockFile)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(lockFileName), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockFileName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			if holder, readErr := ReadLockFile(lockFileName); readErr == nil {
				return fmt.Errorf("%w: held by %s", ErrLocked, holder)
			}
			return fmt.Errorf("%w: %s", ErrLocked, lockFileName)
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(info); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

func ReadLockFile(lockFileName string) (model.LockFile, error) {
	var lockFile model.LockFile
	data, err := os.ReadFile(lockFileName)
	if err != nil {
		return lockFile, err
	}
	if err := yaml.Unmarshal(data, &lockFile); err != nil {
		return lockFile, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return lockFile, nil
}

// RemoveLockFile deletes the lock file; a missing file is fine.
func RemoveLockFile(lockFileName string) error {
	if err := os.Remove(lockFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
