package model

import (
	"fmt"
	"time"
)

// LockFile is the YAML body of the lock that keeps the TUI and sync from
// touching the data directory at the same time.
type LockFile struct {
	ID       string    `yaml:"id"`
	User     string    `yaml:"user"`
	Pid      int       `yaml:"pid"`
	Command  string    `yaml:"command"`
	LockedAt time.Time `yaml:"locked_at"`
}

func (l LockFile) String() string {
	return fmt.Sprintf("%s (pid %d, %s) since %s", l.User, l.Pid, l.Command, l.LockedAt.Local().Format("2006-01-02 15:04:05"))
}
