package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/nakachan-ing/todocal-cli/internal/util"
	"github.com/sirupsen/logrus"
)

var errSyncDisabled = errors.New("sync is disabled (set sync.enable and sync.bucket in config.yaml)")

func newSyncer(ctx context.Context, config model.Config, log logrus.FieldLogger) (*util.Syncer, error) {
	if !config.Sync.Enable {
		return nil, errSyncDisabled
	}
	s3Client, err := util.NewS3Client(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}
	return util.NewSyncer(s3Client, config, log), nil
}

// SyncWithS3 pushes or pulls the data directory. The TUI lock is held for
// the duration so a running session never sees its files replaced.
func SyncWithS3(ctx context.Context, config model.Config, direction string, log logrus.FieldLogger) ([]string, error) {
	syncer, err := newSyncer(ctx, config, log)
	if err != nil {
		return nil, err
	}

	lockPath := store.DataFile(config, lockFileName)
	if err := util.CreateLockFile(lockPath, "sync "+direction); err != nil {
		return nil, err
	}
	defer func() {
		if err := util.RemoveLockFile(lockPath); err != nil {
			log.WithError(err).Warn("⚠️ Failed to remove lock file")
		}
	}()

	switch direction {
	case "push":
		log.Info("🔄 Uploading changed files to S3...")
		return syncer.Push(ctx)
	case "pull":
		log.Info("🔄 Downloading changed files from S3...")
		return syncer.Pull(ctx)
	}
	return nil, fmt.Errorf("❌ Unknown sync direction: %s", direction)
}

// ShowSyncStatus lists what push and pull would transfer.
func ShowSyncStatus(ctx context.Context, w io.Writer, config model.Config, log logrus.FieldLogger) error {
	syncer, err := newSyncer(ctx, config, log)
	if err != nil {
		return err
	}

	toPush, toPull, err := syncer.Status(ctx)
	if err != nil {
		return err
	}

	if len(toPush) == 0 && len(toPull) == 0 {
		fmt.Fprintln(w, "✅ Everything is up-to-date.")
		return nil
	}
	printFileList(w, "📤 Files to be uploaded to S3:", toPush)
	printFileList(w, "📥 Files to be updated from S3:", toPull)
	return nil
}

func printFileList(w io.Writer, title string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, file := range files {
		fmt.Fprintln(w, "   -", file)
	}
}
