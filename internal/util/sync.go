package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/sirupsen/logrus"
)

// Syncer mirrors the data directory to bucket/prefix, using a metadata
// index of modification times on both sides to transfer only what changed.
type Syncer struct {
	client  S3API
	bucket  string
	prefix  string
	dir     string
	exclude []string
	log     logrus.FieldLogger
}

func NewSyncer(client S3API, config model.Config, log logrus.FieldLogger) *Syncer {
	return &Syncer{
		client:  client,
		bucket:  config.Sync.Bucket,
		prefix:  config.Sync.Prefix,
		dir:     config.DataDir,
		exclude: config.Sync.Exclude,
		log:     log,
	}
}

func (s *Syncer) key(rel string) string {
	return path.Join(s.prefix, rel)
}

func (s *Syncer) localPath(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

// Push uploads files that are newer locally and returns their names.
func (s *Syncer) Push(ctx context.Context) ([]string, error) {
	local, err := GenerateMetadata(s.dir, s.exclude, s.log)
	if err != nil {
		return nil, err
	}
	if err := SaveMetadata(s.localPath(MetadataFile), local); err != nil {
		return nil, err
	}

	remote, err := DownloadMetadataFromS3(ctx, s.client, s.bucket, s.key(MetadataFile))
	if err != nil {
		return nil, err
	}

	files := DetectChanges(local, remote, SourceLocal)
	for _, f := range files {
		s.log.WithFields(logrus.Fields{"op": "push", "file": f}).Info("uploading")
		if err := UploadToS3(ctx, s.client, s.bucket, s.localPath(f), s.key(f)); err != nil {
			return nil, err
		}
		remote[f] = local[f]
	}

	if err := s.putMetadata(ctx, remote); err != nil {
		return nil, err
	}
	return files, nil
}

// Pull downloads files that are newer on S3 and returns their names.
// Downloaded files get the remote modification time so that a following
// Push does not send them back.
func (s *Syncer) Pull(ctx context.Context) ([]string, error) {
	remote, err := DownloadMetadataFromS3(ctx, s.client, s.bucket, s.key(MetadataFile))
	if err != nil {
		return nil, err
	}
	local, err := GenerateMetadata(s.dir, s.exclude, s.log)
	if err != nil {
		return nil, err
	}

	files := DetectChanges(local, remote, SourceS3)
	for _, f := range files {
		s.log.WithFields(logrus.Fields{"op": "pull", "file": f}).Info("downloading")
		target := s.localPath(f)
		if err := DownloadFromS3(ctx, s.client, s.bucket, s.key(f), target); err != nil {
			return nil, err
		}
		if mtime, err := time.Parse(time.RFC3339, remote[f]); err == nil {
			if err := os.Chtimes(target, mtime, mtime); err != nil {
				s.log.WithError(err).Warnf("⚠️ Failed to set modification time: %s", target)
			}
		}
		local[f] = remote[f]
	}

	if err := SaveMetadata(s.localPath(MetadataFile), local); err != nil {
		return nil, err
	}
	return files, nil
}

// Status reports what Push and Pull would transfer without changing anything.
func (s *Syncer) Status(ctx context.Context) (toPush, toPull []string, err error) {
	local, err := GenerateMetadata(s.dir, s.exclude, s.log)
	if err != nil {
		return nil, nil, err
	}
	remote, err := DownloadMetadataFromS3(ctx, s.client, s.bucket, s.key(MetadataFile))
	if err != nil {
		return nil, nil, err
	}
	return DetectChanges(local, remote, SourceLocal), DetectChanges(local, remote, SourceS3), nil
}

func (s *Syncer) putMetadata(ctx context.Context, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal %s: %w", MetadataFile, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(MetadataFile)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", MetadataFile, err)
	}
	return nil
}
