package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// MetadataFile is the name of the modification-time index kept next to the
// synced files, locally and on S3.
const MetadataFile = "metadata.json"

// Sync directions understood by DetectChanges.
const (
	SourceLocal = "local"
	SourceS3    = "s3"
)

// GenerateMetadata maps every file under dir (relative, slash-separated) to
// its modification time. The metadata file itself and names matching one of
// the exclude globs are skipped.
func GenerateMetadata(dir string, exclude []string, log logrus.FieldLogger) (map[string]string, error) {
	metadata := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).Warnf("⚠️ Failed to access path: %s", path)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			log.WithError(err).Warnf("⚠️ Failed to get relative path for: %s", path)
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == MetadataFile || isExcluded(relPath, exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.WithError(err).Warnf("⚠️ Failed to stat: %s", path)
			return nil
		}
		metadata[relPath] = info.ModTime().UTC().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to scan directory: %w", err)
	}

	return metadata, nil
}

func isExcluded(relPath string, exclude []string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func SaveMetadata(metadataPath string, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal %s: %w", MetadataFile, err)
	}

	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return fmt.Errorf("❌ Failed to write %s: %w", MetadataFile, err)
	}
	return nil
}

// LoadMetadata returns an empty map when the file does not exist.
func LoadMetadata(metadataPath string) (map[string]string, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to read %s: %w", MetadataFile, err)
	}

	var metadata map[string]string
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("❌ Failed to parse %s: %w", MetadataFile, err)
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return metadata, nil
}

// DownloadMetadataFromS3 fetches the remote index; a missing object yields
// an empty map.
func DownloadMetadataFromS3(ctx context.Context, s3Client S3API, bucket, s3Key string) (map[string]string, error) {
	resp, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to read %s from S3: %w", s3Key, err)
	}

	metadata := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &metadata); err != nil {
			return nil, fmt.Errorf("❌ Failed to parse %s from S3: %w", s3Key, err)
		}
	}
	return metadata, nil
}

// DetectChanges lists the files that need transferring, sorted. With
// source=SourceS3 it returns files newer (or only present) on S3; with
// SourceLocal, files newer (or only present) locally. Differences under one
// second are ignored.
func DetectChanges(localMeta, remoteMeta map[string]string, source string) []string {
	var filesToSync []string

	for file, remoteTimeStr := range remoteMeta {
		if file == MetadataFile {
			continue
		}

		localTimeStr, exists := localMeta[file]
		if !exists {
			if source == SourceS3 {
				filesToSync = append(filesToSync, file)
			}
			continue
		}

		remoteTime, err := time.Parse(time.RFC3339, remoteTimeStr)
		if err != nil {
			continue
		}
		localTime, err := time.Parse(time.RFC3339, localTimeStr)
		if err != nil {
			continue
		}

		if source == SourceS3 && remoteTime.After(localTime.Add(1*time.Second)) {
			filesToSync = append(filesToSync, file)
		}
		if source == SourceLocal && localTime.After(remoteTime.Add(1*time.Second)) {
			filesToSync = append(filesToSync, file)
		}
	}

	if source == SourceLocal {
		for file := range localMeta {
			if file == MetadataFile {
				continue
			}
			if _, exists := remoteMeta[file]; !exists {
				filesToSync = append(filesToSync, file)
			}
		}
	}

	sort.Strings(filesToSync)
	return filesToSync
}
