package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nakachan-ing/todocal-cli/internal/model"
)

// S3API is the subset of *s3.Client used for syncing.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// UploadToS3 uploads a local file to bucket/s3Key.
func UploadToS3(ctx context.Context, s3Client S3API, bucket, filePath string, s3Key string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", s3Key, err)
	}
	return nil
}

// DownloadFromS3 writes bucket/s3Key to localPath, creating directories.
func DownloadFromS3(ctx context.Context, s3Client S3API, bucket, s3Key string, localPath string) error {
	resp, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to download %s from S3: %w", s3Key, err)
	}
	defer resp.Body.Close()

	localDir := filepath.Dir(localPath)
	if err := os.MkdirAll(localDir, os.ModePerm); err != nil {
		return fmt.Errorf("❌ Failed to create directory %s: %w", localDir, err)
	}

	tmp := localPath + ".download"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("❌ Failed to create file %s: %w", tmp, err)
	}

	if _, err = file.ReadFrom(resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("❌ Failed to write file %s: %w", localPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("❌ Failed to close file %s: %w", localPath, err)
	}
	if err := os.Rename(tmp, localPath); err != nil {
		return fmt.Errorf("❌ Failed to replace %s: %w", localPath, err)
	}
	return nil
}

func isNotFoundErr(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func NewS3Client(ctx context.Context, todoConfig model.Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(todoConfig.Sync.AWSRegion),
	}
	if todoConfig.Sync.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(todoConfig.Sync.AWSProfile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}
