package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupService uploads collection exports to S3 and hands back presigned
// download URLs, the file-download side channel for the export surface.
type BackupService struct {
	client *s3.Client
	bucket string
}

// NewBackupService builds an S3-backed export sink.
func NewBackupService(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*BackupService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &BackupService{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// UploadExport stores the export document under a per-user, timestamped
// key and returns the object key.
func (b *BackupService) UploadExport(ctx context.Context, userID string, document string) (string, error) {
	key := fmt.Sprintf("exports/%s/%s.json", userID, time.Now().UTC().Format("2006-01-02T15-04-05"))
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(document),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// PresignedGetURL returns a temporary download URL for an export object.
func (b *BackupService) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(b.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
