// Package storage signs direct-to-S3 upload and download URLs. Objects never
// stream through the API process.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"axleague/config"
	"axleague/internal/domain"
)

type s3Signer struct {
	presign     *s3.PresignClient
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// NewS3Signer returns an ObjectSigner that presigns PUT and GET requests
// against the configured bucket.
func NewS3Signer(awsCfg aws.Config, cfg config.StorageConfig) domain.ObjectSigner {
	client := s3.NewFromConfig(awsCfg)
	return &s3Signer{
		presign:     s3.NewPresignClient(client),
		bucket:      cfg.Bucket,
		uploadTTL:   cfg.UploadTTL,
		downloadTTL: cfg.DownloadTTL,
	}
}

func (s *s3Signer) SignUpload(ctx context.Context, key, contentType string) (string, int, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.uploadTTL))
	if err != nil {
		return "", 0, fmt.Errorf("presign upload for %s: %w", key, err)
	}
	return req.URL, int(s.uploadTTL.Seconds()), nil
}

func (s *s3Signer) SignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.downloadTTL))
	if err != nil {
		return "", fmt.Errorf("presign download for %s: %w", key, err)
	}
	return req.URL, nil
}
