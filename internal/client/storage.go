package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/neon-social/backend/internal/config"
)

const presignTTL = 5 * time.Minute

// StorageClient talks to an S3-compatible bucket (AWS S3, Cloudflare R2,
// MinIO). Uploads happen browser-side against presigned PUT URLs.
type StorageClient struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

type PresignedUpload struct {
	UploadURL string
	PublicURL string
	ObjectKey string
	ExpiresAt time.Time
}

func NewStorageClient(cfg config.StorageConfig) (*StorageClient, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("missing S3_BUCKET/S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY")
	}

	options := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	}
	if cfg.Endpoint != "" {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &StorageClient{
		client:        s3.New(options),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (c *StorageClient) PresignUpload(ctx context.Context, objectKey, contentType string) (*PresignedUpload, error) {
	presignClient := s3.NewPresignClient(c.client)

	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedUpload{
		UploadURL: request.URL,
		PublicURL: c.PublicURL(objectKey),
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(presignTTL),
	}, nil
}

func (c *StorageClient) PublicURL(objectKey string) string {
	if c.publicBaseURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, objectKey)
	}
	return c.publicBaseURL + "/" + objectKey
}
