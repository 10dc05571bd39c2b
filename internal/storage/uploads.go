package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Config for the S3-compatible upload bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	BaseURL   string
}

// Uploads stores source images uploaded for extraction so the original is
// retrievable after the transient extraction state is discarded.
type Uploads struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewUploads(ctx context.Context, cfg Config, logger *slog.Logger) (*Uploads, error) {
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Uploads{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
		logger:  logger,
	}, nil
}

// Put stores one uploaded file under an owner-scoped key and returns the key
// and, when a public base URL is configured, a fetchable URL.
func (u *Uploads) Put(ctx context.Context, ownerID uuid.UUID, data []byte, contentType string) (key string, url string, err error) {
	key = fmt.Sprintf("uploads/%s/%s-%s", ownerID, time.Now().UTC().Format("20060102"), uuid.New())

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error("upload failed", "owner_id", ownerID, "key", key, "error", err)
		return "", "", fmt.Errorf("put object: %w", err)
	}

	if u.baseURL != "" {
		url = u.baseURL + "/" + key
	}
	u.logger.Info("upload stored", "owner_id", ownerID, "key", key, "bytes", len(data))
	return key, url, nil
}
