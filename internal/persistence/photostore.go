package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/config"
)

// ErrPhotoStoreDisabled is returned when object storage is not configured.
var ErrPhotoStoreDisabled = errors.New("photo storage not configured")

// PhotoStore keeps attendance photos in S3-compatible object storage.
// Only object keys are persisted in the database; clients fetch photos
// through presigned URLs.
type PhotoStore struct {
	api        *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewPhotoStore connects to object storage when credentials are provided.
// Without them the store is nil and photo operations are rejected.
func NewPhotoStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*PhotoStore, error) {
	if !cfg.Configured() {
		logger.Warn("object storage not configured; attendance photos disabled")
		return nil, nil
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	logger.Info("connected to object storage", zap.String("bucket", cfg.Bucket))
	return &PhotoStore{
		api:        client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL(),
	}, nil
}

// Enabled reports whether photo storage is usable.
func (p *PhotoStore) Enabled() bool {
	return p != nil
}

// Put uploads a photo under the given key.
func (p *PhotoStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if p == nil {
		return ErrPhotoStoreDisabled
	}
	_, err := p.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &p.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	return err
}

// PresignGet returns a time-limited download URL for the key.
func (p *PhotoStore) PresignGet(ctx context.Context, key string) (string, error) {
	if p == nil {
		return "", ErrPhotoStoreDisabled
	}
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &p.bucket,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = p.presignTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
