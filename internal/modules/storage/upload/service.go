package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/inkwell-space/core/internal/config"
)

var (
	ErrNotConfigured = errors.New("object storage is not configured")
	ErrBadFormat     = errors.New("unsupported file format")
	ErrTooLarge      = errors.New("file too large")
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
}

// Service stores uploaded images in an S3-compatible bucket.
type Service struct {
	cfg     config.S3Config
	client  *s3.Client
	allowed map[string]bool
	maxSize int64
}

func NewService(cfg config.S3Config, uploads config.UploadConfig) *Service {
	svc := &Service{
		cfg:     cfg,
		allowed: make(map[string]bool),
		maxSize: int64(uploads.MaxSizeMB) << 20,
	}
	for _, f := range strings.Split(uploads.AllowedFormats, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			svc.allowed["."+strings.TrimPrefix(f, ".")] = true
		}
	}

	if cfg.Bucket != "" && cfg.AccessKeyID != "" {
		opts := s3.Options{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
			UsePathStyle: cfg.PathStyleAccess,
		}
		if cfg.Endpoint != "" {
			opts.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		svc.client = s3.New(opts)
	}
	return svc
}

// Enabled reports whether a bucket is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Result describes a stored object.
type Result struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Upload validates the file and writes it under images/{year}/{month}/.
func (s *Service) Upload(ctx context.Context, name string, size int64, body io.Reader) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrNotConfigured
	}

	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if ext == "" || !s.allowed[ext] {
		return nil, ErrBadFormat
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, ErrTooLarge
	}

	now := time.Now()
	key := fmt.Sprintf("images/%04d/%02d/%s%s",
		now.Year(), int(now.Month()),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:18], ext)

	contentType := contentTypes[ext]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &Result{URL: s.publicURL(key), Key: key, Size: size}, nil
}

func (s *Service) publicURL(key string) string {
	if s.cfg.CustomDomain != "" {
		return strings.TrimRight(s.cfg.CustomDomain, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
