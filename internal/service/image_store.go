package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_task_quest/internal/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ImageStore はプロフィール画像の保存先
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

var errUploadDisabled = errors.New("image upload is not configured")

// NewImageStore は storage.bucket が設定されていれば GCS を使う
func NewImageStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ImageStore, error) {
	if cfg.Storage.Bucket == "" {
		logger.Warn("Storage bucket not set, image upload is disabled")
		return disabledImageStore{}, nil
	}

	var opts []option.ClientOption
	if host := strings.TrimRight(cfg.Storage.EmulatorHost, "/"); host != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", host)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	logger.Info("Object storage initialized", "bucket", cfg.Storage.Bucket)

	return &gcsImageStore{
		client:        client,
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

type gcsImageStore struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

func (s *gcsImageStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key), nil
}

type disabledImageStore struct{}

func (disabledImageStore) Upload(context.Context, string, string, []byte) (string, error) {
	return "", errUploadDisabled
}
