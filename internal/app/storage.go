package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/platform/gcp"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidConfig StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorConnectFailed StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code  StorageBootstrapErrorCode
	Mode  gcp.StorageMode
	Cause error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "artifact storage bootstrap failed"
	}
	return fmt.Sprintf("artifact storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolvePublisher picks where rendered artifacts are published. Local mode
// serves them from the static route; bucket modes upload each file.
func resolvePublisher(ctx context.Context, log *logger.Logger, cfg gcp.StorageConfig) (documents.Publisher, error) {
	log.Info("Selecting artifact publisher", "mode", cfg.Mode, "bucket", cfg.BucketName, "emulator_host", cfg.EmulatorHost)
	if !cfg.UsesBucket() {
		return documents.NewLocalPublisher("/static/outputs"), nil
	}
	bucket, err := newBucketService(ctx, log, cfg)
	if err != nil {
		classified := classifyStorageBootstrapError(cfg, err)
		log.Error("Artifact storage bootstrap failed", "mode", cfg.Mode, "error", classified)
		return nil, classified
	}
	return documents.NewBucketPublisher(bucket, "outputs"), nil
}

func classifyStorageBootstrapError(cfg gcp.StorageConfig, err error) error {
	var cfgErr *gcp.StorageConfigError
	if errors.As(err, &cfgErr) {
		return &StorageBootstrapError{Code: StorageBootstrapErrorInvalidConfig, Mode: cfg.Mode, Cause: err}
	}
	return &StorageBootstrapError{Code: StorageBootstrapErrorConnectFailed, Mode: cfg.Mode, Cause: err}
}
