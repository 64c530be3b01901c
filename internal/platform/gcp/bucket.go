package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

var ErrObjectNotFound = errors.New("object not found")

// BucketService stores rendered artifacts in a single bucket.
type BucketService interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	PublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	client        *storage.Client
	cfg           StorageConfig
	bucket        string
	publicBaseURL string
}

func NewBucketService(ctx context.Context, log *logger.Logger, cfg StorageConfig) (BucketService, error) {
	if err := ValidateStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate artifact storage config: %w", err)
	}
	if !cfg.UsesBucket() {
		return nil, fmt.Errorf("artifact storage mode %q does not use a bucket", cfg.Mode)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	bs := &bucketService{
		log:           log.With("service", "BucketService"),
		client:        client,
		cfg:           cfg,
		bucket:        cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
	}
	bs.log.Info("Artifact storage initialized", "mode", cfg.Mode, "bucket", cfg.BucketName, "emulator_host", cfg.EmulatorHost)
	return bs, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) Upload(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := bs.client.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %q: %w", key, err)
	}
	return nil
}

// readCloserWithCancel keeps the timeout context alive until the caller
// closes the reader.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	r, err := bs.client.Bucket(bs.bucket).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("open reader for %q: %w", key, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(bs.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("delete object %q in bucket %q: %w", key, bs.bucket, err)
	}
	return nil
}

func (bs *bucketService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.client.Bucket(bs.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *bucketService) PublicURL(key string) string {
	return publicURL(bs.cfg, key)
}

func publicURL(cfg StorageConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, cfg.BucketName, key)
	}
	if cfg.IsEmulatorMode() && cfg.EmulatorHost != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			cfg.EmulatorHost, url.PathEscape(cfg.BucketName), url.PathEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.BucketName, key)
}

// ContentTypeForKey maps artifact extensions to MIME types.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(strings.TrimSpace(key))) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return ""
	}
}
