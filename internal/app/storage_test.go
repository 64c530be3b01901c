package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/platform/gcp"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

func TestResolvePublisherLocal(t *testing.T) {
	pub, err := resolvePublisher(context.Background(), logger.NewNop(), gcp.StorageConfig{Mode: gcp.StorageModeLocal})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := pub.(*documents.LocalPublisher); !ok {
		t.Fatalf("publisher=%T", pub)
	}
	url, _ := pub.Publish(context.Background(), "a.docx", "")
	if url != "/static/outputs/a.docx" {
		t.Fatalf("url=%q", url)
	}
}

func TestResolvePublisherClassifiesBootstrapErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageBootstrapErrorCode
	}{
		{"config", &gcp.StorageConfigError{Code: gcp.StorageConfigErrorMissingBucket}, StorageBootstrapErrorInvalidConfig},
		{"connect", errors.New("dial tcp: refused"), StorageBootstrapErrorConnectFailed},
	}
	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newBucketService = func(context.Context, *logger.Logger, gcp.StorageConfig) (gcp.BucketService, error) {
				return nil, tc.err
			}
			_, err := resolvePublisher(context.Background(), logger.NewNop(), gcp.StorageConfig{Mode: gcp.StorageModeGCS, BucketName: "b"})
			var got *StorageBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code=%q want %q", got.Code, tc.want)
			}
			if !errors.Is(err, tc.err) || !strings.Contains(err.Error(), string(tc.want)) {
				t.Fatalf("error %q does not wrap cause", err)
			}
		})
	}
}
