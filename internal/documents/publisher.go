package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Publisher turns a file in the output directory into the URL handed to
// clients.
type Publisher interface {
	Publish(ctx context.Context, name, localPath string) (string, error)
}

// LocalPublisher serves artifacts from the static file route.
type LocalPublisher struct {
	URLPrefix string
}

func NewLocalPublisher(urlPrefix string) *LocalPublisher {
	return &LocalPublisher{URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (p *LocalPublisher) Publish(_ context.Context, name, _ string) (string, error) {
	return p.URLPrefix + "/" + name, nil
}

// ObjectStore is the part of the bucket service the publisher needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	PublicURL(key string) string
}

// BucketPublisher uploads artifacts under KeyPrefix and returns the bucket
// URL. The local copy is kept for the download routes.
type BucketPublisher struct {
	Store     ObjectStore
	KeyPrefix string
}

func NewBucketPublisher(store ObjectStore, keyPrefix string) *BucketPublisher {
	return &BucketPublisher{Store: store, KeyPrefix: strings.Trim(keyPrefix, "/")}
}

func (p *BucketPublisher) Publish(ctx context.Context, name, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	key := path.Join(p.KeyPrefix, name)
	if err := p.Store.Upload(ctx, key, f); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return p.Store.PublicURL(key), nil
}
