package storage

import (
	"context"
	"time"
)

// ObjectInfo describes one stored artifact.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the outbound port for the video artifact store.
// Handlers and workers depend on this interface so they can be tested
// without a live bucket.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
	Rename(ctx context.Context, oldKey, newKey string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
