package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is a key-value store with per-key expiration. Values are stored as
// strings; callers marshal structured data themselves.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
