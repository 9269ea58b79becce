package querycache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchkit/internal/db"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
)

// DefaultKeyPrefix namespaces cache keys in a shared server.
const DefaultKeyPrefix = "searchkit:qcache:"

// store is the consumer interface for the shared query cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KV caches search responses in a Redis-compatible key-value store shared
// across processes. Backend failures are logged and degrade to a miss.
type KV struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewKV creates a shared cache. An empty prefix uses DefaultKeyPrefix.
func NewKV(s store, prefix string, ttl time.Duration, logger *zap.Logger) *KV {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KV{store: s, prefix: prefix, ttl: ttl, logger: logger}
}

// Get returns the cached response for key.
func (c *KV) Get(ctx context.Context, key string) (result.Response, bool) {
	data, err := c.store.Get(ctx, c.prefix+key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return result.Response{}, false
	}
	if len(data) == 0 {
		return result.Response{}, false
	}

	resp, err := decodeResponse(data)
	if err != nil {
		c.logger.Warn("Failed to decode cached response", zap.String("key", key), zap.Error(err))
		return result.Response{}, false
	}
	return resp, true
}

// Set stores resp under key with the configured TTL.
func (c *KV) Set(ctx context.Context, key string, resp result.Response) {
	data, err := encodeResponse(resp)
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.prefix+key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
