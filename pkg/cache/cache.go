// Package cache provides a small TTL cache for token metadata. Order book
// pages are never cached; only effectively-static metadata (material names,
// descriptions, token addresses) goes through here.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// Cache is the interface the marketplace client caches metadata behind.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration) bool
	Delete(key string)
	Close()
}

// RistrettoCache is a Cache backed by ristretto.
type RistrettoCache struct {
	cache  *ristretto.Cache
	logger *zap.Logger
}

// Config holds cache sizing.
type Config struct {
	NumCounters int64 // keys tracked for frequency, ~10x max items
	MaxItems    int64
	Logger      *zap.Logger
}

// New creates a ristretto-backed metadata cache. Zero sizing fields get
// defaults suited to the small metadata working set.
func New(cfg *Config) (*RistrettoCache, error) {
	if cfg.NumCounters == 0 {
		cfg.NumCounters = 10_000
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 1_000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxItems,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoCache{
		cache:  cache,
		logger: cfg.Logger,
	}, nil
}

// Get retrieves a value from the cache.
func (r *RistrettoCache) Get(key string) (interface{}, bool) {
	value, found := r.cache.Get(key)
	if found {
		MetadataHitsTotal.Inc()
	} else {
		MetadataMissesTotal.Inc()
	}
	return value, found
}

// Set stores a value with a TTL. Cost is 1 per item.
func (r *RistrettoCache) Set(key string, value interface{}, ttl time.Duration) bool {
	ok := r.cache.SetWithTTL(key, value, 1, ttl)
	if ok {
		r.logger.Debug("metadata-cached", zap.String("key", key), zap.Duration("ttl", ttl))
	}
	return ok
}

// Delete removes a value from the cache.
func (r *RistrettoCache) Delete(key string) {
	r.cache.Del(key)
}

// Close releases cache resources.
func (r *RistrettoCache) Close() {
	r.cache.Close()
}

// Wait blocks until pending writes are applied. Used in tests.
func (r *RistrettoCache) Wait() {
	r.cache.Wait()
}
