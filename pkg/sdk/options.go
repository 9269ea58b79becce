package searchkit

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "", "valkey" or "redis"
	addrs    []string
	password string

	maxIndexesPerTenant  int
	maxDocumentsPerIndex int
	maxBatchSize         int

	cacheSize         int
	cacheTTL          time.Duration
	cachingDisabled   bool
	analyticsDisabled bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		maxIndexesPerTenant:  100,
		maxDocumentsPerIndex: 100000,
		maxBatchSize:         100,
		cacheSize:            10000,
		cacheTTL:             5 * time.Minute,
	}
}

// WithValkey stores cached query responses in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores cached query responses in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithLimits sets per-tenant index and per-index document quotas.
// Zero keeps the default for that limit.
func WithLimits(maxIndexesPerTenant, maxDocumentsPerIndex int) Option {
	return optionFunc(func(c *clientConfig) {
		if maxIndexesPerTenant > 0 {
			c.maxIndexesPerTenant = maxIndexesPerTenant
		}
		if maxDocumentsPerIndex > 0 {
			c.maxDocumentsPerIndex = maxDocumentsPerIndex
		}
	})
}

// WithMaxBatchSize sets the maximum number of items per batch operation.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithQueryCache sizes the in-process response cache. ttl applies to the
// shared cache too. Defaults: 10000 entries, 5 minutes.
func WithQueryCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithoutQueryCache disables response caching.
func WithoutQueryCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.cachingDisabled = true
	})
}

// WithoutAnalytics disables query analytics recording.
func WithoutAnalytics() Option {
	return optionFunc(func(c *clientConfig) {
		c.analyticsDisabled = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
