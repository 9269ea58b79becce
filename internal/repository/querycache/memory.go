package querycache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
)

// DefaultSize is the entry bound used when size <= 0.
const DefaultSize = 10000

// Memory is a process-local query cache bounded by entry count and TTL.
type Memory struct {
	lru *expirable.LRU[string, result.Response]
}

// NewMemory creates an in-process LRU cache with per-entry expiry.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultSize
	}
	return &Memory{lru: expirable.NewLRU[string, result.Response](size, nil, ttl)}
}

// Get returns the cached response for key.
func (m *Memory) Get(_ context.Context, key string) (result.Response, bool) {
	return m.lru.Get(key)
}

// Set stores resp under key.
func (m *Memory) Set(_ context.Context, key string, resp result.Response) {
	m.lru.Add(key, resp)
}

// Len returns the number of live entries.
func (m *Memory) Len() int { return m.lru.Len() }
