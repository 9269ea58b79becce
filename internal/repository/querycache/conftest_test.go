package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/searchkit/internal/db"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, v []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, v, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
	m.ttls[key] = ttl
	return nil
}

func sampleResponse() result.Response {
	return result.Response{
		Hits: []result.Hit{
			{
				ID:    "2",
				Score: 3,
				Source: map[string]value.Value{
					"title":    value.String("Red Shoe Sale"),
					"category": value.String("shoes"),
					"price":    value.Number(49.5),
					"tags":     value.List(value.String("sale"), value.Number(2)),
				},
				Highlight: map[string]string{"title": "Red Shoe Sale"},
			},
			{
				ID:     "1",
				Score:  2,
				Source: map[string]value.Value{"title": value.String("Red Shoe")},
			},
		},
		TotalHits: 2,
		MaxScore:  3,
		Facets: []result.Facet{
			{Field: "category", Values: []result.FacetValue{{Value: "shoes", Count: 2}}, Missing: 0},
		},
		TookMs: 0.42,
		From:   0,
		Size:   10,
	}
}
