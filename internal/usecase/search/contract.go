package search

import (
	"context"
	"time"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Revision(ctx context.Context, tenantID, indexName string) (uint64, error)
	Snapshot(ctx context.Context, tenantID, indexName string) ([]domdoc.Document, uint64, error)
	RecordQuery(ctx context.Context, tenantID, indexName string, took time.Duration) error
}

// Cache stores computed responses. Implementations treat backend failures
// as misses.
type Cache interface {
	Get(ctx context.Context, key string) (result.Response, bool)
	Set(ctx context.Context, key string, resp result.Response)
}

// Analytics receives one event per executed search.
type Analytics interface {
	Record(tenantID, indexName string, ev domanalytics.Event)
}
