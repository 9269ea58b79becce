package stats

import (
	"context"

	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// Repository reads maintained index counters.
type Repository interface {
	Stats(ctx context.Context, tenantID, indexName string) (domstats.IndexStats, error)
}
