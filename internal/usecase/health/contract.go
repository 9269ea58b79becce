package health

import (
	"context"

	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// TotalsReader aggregates store counters across tenants.
type TotalsReader interface {
	Totals(ctx context.Context) (domstats.Totals, error)
}

// CachePinger checks shared cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
