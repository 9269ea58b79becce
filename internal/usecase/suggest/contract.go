package suggest

import (
	"context"

	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
)

// Repository provides point-in-time document snapshots.
type Repository interface {
	Snapshot(ctx context.Context, tenantID, indexName string) ([]domdoc.Document, uint64, error)
}
