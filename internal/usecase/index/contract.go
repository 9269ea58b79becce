package index

import (
	"context"

	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
)

// Repository defines the storage contract for indexes.
type Repository interface {
	CreateIndex(ctx context.Context, idx domindex.Index, maxPerTenant int) error
	GetIndex(ctx context.Context, tenantID, name string) (domindex.Index, error)
	ListIndexes(ctx context.Context, tenantID string) ([]domindex.Index, error)
	DeleteIndex(ctx context.Context, tenantID, name string) error
}

// Forgetter drops per-index state kept outside the repository.
type Forgetter interface {
	Forget(tenantID, indexName string)
}
