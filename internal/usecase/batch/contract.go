package batch

import (
	"context"

	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
)

// DocumentIndexer creates or replaces a document.
type DocumentIndexer interface {
	Index(ctx context.Context, tenantID, indexName, id string, data map[string]any, boost float64) (
		doc domdoc.Document, created bool, err error,
	)
}

// DocumentDeleter deletes a document.
type DocumentDeleter interface {
	Delete(ctx context.Context, tenantID, indexName, id string) (bool, error)
}

// IndexReader reads indexes for existence checks.
type IndexReader interface {
	Get(ctx context.Context, tenantID, name string) (domindex.Index, error)
}
