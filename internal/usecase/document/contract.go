package document

import (
	"context"

	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	UpsertDocument(ctx context.Context, doc domdoc.Document, maxDocs int) (stored domdoc.Document, created bool, err error)
	GetDocument(ctx context.Context, tenantID, indexName, id string) (domdoc.Document, error)
	DeleteDocument(ctx context.Context, tenantID, indexName, id string) (bool, error)
	CountDocuments(ctx context.Context, tenantID, indexName string) (int, error)
}
