package analytics

import (
	"context"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	"github.com/kailas-cloud/searchkit/internal/domain/index"
)

// Recorder aggregates search events per index.
type Recorder interface {
	Record(tenantID, indexName string, ev domanalytics.Event)
	Report(tenantID, indexName string, topN int) domanalytics.Report
}

// IndexReader checks index existence.
type IndexReader interface {
	GetIndex(ctx context.Context, tenantID, name string) (index.Index, error)
}
