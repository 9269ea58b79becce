package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchkit/internal/domain"
	dombatch "github.com/kailas-cloud/searchkit/internal/domain/batch"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Service handles batch document operations with per-item error reporting.
type Service struct {
	docs         DocumentIndexer
	del          DocumentDeleter
	indexes      IndexReader
	maxBatchSize int
}

// New creates a batch service.
func New(docs DocumentIndexer, del DocumentDeleter, indexes IndexReader) *Service {
	return &Service{docs: docs, del: del, indexes: indexes, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Index creates or replaces documents one by one. A failure on one item does
// not stop the rest, unless the index disappeared or ctx was canceled.
func (s *Service) Index(ctx context.Context, tenantID, indexName string, items []dombatch.Item) []dombatch.Result {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if results, ok := s.precheck(ctx, tenantID, indexName, ids); !ok {
		return results
	}

	results := make([]dombatch.Result, len(items))
	for i, item := range items {
		_, created, err := s.docs.Index(ctx, tenantID, indexName, item.ID, item.Data, item.Boost)
		if err != nil {
			results[i] = dombatch.NewError(item.ID, err)
			if cascades(err) {
				failRest(results, ids, i+1, err)
				return results
			}
			continue
		}
		results[i] = dombatch.NewIndexed(item.ID, created)
	}
	return results
}

// Delete removes documents by ID. Unknown IDs are reported as
// ErrDocumentNotFound item errors.
func (s *Service) Delete(ctx context.Context, tenantID, indexName string, ids []string) []dombatch.Result {
	if results, ok := s.precheck(ctx, tenantID, indexName, ids); !ok {
		return results
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		deleted, err := s.del.Delete(ctx, tenantID, indexName, id)
		if err != nil {
			results[i] = dombatch.NewError(id, fmt.Errorf("delete: %w", err))
			if cascades(err) {
				failRest(results, ids, i+1, err)
				return results
			}
			continue
		}
		if !deleted {
			results[i] = dombatch.NewError(id, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound))
			continue
		}
		results[i] = dombatch.NewOK(id)
	}
	return results
}

// precheck enforces the batch size and index existence, failing every item
// when either check does not pass.
func (s *Service) precheck(ctx context.Context, tenantID, indexName string, ids []string) ([]dombatch.Result, bool) {
	var err error
	if len(ids) > s.maxBatchSize {
		err = fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidSchema)
	} else if _, getErr := s.indexes.Get(ctx, tenantID, indexName); getErr != nil {
		err = fmt.Errorf("get index: %w", getErr)
	}
	if err == nil {
		return nil, true
	}

	results := make([]dombatch.Result, len(ids))
	failRest(results, ids, 0, err)
	return results, false
}

// cascades reports whether err dooms every remaining item.
func cascades(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func failRest(results []dombatch.Result, ids []string, from int, err error) {
	for j := from; j < len(ids); j++ {
		results[j] = dombatch.NewError(ids[j], err)
	}
}
