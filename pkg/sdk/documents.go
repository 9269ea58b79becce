package searchkit

import (
	"context"
	"fmt"
	"time"

	dombatch "github.com/kailas-cloud/searchkit/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// DocumentService manages documents within a single index.
type DocumentService struct {
	tenant   string
	index    string
	docSvc   documentUseCase
	batchSvc batchUseCase
	obs      *observer
}

// Upsert creates or replaces a document. Returns true if created.
func (s *DocumentService) Upsert(ctx context.Context, doc Document) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.upsert", s.scope(), start, err) }()

	_, created, err := s.docSvc.Index(ctx, s.tenant, s.index, doc.ID, doc.Data, doc.Boost)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return created, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.get", s.scope(), start, err) }()

	d, err := s.docSvc.Get(ctx, s.tenant, s.index, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(&d), nil
}

// Delete removes a document by ID. It reports false when the id is unknown.
func (s *DocumentService) Delete(ctx context.Context, id string) (_ bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.delete", s.scope(), start, err) }()

	deleted, err := s.docSvc.Delete(ctx, s.tenant, s.index, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return deleted, nil
}

// Count returns the number of documents in the index.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	n, err := s.docSvc.Count(ctx, s.tenant, s.index)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// BatchUpsert creates or replaces documents in order. Failures are reported
// per item.
func (s *DocumentService) BatchUpsert(ctx context.Context, docs []Document) []BatchResult {
	start := time.Now()
	items := make([]dombatch.Item, len(docs))
	for i, d := range docs {
		items[i] = dombatch.Item{ID: d.ID, Data: d.Data, Boost: d.Boost}
	}
	results := fromBatchResults(s.batchSvc.Index(ctx, s.tenant, s.index, items))
	s.obs.observe("document.batch_upsert", s.scope(), start, firstBatchError(results))
	return results
}

// BatchDelete removes documents by IDs.
func (s *DocumentService) BatchDelete(ctx context.Context, ids []string) []BatchResult {
	start := time.Now()
	results := fromBatchResults(s.batchSvc.Delete(ctx, s.tenant, s.index, ids))
	s.obs.observe("document.batch_delete", s.scope(), start, firstBatchError(results))
	return results
}

func (s *DocumentService) scope() scope { return scope{s.tenant, s.index} }

func fromInternalDocument(d *domdoc.Document) Document {
	return Document{
		ID:        d.ID(),
		Data:      value.ToMap(d.Data()),
		Boost:     d.Boost(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

func fromBatchResults(results []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{
			ID:      r.ID(),
			OK:      r.Status() == dombatch.StatusOK,
			Created: r.Created(),
			Err:     r.Err(),
		}
	}
	return out
}

func firstBatchError(results []BatchResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
