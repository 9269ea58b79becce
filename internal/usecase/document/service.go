package document

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// Indexing operation labels.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// Service handles document indexing and retrieval.
type Service struct {
	repo          Repository
	maxDocs       int
	indexingTotal *prometheus.CounterVec
}

// New creates a document service. maxDocs <= 0 disables the per-index quota.
func New(repo Repository, maxDocs int) *Service {
	return &Service{repo: repo, maxDocs: maxDocs}
}

// WithMetrics sets a counter vec with label "op" incremented on every
// successful mutation.
func (s *Service) WithMetrics(indexingTotal *prometheus.CounterVec) *Service {
	s.indexingTotal = indexingTotal
	return s
}

// Index validates and upserts a document. created is false when an existing
// document with the same id was replaced.
func (s *Service) Index(
	ctx context.Context, tenantID, indexName, id string, data map[string]any, boost float64,
) (domdoc.Document, bool, error) {
	fields, err := value.FromMap(data)
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("validate document data: %w: %w", domain.ErrInvalidSchema, err)
	}
	return s.IndexValues(ctx, tenantID, indexName, id, fields, boost)
}

// IndexValues is Index for already-typed field values.
func (s *Service) IndexValues(
	ctx context.Context, tenantID, indexName, id string, fields map[string]value.Value, boost float64,
) (domdoc.Document, bool, error) {
	doc, err := domdoc.New(tenantID, indexName, id, fields, boost)
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("validate document: %w: %w", domain.ErrInvalidSchema, err)
	}

	stored, created, err := s.repo.UpsertDocument(ctx, doc, s.maxDocs)
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("upsert document: %w", err)
	}
	s.inc(OpUpsert)
	return stored, created, nil
}

// Get retrieves a document by id.
func (s *Service) Get(ctx context.Context, tenantID, indexName, id string) (domdoc.Document, error) {
	doc, err := s.repo.GetDocument(ctx, tenantID, indexName, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document. It reports false when the id is unknown.
func (s *Service) Delete(ctx context.Context, tenantID, indexName, id string) (bool, error) {
	deleted, err := s.repo.DeleteDocument(ctx, tenantID, indexName, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	if deleted {
		s.inc(OpDelete)
	}
	return deleted, nil
}

// Count returns the number of documents in an index.
func (s *Service) Count(ctx context.Context, tenantID, indexName string) (int, error) {
	count, err := s.repo.CountDocuments(ctx, tenantID, indexName)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

func (s *Service) inc(op string) {
	if s.indexingTotal != nil {
		s.indexingTotal.WithLabelValues(op).Inc()
	}
}
