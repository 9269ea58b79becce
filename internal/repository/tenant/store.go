package tenant

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain"
	"github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/index"
	"github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// Store is the in-memory registry of tenants, their indexes, documents and
// stats. Each index record carries its own lock; the top-level lock only
// guards the tenant -> index maps.
type Store struct {
	mu      sync.RWMutex
	tenants map[string]map[string]*record
	now     func() time.Time
	// seq issues revisions store-wide, so a recreated index never reuses
	// the revisions of its previous incarnation.
	seq atomic.Uint64
}

type record struct {
	mu       sync.RWMutex
	idx      index.Index
	docs     map[string]document.Document
	stats    stats.IndexStats
	revision uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{tenants: make(map[string]map[string]*record), now: time.Now}
}

// CreateIndex registers idx with an empty document map and zeroed stats.
// maxPerTenant <= 0 disables the quota.
func (s *Store) CreateIndex(ctx context.Context, idx index.Index, maxPerTenant int) error {
	if err := ctx.Err(); err != nil {
		return domain.NewOpError("create index", idx.TenantID(), idx.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexes := s.tenants[idx.TenantID()]
	if _, ok := indexes[idx.Name()]; ok {
		return fmt.Errorf("index %q: %w", idx.Name(), domain.ErrAlreadyExists)
	}
	if maxPerTenant > 0 && len(indexes) >= maxPerTenant {
		return fmt.Errorf("tenant %q has %d indexes (max %d): %w",
			idx.TenantID(), len(indexes), maxPerTenant, domain.ErrQuotaExceeded)
	}
	if indexes == nil {
		indexes = make(map[string]*record)
		s.tenants[idx.TenantID()] = indexes
	}
	indexes[idx.Name()] = &record{
		idx:      idx,
		docs:     make(map[string]document.Document),
		stats:    stats.New(idx.CreatedAt()),
		revision: s.seq.Add(1),
	}
	return nil
}

// GetIndex returns index metadata.
func (s *Store) GetIndex(ctx context.Context, tenantID, name string) (index.Index, error) {
	rec, err := s.lookup(ctx, "get index", tenantID, name)
	if err != nil {
		return index.Index{}, err
	}
	return rec.idx, nil
}

// ListIndexes returns a tenant's indexes ordered by creation time, then name.
// An unknown tenant has no indexes.
func (s *Store) ListIndexes(ctx context.Context, tenantID string) ([]index.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewOpError("list indexes", tenantID, "", err)
	}

	s.mu.RLock()
	out := make([]index.Index, 0, len(s.tenants[tenantID]))
	for _, rec := range s.tenants[tenantID] {
		out = append(out, rec.idx)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b index.Index) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return out, nil
}

// DeleteIndex drops an index together with its documents and stats.
func (s *Store) DeleteIndex(ctx context.Context, tenantID, name string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewOpError("delete index", tenantID, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexes := s.tenants[tenantID]
	if _, ok := indexes[name]; !ok {
		return notFound(tenantID, name)
	}
	delete(indexes, name)
	if len(indexes) == 0 {
		delete(s.tenants, tenantID)
	}
	return nil
}

// UpsertDocument inserts or replaces doc by id, preserving the original
// created_at on replace. maxDocs <= 0 disables the quota. The quota only
// applies to new ids.
func (s *Store) UpsertDocument(
	ctx context.Context, doc document.Document, maxDocs int,
) (stored document.Document, created bool, err error) {
	start := s.now()
	rec, err := s.lookup(ctx, "upsert document", doc.TenantID(), doc.IndexName())
	if err != nil {
		return document.Document{}, false, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	prev, exists := rec.docs[doc.ID()]
	if !exists && maxDocs > 0 && len(rec.docs) >= maxDocs {
		return document.Document{}, false, fmt.Errorf("index %q has %d documents (max %d): %w",
			doc.IndexName(), len(rec.docs), maxDocs, domain.ErrQuotaExceeded)
	}
	if exists {
		doc = doc.WithCreatedAt(prev.CreatedAt())
	}
	rec.docs[doc.ID()] = doc

	now := s.now()
	var prevPtr *document.Document
	if exists {
		prevPtr = &prev
	}
	rec.stats.RecordIndexing(prevPtr, &doc, now.Sub(start), now)
	rec.revision = s.seq.Add(1)
	return doc, !exists, nil
}

// GetDocument returns one document.
func (s *Store) GetDocument(ctx context.Context, tenantID, indexName, id string) (document.Document, error) {
	rec, err := s.lookup(ctx, "get document", tenantID, indexName)
	if err != nil {
		return document.Document{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	doc, ok := rec.docs[id]
	if !ok {
		return document.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// DeleteDocument removes a document. It reports false when the id is unknown.
func (s *Store) DeleteDocument(ctx context.Context, tenantID, indexName, id string) (bool, error) {
	rec, err := s.lookup(ctx, "delete document", tenantID, indexName)
	if err != nil {
		return false, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	doc, ok := rec.docs[id]
	if !ok {
		return false, nil
	}
	delete(rec.docs, id)
	rec.stats.RecordDelete(&doc, s.now())
	rec.revision = s.seq.Add(1)
	return true, nil
}

// CountDocuments returns the number of live documents in an index.
func (s *Store) CountDocuments(ctx context.Context, tenantID, indexName string) (int, error) {
	rec, err := s.lookup(ctx, "count documents", tenantID, indexName)
	if err != nil {
		return 0, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return len(rec.docs), nil
}

// Revision returns the write marker of an index. It changes on every
// successful document mutation and is never reused, even across a delete
// and recreate of the same name.
func (s *Store) Revision(ctx context.Context, tenantID, indexName string) (uint64, error) {
	rec, err := s.lookup(ctx, "revision", tenantID, indexName)
	if err != nil {
		return 0, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.revision, nil
}

// Snapshot copies the document set and revision under the index read lock.
// Documents are immutable, so the copy is a consistent point-in-time view
// that is safe to read without holding any lock.
func (s *Store) Snapshot(ctx context.Context, tenantID, indexName string) ([]document.Document, uint64, error) {
	rec, err := s.lookup(ctx, "snapshot", tenantID, indexName)
	if err != nil {
		return nil, 0, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	docs := make([]document.Document, 0, len(rec.docs))
	for _, d := range rec.docs {
		docs = append(docs, d)
	}
	return docs, rec.revision, nil
}

// RecordQuery accounts one executed search against an index.
func (s *Store) RecordQuery(ctx context.Context, tenantID, indexName string, took time.Duration) error {
	rec, err := s.lookup(ctx, "record query", tenantID, indexName)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	rec.stats.RecordQuery(took)
	rec.mu.Unlock()
	return nil
}

// Stats returns a copy of the index counters with derived rates.
func (s *Store) Stats(ctx context.Context, tenantID, indexName string) (stats.IndexStats, error) {
	rec, err := s.lookup(ctx, "stats", tenantID, indexName)
	if err != nil {
		return stats.IndexStats{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()
	return rec.stats.Snapshot(s.now()), nil
}

// Totals sums counters across all tenants.
func (s *Store) Totals(ctx context.Context) (stats.Totals, error) {
	if err := ctx.Err(); err != nil {
		return stats.Totals{}, domain.NewOpError("totals", "", "", err)
	}

	s.mu.RLock()
	recs := make([]*record, 0)
	tenants := len(s.tenants)
	for _, indexes := range s.tenants {
		for _, rec := range indexes {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	t := stats.Totals{Tenants: tenants, Indexes: len(recs)}
	for _, rec := range recs {
		rec.mu.RLock()
		t.Documents += int64(len(rec.docs))
		t.QueryTotal += rec.stats.QueryTotal
		t.QueryTimeMs += rec.stats.QueryTimeMs
		rec.mu.RUnlock()
	}
	return t, nil
}

func (s *Store) lookup(ctx context.Context, op, tenantID, name string) (*record, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewOpError(op, tenantID, name, err)
	}

	s.mu.RLock()
	rec, ok := s.tenants[tenantID][name]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(tenantID, name)
	}
	return rec, nil
}

func notFound(tenantID, name string) error {
	return fmt.Errorf("index %q for tenant %q: %w", name, tenantID, domain.ErrNotFound)
}
