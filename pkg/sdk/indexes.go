package searchkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// createdBySDK marks indexes created through the embedded client.
const createdBySDK = "sdk"

// IndexService manages the indexes of one tenant.
type IndexService struct {
	tenant string
	svc    indexUseCase
	docs   documentUseCase
	stats  statsUseCase
	an     analyticsUseCase
	obs    *observer
}

// Create creates a new index.
func (s *IndexService) Create(ctx context.Context, name string) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.create", scope{s.tenant, name}, start, err) }()

	idx, err := s.svc.Create(ctx, s.tenant, name, createdBySDK)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	return fromInternalIndex(idx, 0), nil
}

// Ensure creates an index if it does not exist.
// If it already exists, returns its info.
func (s *IndexService) Ensure(ctx context.Context, name string) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.ensure", scope{s.tenant, name}, start, err) }()

	idx, err := s.svc.Create(ctx, s.tenant, name, createdBySDK)
	if err == nil {
		return fromInternalIndex(idx, 0), nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}

	info, err := s.get(ctx, name)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}
	return info, nil
}

// Get retrieves index metadata with its live document count.
func (s *IndexService) Get(ctx context.Context, name string) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.get", scope{s.tenant, name}, start, err) }()

	info, err := s.get(ctx, name)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("get index: %w", err)
	}
	return info, nil
}

func (s *IndexService) get(ctx context.Context, name string) (IndexInfo, error) {
	idx, err := s.svc.Get(ctx, s.tenant, name)
	if err != nil {
		return IndexInfo{}, err //nolint:wrapcheck // wrapped by callers
	}
	count, err := s.docs.Count(ctx, s.tenant, name)
	if err != nil {
		return IndexInfo{}, err //nolint:wrapcheck // wrapped by callers
	}
	return fromInternalIndex(idx, count), nil
}

// List returns the tenant's indexes ordered by creation time.
// Document counts are not filled in.
func (s *IndexService) List(ctx context.Context) (_ []IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.list", scope{tenant: s.tenant}, start, err) }()

	idxs, err := s.svc.List(ctx, s.tenant)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	out := make([]IndexInfo, len(idxs))
	for i, idx := range idxs {
		out[i] = fromInternalIndex(idx, 0)
	}
	return out, nil
}

// Delete drops an index with its documents, stats and analytics.
func (s *IndexService) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.delete", scope{s.tenant, name}, start, err) }()

	if err = s.svc.Delete(ctx, s.tenant, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// Stats returns the counters of an index.
func (s *IndexService) Stats(ctx context.Context, name string) (_ Stats, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.stats", scope{s.tenant, name}, start, err) }()

	st, err := s.stats.Get(ctx, s.tenant, name)
	if err != nil {
		return Stats{}, fmt.Errorf("index stats: %w", err)
	}
	return fromInternalStats(st), nil
}

// Analytics returns the query analytics of an index.
func (s *IndexService) Analytics(ctx context.Context, name string) (_ AnalyticsReport, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.analytics", scope{s.tenant, name}, start, err) }()

	rep, err := s.an.Report(ctx, s.tenant, name)
	if err != nil {
		return AnalyticsReport{}, fmt.Errorf("index analytics: %w", err)
	}
	return fromInternalReport(rep), nil
}

func fromInternalIndex(idx domindex.Index, count int) IndexInfo {
	return IndexInfo{
		ID:            idx.ID(),
		Tenant:        idx.TenantID(),
		Name:          idx.Name(),
		CreatedBy:     idx.CreatedBy(),
		CreatedAt:     idx.CreatedAt(),
		UpdatedAt:     idx.UpdatedAt(),
		DocumentCount: count,
	}
}

func fromInternalStats(st domstats.IndexStats) Stats {
	return Stats{
		DocumentCount:        st.DocumentCount,
		DeletedDocumentCount: st.DeletedDocumentCount,
		StoreSizeBytes:       st.StoreSizeBytes,
		QueryTotal:           st.QueryTotal,
		QueryTimeMs:          st.QueryTimeMs,
		IndexingTotal:        st.IndexingTotal,
		IndexingTimeMs:       st.IndexingTimeMs,
		AvgQueryTimeMs:       st.AvgQueryTimeMs,
		QueriesPerSecond:     st.QueriesPerSecond,
		FieldStats:           st.FieldStats,
		LastUpdated:          st.LastUpdated,
	}
}

func fromInternalReport(rep domanalytics.Report) AnalyticsReport {
	terms := make([]TermCount, len(rep.TopTerms))
	for i, t := range rep.TopTerms {
		terms[i] = TermCount{Term: t.Term, Count: t.Count}
	}
	return AnalyticsReport{
		TotalQueries:      rep.TotalQueries,
		ZeroResultQueries: rep.ZeroResultQueries,
		AvgLatencyMs:      rep.AvgLatencyMs,
		TopTerms:          terms,
		RecentZeroResults: rep.RecentZeroResults,
	}
}
