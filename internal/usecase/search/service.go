package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/stats"
	logpkg "github.com/kailas-cloud/searchkit/internal/logger"
)

// Query status labels.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// Cache result labels.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Service executes filtered, scored and faceted searches over one index.
type Service struct {
	repo      Repository
	logger    *zap.Logger
	cache     Cache
	analytics Analytics
	group     singleflight.Group
	now       func() time.Time

	// bounds a collapsed execution, which outlives the callers that share it
	sharedTimeout time.Duration

	queries    *prometheus.CounterVec
	duration   prometheus.Observer
	cacheTotal *prometheus.CounterVec
}

// New creates a search service. Caching and analytics are off until
// configured.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithCache enables response caching. A nil cache or enabled=false leaves
// caching off.
func (s *Service) WithCache(cache Cache, enabled bool) *Service {
	if enabled {
		s.cache = cache
	}
	return s
}

// WithAnalytics sets the query analytics sink.
func (s *Service) WithAnalytics(a Analytics) *Service {
	s.analytics = a
	return s
}

// WithMetrics sets Prometheus collectors. Any of them may be nil.
func (s *Service) WithMetrics(queries *prometheus.CounterVec, duration prometheus.Observer, cacheTotal *prometheus.CounterVec) *Service {
	s.queries = queries
	s.duration = duration
	s.cacheTotal = cacheTotal
	return s
}

// WithQueryTimeout bounds executions shared by identical concurrent queries.
// Zero leaves them unbounded.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.sharedTimeout = d
	return s
}

// Search runs q against a snapshot of its index. Repeated queries against an
// unchanged index are served from the cache verbatim. When ctx expires while
// scoring, the partial result is returned with TimedOut set and is not cached.
func (s *Service) Search(ctx context.Context, q *request.Query) (result.Response, error) {
	start := s.now()

	if s.cache == nil {
		resp, err := s.execute(ctx, q, start)
		return s.finish(ctx, q, resp, start, err)
	}

	rev, err := s.repo.Revision(ctx, q.TenantID(), q.IndexName())
	if err != nil {
		return s.finish(ctx, q, result.Response{}, start, fmt.Errorf("resolve index: %w", err))
	}
	fp, err := q.Fingerprint()
	if err != nil {
		return s.finish(ctx, q, result.Response{}, start, fmt.Errorf("fingerprint query: %w", err))
	}

	key := cacheKey(q.TenantID(), q.IndexName(), rev, fp)
	if resp, ok := s.cache.Get(ctx, key); ok {
		s.countCache(CacheHit)
		s.observe(q, resp, start, StatusOK)
		return resp, nil
	}
	s.countCache(CacheMiss)

	if ctx.Err() != nil {
		resp, err := s.execute(ctx, q, start)
		return s.finish(ctx, q, resp, start, err)
	}

	// Identical misses share one execution. It runs detached from every
	// caller, and each caller waits only as long as its own ctx allows.
	ch := s.group.DoChan(key, func() (any, error) {
		shared, cancel := s.sharedContext(ctx)
		defer cancel()
		return s.execute(shared, q, start)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		select {
		case res = <-ch:
		default:
			return s.finish(ctx, q, abandoned(q), start, nil)
		}
	}
	if res.Err != nil {
		return s.finish(ctx, q, result.Response{}, start, res.Err)
	}

	resp := res.Val.(result.Response)
	if resp.TimedOut && ctx.Err() == nil {
		// the shared run hit its own bound; this caller still has time
		var err error
		resp, err = s.execute(ctx, q, start)
		return s.finish(ctx, q, resp, start, err)
	}
	return s.finish(ctx, q, resp, start, nil)
}

func (s *Service) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if s.sharedTimeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, s.sharedTimeout)
}

// abandoned is the response of a caller whose ctx ended before the shared
// execution it joined produced a result.
func abandoned(q *request.Query) result.Response {
	return result.Response{
		Hits:     []result.Hit{},
		TimedOut: true,
		From:     q.From(),
		Size:     q.Size(),
	}
}

// execute computes a response and, when caching, stores it under the key of
// the snapshot it was computed from.
func (s *Service) execute(ctx context.Context, q *request.Query, start time.Time) (result.Response, error) {
	docs, rev, err := s.repo.Snapshot(ctx, q.TenantID(), q.IndexName())
	if err != nil {
		return result.Response{}, fmt.Errorf("snapshot index: %w", err)
	}

	ev := evaluate(ctx, docs, q)
	sortMatched(ev.matched, q.Sort())
	hits := paginate(ev.matched, q.From(), q.Size())

	resp := result.Response{
		Hits:        hits,
		TotalHits:   len(ev.matched),
		MaxScore:    maxScore(hits),
		Facets:      computeFacets(ev.matched, q.Facets(), q.FacetSize()),
		TimedOut:    ev.timedOut,
		From:        q.From(),
		Size:        q.Size(),
		Suggestions: unmatchedTerms(q.Terms(), ev.termSeen),
	}
	took := s.now().Sub(start)
	resp.TookMs = stats.Millis(took)

	if err := s.repo.RecordQuery(ctx, q.TenantID(), q.IndexName(), took); err != nil {
		// the index may have been dropped after the snapshot was taken
		logpkg.FromContextOr(ctx, s.logger).Debug("record query stats",
			zap.String("tenant", q.TenantID()), zap.String("index", q.IndexName()), zap.Error(err))
	}

	if s.cache != nil && !resp.TimedOut {
		fp, err := q.Fingerprint()
		if err == nil {
			s.cache.Set(ctx, cacheKey(q.TenantID(), q.IndexName(), rev, fp), resp)
		}
	}
	return resp, nil
}

func (s *Service) finish(
	ctx context.Context, q *request.Query, resp result.Response, start time.Time, err error,
) (result.Response, error) {
	if err != nil {
		s.countQuery(StatusError)
		return result.Response{}, err
	}
	status := StatusOK
	if resp.TimedOut {
		status = StatusTimeout
		logpkg.FromContextOr(ctx, s.logger).Warn("search timed out",
			zap.String("tenant", q.TenantID()),
			zap.String("index", q.IndexName()),
			zap.Int("partial_hits", resp.TotalHits),
		)
	}
	s.observe(q, resp, start, status)
	return resp, nil
}

func (s *Service) observe(q *request.Query, resp result.Response, start time.Time, status string) {
	elapsed := s.now().Sub(start)
	s.countQuery(status)
	if s.duration != nil {
		s.duration.Observe(elapsed.Seconds())
	}
	if s.analytics != nil {
		s.analytics.Record(q.TenantID(), q.IndexName(), domanalytics.Event{
			Query:   q.Text(),
			Terms:   q.Terms(),
			Hits:    resp.TotalHits,
			Latency: elapsed,
		})
	}
}

func (s *Service) countQuery(status string) {
	if s.queries != nil {
		s.queries.WithLabelValues(status).Inc()
	}
}

func (s *Service) countCache(res string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(res).Inc()
	}
}

func cacheKey(tenantID, indexName string, rev uint64, fingerprint string) string {
	return tenantID + ":" + indexName + ":" + strconv.FormatUint(rev, 10) + ":" + fingerprint
}
