package searchkit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/searchkit/internal/db/redis"
	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	dombatch "github.com/kailas-cloud/searchkit/internal/domain/batch"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
	analyticsrepo "github.com/kailas-cloud/searchkit/internal/repository/analytics"
	"github.com/kailas-cloud/searchkit/internal/repository/querycache"
	"github.com/kailas-cloud/searchkit/internal/repository/tenant"
	analyticsuc "github.com/kailas-cloud/searchkit/internal/usecase/analytics"
	batchuc "github.com/kailas-cloud/searchkit/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/searchkit/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchkit/internal/usecase/health"
	indexuc "github.com/kailas-cloud/searchkit/internal/usecase/index"
	searchuc "github.com/kailas-cloud/searchkit/internal/usecase/search"
	statsuc "github.com/kailas-cloud/searchkit/internal/usecase/stats"
	suggestuc "github.com/kailas-cloud/searchkit/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced with mocks in tests.
type indexUseCase interface {
	Create(ctx context.Context, tenantID, name, createdBy string) (domindex.Index, error)
	Get(ctx context.Context, tenantID, name string) (domindex.Index, error)
	List(ctx context.Context, tenantID string) ([]domindex.Index, error)
	Delete(ctx context.Context, tenantID, name string) error
}

type documentUseCase interface {
	Index(ctx context.Context, tenantID, indexName, id string, data map[string]any, boost float64) (
		domdoc.Document, bool, error,
	)
	Get(ctx context.Context, tenantID, indexName, id string) (domdoc.Document, error)
	Delete(ctx context.Context, tenantID, indexName, id string) (bool, error)
	Count(ctx context.Context, tenantID, indexName string) (int, error)
}

type batchUseCase interface {
	Index(ctx context.Context, tenantID, indexName string, items []dombatch.Item) []dombatch.Result
	Delete(ctx context.Context, tenantID, indexName string, ids []string) []dombatch.Result
}

type searchUseCase interface {
	Search(ctx context.Context, q *request.Query) (result.Response, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, req domsuggest.Request) (domsuggest.Response, error)
}

type statsUseCase interface {
	Get(ctx context.Context, tenantID, indexName string) (domstats.IndexStats, error)
}

type analyticsUseCase interface {
	Report(ctx context.Context, tenantID, indexName string) (domanalytics.Report, error)
}

// sharedCache is the redis/valkey connection behind the shared query cache.
type sharedCache interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the searchkit SDK entry point.
type Client struct {
	cache        sharedCache
	indexSvc     indexUseCase
	docSvc       documentUseCase
	batchSvc     batchUseCase
	searchSvc    searchUseCase
	suggestSvc   suggestUseCase
	statsSvc     statsUseCase
	analyticsSvc analyticsUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates an embedded engine. Without WithRedis or WithValkey the query
// cache lives in process and no connection is made. The provided context is
// used for the shared cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var kv *dbRedis.Store
	if cfg.driver != "" {
		kv, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := kv.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			kv.Close()
			return nil, fmt.Errorf("searchkit: cache not ready: %w", err)
		}
	}

	return wireClient(cfg, kv, obs), nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		// Valkey speaks the redis protocol; one client serves both.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("searchkit: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("searchkit: unknown driver %q", cfg.driver)
	}
}

func wireClient(cfg *clientConfig, kv *dbRedis.Store, obs *observer) *Client {
	store := tenant.New()
	recorder := analyticsrepo.NewRecorder(0, 0)

	var (
		cache  searchuc.Cache
		pinger healthuc.CachePinger
		shared sharedCache
	)
	if kv != nil {
		cache = querycache.NewKV(kv, querycache.DefaultKeyPrefix, cfg.cacheTTL, zap.NewNop())
		pinger = kv
		shared = kv
	} else {
		cache = querycache.NewMemory(cfg.cacheSize, cfg.cacheTTL)
	}

	indexSvc := indexuc.New(store, cfg.maxIndexesPerTenant).WithForgetter(recorder)
	docSvc := documentuc.New(store, cfg.maxDocumentsPerIndex)
	batchSvc := batchuc.New(docSvc, docSvc, indexSvc)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}
	analyticsSvc := analyticsuc.New(recorder, store, !cfg.analyticsDisabled)
	searchSvc := searchuc.New(store, zap.NewNop()).
		WithCache(cache, !cfg.cachingDisabled).
		WithAnalytics(analyticsSvc)

	return &Client{
		cache:        shared,
		indexSvc:     indexSvc,
		docSvc:       docSvc,
		batchSvc:     batchSvc,
		searchSvc:    searchSvc,
		suggestSvc:   suggestuc.New(store),
		statsSvc:     statsuc.New(store),
		analyticsSvc: analyticsSvc,
		healthSvc:    healthuc.New(store, pinger),
		obs:          obs,
	}
}

// Close releases the shared cache connection, if any.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks shared cache connectivity. It is a no-op for the in-process cache.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", scope{}, start, err) }()

	if c.cache == nil {
		return nil
	}
	if err = c.cache.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Indexes returns the index management service for a tenant.
func (c *Client) Indexes(tenantID string) *IndexService {
	return &IndexService{
		tenant: tenantID,
		svc:    c.indexSvc,
		docs:   c.docSvc,
		stats:  c.statsSvc,
		an:     c.analyticsSvc,
		obs:    c.obs,
	}
}

// Documents returns the document service for one index.
func (c *Client) Documents(tenantID, indexName string) *DocumentService {
	return &DocumentService{
		tenant:   tenantID,
		index:    indexName,
		docSvc:   c.docSvc,
		batchSvc: c.batchSvc,
		obs:      c.obs,
	}
}

// Search returns the search service for one index.
func (c *Client) Search(tenantID, indexName string) *SearchService {
	return &SearchService{
		tenant:     tenantID,
		index:      indexName,
		svc:        c.searchSvc,
		suggestSvc: c.suggestSvc,
		obs:        c.obs,
	}
}
