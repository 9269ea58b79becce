package searchkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func seedProducts(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	if _, err := c.Indexes("acme").Create(ctx, "products"); err != nil {
		t.Fatalf("create index: %v", err)
	}
	docs := []Document{
		{ID: "1", Data: map[string]any{"title": "Running shoes", "category": "footwear", "price": 50}},
		{ID: "2", Data: map[string]any{"title": "Leather boots", "description": "Not shoes", "category": "footwear", "price": 80}},
		{ID: "3", Data: map[string]any{"title": "Hat", "category": "accessories", "price": 20}},
	}
	for _, r := range c.Documents("acme", "products").BatchUpsert(ctx, docs) {
		if !r.OK {
			t.Fatalf("seed %s: %v", r.ID, r.Err)
		}
	}
}

func TestNew_InMemory(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("in-process cache ping: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.ClusterHealth != "green" {
		t.Errorf("health = %+v", h)
	}
	if _, ok := h.Checks["cache"]; ok {
		t.Error("in-process client must not report a cache check")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	res, err := c.Search("acme", "products").Query(context.Background(), SearchRequest{
		Query:  "shoes",
		Facets: []string{"category"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalHits != 2 || len(res.Hits) != 2 {
		t.Fatalf("hits = %d/%d, want 2", res.TotalHits, len(res.Hits))
	}
	if res.Hits[0].ID != "1" || res.Hits[0].Score != 2 {
		t.Errorf("top hit = %s (%v), want 1 (2)", res.Hits[0].ID, res.Hits[0].Score)
	}
	if res.Hits[1].ID != "2" || res.Hits[1].Score != 1 {
		t.Errorf("second hit = %s (%v), want 2 (1)", res.Hits[1].ID, res.Hits[1].Score)
	}
	if res.MaxScore != 2 {
		t.Errorf("MaxScore = %v, want 2", res.MaxScore)
	}
	if res.Hits[0].Source["title"] != "Running shoes" {
		t.Errorf("source = %v", res.Hits[0].Source)
	}
	if len(res.Facets) != 1 || len(res.Facets[0].Values) != 1 ||
		res.Facets[0].Values[0] != (FacetValue{Value: "footwear", Count: 2}) {
		t.Errorf("facets = %+v", res.Facets)
	}
}

func TestClient_SearchFilterAndSort(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	res, err := c.Search("acme", "products").Query(context.Background(), SearchRequest{
		Filters: map[string]any{"category": "footwear"},
		Sort:    []string{"-price"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Hits) != 2 || res.Hits[0].ID != "2" || res.Hits[1].ID != "1" {
		t.Fatalf("hits = %+v, want [2 1]", res.Hits)
	}
}

func TestClient_SearchInvalidSort(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	_, err := c.Search("acme", "products").Query(context.Background(), SearchRequest{Sort: []string{"price:sideways"}})
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("err = %v, want ErrInvalidSchema", err)
	}
}

func TestClient_ListFilterRequiresIdenticalList(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)
	ctx := context.Background()
	search := c.Search("acme", "products")

	res, err := search.Query(ctx, SearchRequest{
		Filters: map[string]any{"category": []any{"footwear", "accessories"}},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0 for a list filter over scalar fields", res.TotalHits)
	}

	tagged := Document{ID: "4", Data: map[string]any{"category": []any{"footwear", "accessories"}}}
	if _, err := c.Documents("acme", "products").Upsert(ctx, tagged); err != nil {
		t.Fatal(err)
	}
	res, err = search.Query(ctx, SearchRequest{
		Filters: map[string]any{"category": []any{"footwear", "accessories"}},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalHits != 1 || res.Hits[0].ID != "4" {
		t.Errorf("hits = %+v, want only 4", res.Hits)
	}
}

func TestClient_Suggest(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	got, err := c.Search("acme", "products").Suggest(context.Background(), "title", "run", 0)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	want := []string{"Running shoes", "running"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
}

func TestClient_StatsAndAnalytics(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)
	ctx := context.Background()

	search := c.Search("acme", "products")
	if _, err := search.Query(ctx, SearchRequest{Query: "shoes"}); err != nil {
		t.Fatal(err)
	}
	if _, err := search.Query(ctx, SearchRequest{Query: "umbrella"}); err != nil {
		t.Fatal(err)
	}

	st, err := c.Indexes("acme").Stats(ctx, "products")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.DocumentCount != 3 || st.QueryTotal != 2 {
		t.Errorf("stats = %+v", st)
	}

	rep, err := c.Indexes("acme").Analytics(ctx, "products")
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if rep.TotalQueries != 2 || rep.ZeroResultQueries != 1 {
		t.Errorf("report = %+v", rep)
	}
	if len(rep.RecentZeroResults) != 1 || rep.RecentZeroResults[0] != "umbrella" {
		t.Errorf("RecentZeroResults = %v", rep.RecentZeroResults)
	}
}

func TestClient_TenantsAreIsolated(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	_, err := c.Search("other", "products").Query(context.Background(), SearchRequest{Query: "shoes"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_IndexLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	idx := c.Indexes("acme")

	if _, err := idx.Create(ctx, "products"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := idx.Create(ctx, "products"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate create err = %v", err)
	}
	if _, err := c.Documents("acme", "products").Upsert(ctx, Document{ID: "1", Data: map[string]any{"a": 1}}); err != nil {
		t.Fatal(err)
	}

	info, err := idx.Ensure(ctx, "products")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if info.DocumentCount != 1 || info.CreatedBy != createdBySDK {
		t.Errorf("info = %+v", info)
	}

	if err := idx.Delete(ctx, "products"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := idx.Get(ctx, "products"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete err = %v", err)
	}
}

func TestClient_Limits(t *testing.T) {
	c := newTestClient(t, WithLimits(1, 1))
	ctx := context.Background()

	if _, err := c.Indexes("acme").Create(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Indexes("acme").Create(ctx, "b"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("index quota err = %v", err)
	}

	docs := c.Documents("acme", "a")
	if _, err := docs.Upsert(ctx, Document{ID: "1", Data: map[string]any{"x": 1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := docs.Upsert(ctx, Document{ID: "2", Data: map[string]any{"x": 2}}); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("document quota err = %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := defaultConfig()
	for _, o := range []Option{
		WithValkey("localhost:6379", "secret"),
		WithMaxBatchSize(7),
		WithQueryCache(5, time.Second),
		WithoutQueryCache(),
		WithoutAnalytics(),
	} {
		o.apply(cfg)
	}

	if cfg.driver != "valkey" || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("cache options = %+v", cfg)
	}
	if cfg.maxBatchSize != 7 || cfg.cacheSize != 5 || cfg.cacheTTL != time.Second {
		t.Errorf("sizes = %+v", cfg)
	}
	if !cfg.cachingDisabled || !cfg.analyticsDisabled {
		t.Error("switches not applied")
	}
	if cfg.maxIndexesPerTenant != 100 || cfg.maxDocumentsPerIndex != 100000 {
		t.Errorf("limits defaults = %d/%d", cfg.maxIndexesPerTenant, cfg.maxDocumentsPerIndex)
	}
}

func TestWithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg))

	_, _ = c.Indexes("acme").Create(context.Background(), "products")
	_, _ = c.Indexes("acme").Create(context.Background(), "products")

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("index.create", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("index.create", "conflict")); got != 1 {
		t.Errorf("conflict count = %v, want 1", got)
	}

	// A second client on the same registerer reuses the collectors.
	if _, err := New(context.Background(), WithPrometheus(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}
}

func TestObserver_LogsTenantAndIndexOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := newTestClient(t, WithLogger(logger))

	_, err := c.Search("acme", "missing").Query(context.Background(), SearchRequest{Query: "shoes"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "operation failed" || entry["op"] != "search.query" {
		t.Errorf("entry = %v", entry)
	}
	if entry["tenant"] != "acme" || entry["index"] != "missing" || entry["outcome"] != "not_found" {
		t.Errorf("entry = %v", entry)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrNotFound, "not_found"},
		{ErrDocumentNotFound, "not_found"},
		{ErrAlreadyExists, "conflict"},
		{ErrQuotaExceeded, "quota_exceeded"},
		{ErrInvalidSchema, "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
