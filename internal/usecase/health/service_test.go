package health

import (
	"context"
	"errors"
	"testing"
	"time"

	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// --- Mocks ---

type mockTotals struct {
	totals domstats.Totals
	err    error
}

func (m *mockTotals) Totals(_ context.Context) (domstats.Totals, error) { return m.totals, m.err }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	store := &mockTotals{totals: domstats.Totals{Indexes: 3, Documents: 42, QueryTotal: 2, QueryTimeMs: 5}}
	svc := New(store, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy || r.ClusterHealth != Green {
		t.Errorf("expected %q/%q, got %q/%q", Healthy, Green, r.Status, r.ClusterHealth)
	}
	if r.Checks["store"] != CheckOK || r.Checks["cache"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
	if r.TotalIndexes != 3 || r.TotalDocuments != 42 {
		t.Errorf("totals = %d/%d, want 3/42", r.TotalIndexes, r.TotalDocuments)
	}
	if r.AvgQueryTimeMs != 2.5 {
		t.Errorf("AvgQueryTimeMs = %v, want 2.5", r.AvgQueryTimeMs)
	}
}

func TestCheck_NoCacheConfigured(t *testing.T) {
	svc := New(&mockTotals{}, nil)
	r := svc.Check(context.Background())

	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check must be absent without a shared cache")
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockTotals{}, &mockCachePinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded || r.ClusterHealth != Yellow {
		t.Errorf("expected %q/%q, got %q/%q", Degraded, Yellow, r.Status, r.ClusterHealth)
	}
	if r.Checks["store"] != CheckOK {
		t.Errorf("expected store %q, got %q", CheckOK, r.Checks["store"])
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_StoreError(t *testing.T) {
	svc := New(&mockTotals{err: context.Canceled}, nil)
	r := svc.Check(context.Background())

	if r.Checks["store"] != CheckError || r.Status != Degraded {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestCheck_Uptime(t *testing.T) {
	svc := New(&mockTotals{}, nil)
	svc.started = time.Now().Add(-time.Minute)
	if r := svc.Check(context.Background()); r.Uptime < time.Minute {
		t.Errorf("Uptime = %v, want >= 1m", r.Uptime)
	}
}
