package analytics

import (
	"cmp"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
	"github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// Capacity defaults.
const (
	DefaultTopTermsCapacity    = 1000
	DefaultZeroResultsCapacity = 100
)

type key struct{ tenant, index string }

type tracker struct {
	total     int64
	zero      int64
	latencyMs float64
	terms     *lru.Cache[string, int64]
	zeroRing  *ring[string]
}

// Recorder aggregates query analytics per index in memory. Term counts are
// LRU-bounded, so the least recently queried terms are forgotten first.
type Recorder struct {
	mu            sync.Mutex
	trackers      map[key]*tracker
	termsCapacity int
	zeroCapacity  int
}

// NewRecorder creates a recorder. Non-positive capacities use the defaults.
func NewRecorder(termsCapacity, zeroCapacity int) *Recorder {
	if termsCapacity <= 0 {
		termsCapacity = DefaultTopTermsCapacity
	}
	if zeroCapacity <= 0 {
		zeroCapacity = DefaultZeroResultsCapacity
	}
	return &Recorder{
		trackers:      make(map[key]*tracker),
		termsCapacity: termsCapacity,
		zeroCapacity:  zeroCapacity,
	}
}

// Record accounts one search against tenant/index.
func (r *Recorder) Record(tenantID, indexName string, ev domanalytics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.trackers[key{tenantID, indexName}]
	if t == nil {
		terms, _ := lru.New[string, int64](r.termsCapacity)
		t = &tracker{terms: terms, zeroRing: newRing[string](r.zeroCapacity)}
		r.trackers[key{tenantID, indexName}] = t
	}

	t.total++
	t.latencyMs += stats.Millis(ev.Latency)
	for _, term := range ev.Terms {
		count, _ := t.terms.Get(term)
		t.terms.Add(term, count+1)
	}
	if ev.Hits == 0 {
		t.zero++
		t.zeroRing.add(ev.Query)
	}
}

// Report returns the topN most frequent terms and recent zero-result queries.
// topN <= 0 returns every tracked term.
func (r *Recorder) Report(tenantID, indexName string, topN int) domanalytics.Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.trackers[key{tenantID, indexName}]
	if t == nil {
		return domanalytics.Report{TopTerms: []domanalytics.TermCount{}, RecentZeroResults: []string{}}
	}

	terms := make([]domanalytics.TermCount, 0, t.terms.Len())
	for _, term := range t.terms.Keys() {
		if count, ok := t.terms.Peek(term); ok {
			terms = append(terms, domanalytics.TermCount{Term: term, Count: count})
		}
	}
	slices.SortFunc(terms, func(a, b domanalytics.TermCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if topN > 0 && len(terms) > topN {
		terms = terms[:topN]
	}

	rep := domanalytics.Report{
		TotalQueries:      t.total,
		ZeroResultQueries: t.zero,
		TopTerms:          terms,
		RecentZeroResults: t.zeroRing.newestFirst(),
	}
	if t.total > 0 {
		rep.AvgLatencyMs = t.latencyMs / float64(t.total)
	}
	return rep
}

// Forget drops everything recorded for tenant/index.
func (r *Recorder) Forget(tenantID, indexName string) {
	r.mu.Lock()
	delete(r.trackers, key{tenantID, indexName})
	r.mu.Unlock()
}
