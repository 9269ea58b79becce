package stats

import (
	"maps"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain/document"
)

// IndexStats holds the counters maintained for one index.
type IndexStats struct {
	DocumentCount        int64
	DeletedDocumentCount int64
	// StoreSizeBytes approximates payload volume; it only grows.
	StoreSizeBytes   int64
	QueryTotal       int64
	QueryTimeMs      float64
	IndexingTotal    int64
	IndexingTimeMs   float64
	AvgQueryTimeMs   float64
	QueriesPerSecond float64
	// FieldStats counts live documents carrying each top-level field.
	FieldStats  map[string]int64
	LastUpdated time.Time

	since time.Time
}

// Totals aggregates counters across every tenant.
type Totals struct {
	Tenants     int
	Indexes     int
	Documents   int64
	QueryTotal  int64
	QueryTimeMs float64
}

// AvgQueryTimeMs returns the cluster-wide mean query latency.
func (t Totals) AvgQueryTimeMs() float64 {
	if t.QueryTotal == 0 {
		return 0
	}
	return t.QueryTimeMs / float64(t.QueryTotal)
}

// New returns zeroed stats for an index created at now.
func New(now time.Time) IndexStats {
	return IndexStats{
		FieldStats:  make(map[string]int64),
		LastUpdated: now,
		since:       now,
	}
}

// RecordIndexing applies an upsert of doc. prev is the document it replaced,
// or nil for an insert.
func (s *IndexStats) RecordIndexing(prev *document.Document, doc *document.Document, took time.Duration, now time.Time) {
	if prev == nil {
		s.DocumentCount++
	} else {
		s.dropFields(prev)
	}
	s.addFields(doc)
	s.IndexingTotal++
	s.IndexingTimeMs += Millis(took)
	s.StoreSizeBytes += int64(doc.SizeBytes())
	s.LastUpdated = now
}

// RecordDelete applies removal of doc.
func (s *IndexStats) RecordDelete(doc *document.Document, now time.Time) {
	s.DocumentCount--
	s.DeletedDocumentCount++
	s.dropFields(doc)
	s.LastUpdated = now
}

// RecordQuery accounts one executed search.
func (s *IndexStats) RecordQuery(took time.Duration) {
	s.QueryTotal++
	s.QueryTimeMs += Millis(took)
	s.AvgQueryTimeMs = s.QueryTimeMs / float64(s.QueryTotal)
}

// Snapshot returns a deep copy with queries_per_second derived at now.
func (s *IndexStats) Snapshot(now time.Time) IndexStats {
	out := *s
	out.FieldStats = maps.Clone(s.FieldStats)
	if out.FieldStats == nil {
		out.FieldStats = make(map[string]int64)
	}
	if elapsed := now.Sub(s.since).Seconds(); elapsed > 0 {
		out.QueriesPerSecond = float64(s.QueryTotal) / elapsed
	}
	return out
}

func (s *IndexStats) addFields(doc *document.Document) {
	if s.FieldStats == nil {
		s.FieldStats = make(map[string]int64)
	}
	for field := range doc.Data() {
		s.FieldStats[field]++
	}
}

func (s *IndexStats) dropFields(doc *document.Document) {
	for field := range doc.Data() {
		s.FieldStats[field]--
		if s.FieldStats[field] <= 0 {
			delete(s.FieldStats, field)
		}
	}
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
