package analytics

import "time"

// Event describes one executed search.
type Event struct {
	Query   string
	Terms   []string
	Hits    int
	Latency time.Duration
}

// TermCount is a query term with its occurrence count.
type TermCount struct {
	Term  string
	Count int64
}

// Report summarizes recorded searches for one index.
type Report struct {
	TotalQueries      int64
	ZeroResultQueries int64
	AvgLatencyMs      float64
	TopTerms          []TermCount
	// RecentZeroResults holds the latest queries that found nothing, newest first.
	RecentZeroResults []string
}
