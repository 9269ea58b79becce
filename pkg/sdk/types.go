package searchkit

import "time"

// IndexInfo represents index metadata.
type IndexInfo struct {
	ID            string
	Tenant        string
	Name          string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DocumentCount int
}

// Document is a schemaless JSON document. Boost zero means 1.
type Document struct {
	ID        string
	Data      map[string]any
	Boost     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	ID      string
	OK      bool
	Created bool
	Err     error
}

// SearchRequest describes one query. Sort keys are field names, optionally
// prefixed with "-" or suffixed with ":asc"/":desc"; "_score" sorts by relevance.
type SearchRequest struct {
	Query     string
	Filters   map[string]any
	Facets    []string
	FacetSize int
	Sort      []string
	From      int
	Size      int
}

// SearchHit is a single search hit.
type SearchHit struct {
	ID        string
	Score     float64
	Source    map[string]any
	Highlight map[string]string
}

// FacetValue is one bucket of a facet.
type FacetValue struct {
	Value string
	Count int
}

// Facet aggregates matched documents by one field.
type Facet struct {
	Field   string
	Values  []FacetValue
	Missing int
}

// SearchResult is a page of hits plus aggregations over every match.
type SearchResult struct {
	Hits        []SearchHit
	TotalHits   int
	MaxScore    float64
	Facets      []Facet
	Took        time.Duration
	TimedOut    bool
	From        int
	Size        int
	Suggestions map[string][]string
}

// Stats are the counters maintained for one index.
type Stats struct {
	DocumentCount        int64
	DeletedDocumentCount int64
	StoreSizeBytes       int64
	QueryTotal           int64
	QueryTimeMs          float64
	IndexingTotal        int64
	IndexingTimeMs       float64
	AvgQueryTimeMs       float64
	QueriesPerSecond     float64
	FieldStats           map[string]int64
	LastUpdated          time.Time
}

// TermCount is a query term with its occurrence count.
type TermCount struct {
	Term  string
	Count int64
}

// AnalyticsReport summarizes recorded searches for one index.
type AnalyticsReport struct {
	TotalQueries      int64
	ZeroResultQueries int64
	AvgLatencyMs      float64
	TopTerms          []TermCount
	RecentZeroResults []string
}
