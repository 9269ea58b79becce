package result

import "github.com/kailas-cloud/searchkit/internal/domain/value"

// Hit is a single search hit.
type Hit struct {
	ID     string
	Score  float64
	Source map[string]value.Value
	// Highlight maps each string field that contained a query term to its value.
	Highlight map[string]string
}

// FacetValue is one bucket of a facet.
type FacetValue struct {
	Value string
	Count int
}

// Facet is a value-count aggregation over one field.
type Facet struct {
	Field  string
	Values []FacetValue
	// Missing counts matched documents that lack the field.
	Missing int
}

// Response is the outcome of a search.
type Response struct {
	Hits      []Hit
	TotalHits int
	MaxScore  float64
	Facets    []Facet
	TookMs    float64
	TimedOut  bool
	From      int
	Size      int
	// Suggestions maps query terms that matched no document to alternatives.
	// Alternatives are not generated yet, so every list is empty.
	Suggestions map[string][]string
}
