package request

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchkit/internal/domain/search/filter"
	"github.com/kailas-cloud/searchkit/internal/domain/search/sortby"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength   = 4096
	DefaultSize      = 10
	MaxSize          = 1000
	DefaultFacetSize = 10
	MaxFacetSize     = 1000
	MaxFacets        = 32
	MaxSortFields    = 8
)

// Query is a validated search request against one index.
type Query struct {
	tenantID  string
	indexName string
	text      string
	filters   filter.Set
	facets    []string
	facetSize int
	sort      []sortby.Field
	from      int
	size      int
}

// New validates and normalizes search parameters.
// Defaults: size=10, facet_size=10. Size and facet size are clamped to their maximums.
func New(
	tenantID, indexName, text string,
	filters filter.Set,
	facets []string, facetSize int,
	sort []sortby.Field,
	from, size int,
) (Query, error) {
	if tenantID == "" || indexName == "" {
		return Query{}, fmt.Errorf("tenant and index are required")
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if from < 0 {
		return Query{}, fmt.Errorf("from must be >= 0")
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if facetSize <= 0 {
		facetSize = DefaultFacetSize
	}
	if facetSize > MaxFacetSize {
		facetSize = MaxFacetSize
	}
	if len(facets) > MaxFacets {
		return Query{}, fmt.Errorf("too many facets (max %d)", MaxFacets)
	}
	for _, f := range facets {
		if strings.TrimSpace(f) == "" {
			return Query{}, fmt.Errorf("facet field name is required")
		}
	}
	if len(sort) > MaxSortFields {
		return Query{}, fmt.Errorf("too many sort fields (max %d)", MaxSortFields)
	}

	return Query{
		tenantID:  tenantID,
		indexName: indexName,
		text:      text,
		filters:   filters,
		facets:    append([]string(nil), facets...),
		facetSize: facetSize,
		sort:      append([]sortby.Field(nil), sort...),
		from:      from,
		size:      size,
	}, nil
}

// TenantID returns the owning tenant.
func (q *Query) TenantID() string { return q.tenantID }

// IndexName returns the target index.
func (q *Query) IndexName() string { return q.indexName }

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// Terms returns the lowercased, whitespace-split query terms.
func (q *Query) Terms() []string { return strings.Fields(strings.ToLower(q.text)) }

// Filters returns the equality filter set.
func (q *Query) Filters() filter.Set { return q.filters }

// Facets returns the fields to aggregate, in request order.
func (q *Query) Facets() []string { return q.facets }

// FacetSize returns the maximum buckets per facet.
func (q *Query) FacetSize() int { return q.facetSize }

// Sort returns the requested sort keys.
func (q *Query) Sort() []sortby.Field { return q.sort }

// From returns the pagination offset.
func (q *Query) From() int { return q.from }

// Size returns the page size.
func (q *Query) Size() int { return q.size }

type canonicalQuery struct {
	TenantID  string                 `json:"tenant_id"`
	IndexName string                 `json:"index_name"`
	Query     string                 `json:"query"`
	Filters   map[string]value.Value `json:"filters"`
	Facets    []string               `json:"facets"`
	FacetSize int                    `json:"facet_size"`
	Sort      []string               `json:"sort"`
	From      int                    `json:"from"`
	Size      int                    `json:"size"`
}

// Fingerprint returns a hex SHA-256 digest of the canonical JSON form of the
// query. Filter keys are sorted; facet and sort order are significant.
func (q *Query) Fingerprint() (string, error) {
	sortKeys := make([]string, len(q.sort))
	for i, s := range q.sort {
		sortKeys[i] = s.String()
	}
	facets := q.facets
	if facets == nil {
		facets = []string{}
	}
	data, err := json.Marshal(canonicalQuery{
		TenantID:  q.tenantID,
		IndexName: q.indexName,
		Query:     q.text,
		Filters:   q.filters.AsMap(),
		Facets:    facets,
		FacetSize: q.facetSize,
		Sort:      sortKeys,
		From:      q.from,
		Size:      q.size,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint query: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
