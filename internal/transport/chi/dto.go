package chi

import (
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeIndexNotFound      ErrorCode = "index_not_found"
	ErrorCodeDocumentNotFound   ErrorCode = "document_not_found"
	ErrorCodeIndexAlreadyExists ErrorCode = "index_already_exists"
	ErrorCodeQuotaExceeded      ErrorCode = "quota_exceeded"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateIndexRequest is the body of POST /tenants/{tenant}/indexes.
type CreateIndexRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"created_by,omitempty"`
}

// IndexResponse describes one index.
type IndexResponse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Name          string    `json:"name"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DocumentCount *int      `json:"document_count,omitempty"`
}

// IndexListResponse wraps a tenant's indexes.
type IndexListResponse struct {
	Items []IndexResponse `json:"items"`
	Total int             `json:"total"`
}

// UpsertDocumentRequest is the body of PUT .../documents/{id}.
type UpsertDocumentRequest struct {
	Data  map[string]any `json:"data"`
	Boost *float64       `json:"boost,omitempty"`
}

// DocumentResponse describes one stored document.
type DocumentResponse struct {
	ID        string                 `json:"id"`
	Data      map[string]value.Value `json:"data"`
	Boost     float64                `json:"boost"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// BatchUpsertItem is one document in a bulk upsert.
type BatchUpsertItem struct {
	ID    string         `json:"id"`
	Data  map[string]any `json:"data"`
	Boost *float64       `json:"boost,omitempty"`
}

// BatchUpsertRequest is the body of POST .../documents/batch.
type BatchUpsertRequest struct {
	Documents []BatchUpsertItem `json:"documents"`
}

// BatchDeleteRequest is the body of POST .../documents/batch-delete.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchResultStatus is the per-item outcome of a bulk call.
type BatchResultStatus string

// BatchResultItem is the outcome for one id.
type BatchResultItem struct {
	ID      string            `json:"id"`
	Status  BatchResultStatus `json:"status"`
	Created *bool             `json:"created,omitempty"`
	Error   *ErrorResponse    `json:"error,omitempty"`
}

// BatchResponse summarizes a bulk call.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// SearchRequest is the body of POST .../search.
type SearchRequest struct {
	Query     string                 `json:"query"`
	Filters   map[string]value.Value `json:"filters,omitempty"`
	Facets    []string               `json:"facets,omitempty"`
	FacetSize int                    `json:"facet_size,omitempty"`
	Sort      []string               `json:"sort,omitempty"`
	From      int                    `json:"from,omitempty"`
	Size      int                    `json:"size,omitempty"`
}

// SearchHit is one ranked document.
type SearchHit struct {
	ID        string                 `json:"id"`
	Score     float64                `json:"score"`
	Source    map[string]value.Value `json:"source"`
	Highlight map[string]string      `json:"highlight,omitempty"`
}

// FacetValue is one bucket of a facet.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet is the value breakdown of one field.
type Facet struct {
	Field   string       `json:"field"`
	Values  []FacetValue `json:"values"`
	Missing int          `json:"missing"`
}

// SearchResponse is the reply of POST .../search.
type SearchResponse struct {
	Hits        []SearchHit         `json:"hits"`
	TotalHits   int                 `json:"total_hits"`
	MaxScore    float64             `json:"max_score"`
	Facets      []Facet             `json:"facets"`
	TookMs      float64             `json:"took_ms"`
	TimedOut    bool                `json:"timed_out"`
	From        int                 `json:"from"`
	Size        int                 `json:"size"`
	Suggestions map[string][]string `json:"suggestions"`
}

// SuggestResponse is the reply of GET .../suggest.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
	TookMs      float64  `json:"took_ms"`
}

// StatsResponse is the reply of GET .../stats.
type StatsResponse struct {
	DocumentCount        int64            `json:"document_count"`
	DeletedDocumentCount int64            `json:"deleted_document_count"`
	StoreSizeBytes       int64            `json:"store_size_bytes"`
	QueryTotal           int64            `json:"query_total"`
	QueryTimeMs          float64          `json:"query_time_ms"`
	IndexingTotal        int64            `json:"indexing_total"`
	IndexingTimeMs       float64          `json:"indexing_time_ms"`
	AvgQueryTimeMs       float64          `json:"avg_query_time_ms"`
	QueriesPerSecond     float64          `json:"queries_per_second"`
	FieldStats           map[string]int64 `json:"field_stats"`
	LastUpdated          time.Time        `json:"last_updated"`
}

// TermCount is one entry of AnalyticsResponse.TopTerms.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// AnalyticsResponse is the reply of GET .../analytics.
type AnalyticsResponse struct {
	TotalQueries      int64       `json:"total_queries"`
	ZeroResultQueries int64       `json:"zero_result_queries"`
	AvgLatencyMs      float64     `json:"avg_latency_ms"`
	TopTerms          []TermCount `json:"top_terms"`
	RecentZeroResults []string    `json:"recent_zero_results"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	ClusterHealth  string            `json:"cluster_health"`
	TotalIndexes   int               `json:"total_indexes"`
	TotalDocuments int64             `json:"total_documents"`
	AvgQueryTimeMs float64           `json:"avg_query_time_ms"`
	UptimeSeconds  float64           `json:"uptime_seconds"`
	Version        string            `json:"version"`
}
