package suggest

import (
	"fmt"
	"strings"
)

// Suggestion limits.
const (
	DefaultSize     = 5
	MaxSize         = 100
	MaxPrefixLength = 256
)

// Request is a validated autocomplete request.
type Request struct {
	tenantID  string
	indexName string
	field     string
	prefix    string
	size      int
}

// NewRequest validates an autocomplete request. Size defaults to 5 and is
// clamped to MaxSize. An empty prefix matches every value.
func NewRequest(tenantID, indexName, field, prefix string, size int) (Request, error) {
	if tenantID == "" || indexName == "" {
		return Request{}, fmt.Errorf("tenant and index are required")
	}
	if strings.TrimSpace(field) == "" {
		return Request{}, fmt.Errorf("field is required")
	}
	if len(prefix) > MaxPrefixLength {
		return Request{}, fmt.Errorf("prefix too long (max %d chars)", MaxPrefixLength)
	}
	if size < 0 {
		return Request{}, fmt.Errorf("size must be >= 0")
	}
	if size == 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{tenantID: tenantID, indexName: indexName, field: field, prefix: prefix, size: size}, nil
}

// TenantID returns the owning tenant.
func (r Request) TenantID() string { return r.tenantID }

// IndexName returns the target index.
func (r Request) IndexName() string { return r.indexName }

// Field returns the document field to complete.
func (r Request) Field() string { return r.field }

// Prefix returns the raw prefix.
func (r Request) Prefix() string { return r.prefix }

// Size returns the maximum number of suggestions.
func (r Request) Size() int { return r.size }

// Response is the autocomplete result.
type Response struct {
	Suggestions []string
	TookMs      float64
}
