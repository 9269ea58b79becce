package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a missing index (or tenant/index pair).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate index name within a tenant.
	ErrAlreadyExists = errors.New("already exists")
	// ErrQuotaExceeded signals an index or document cap was reached.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrInvalidSchema signals invalid input (names, ids, boosts, query parameters).
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)

// OpError wraps a failure with the operation and the tenant/index it touched.
type OpError struct {
	Op     string
	Tenant string
	Index  string
	Err    error
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Tenant != "" {
		b.WriteString(" tenant=")
		b.WriteString(e.Tenant)
	}
	if e.Index != "" {
		b.WriteString(" index=")
		b.WriteString(e.Index)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *OpError) Unwrap() error { return e.Err }

// NewOpError wraps err with operation context. Returns nil for a nil err.
func NewOpError(op, tenant, index string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Tenant: tenant, Index: index, Err: err}
}
