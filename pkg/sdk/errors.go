package searchkit

import "github.com/kailas-cloud/searchkit/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrQuotaExceeded    = domain.ErrQuotaExceeded
	ErrInvalidSchema    = domain.ErrInvalidSchema
	ErrDocumentNotFound = domain.ErrDocumentNotFound
)
