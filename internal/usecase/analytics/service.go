package analytics

import (
	"context"
	"fmt"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
)

// DefaultTopTerms is the number of terms returned in a report.
const DefaultTopTerms = 10

// Service handles query analytics recording and reporting.
type Service struct {
	rec     Recorder
	indexes IndexReader
	enabled bool
	topN    int
}

// New creates a Service. When enabled is false Record does nothing and
// reports are empty.
func New(rec Recorder, indexes IndexReader, enabled bool) *Service {
	return &Service{rec: rec, indexes: indexes, enabled: enabled, topN: DefaultTopTerms}
}

// WithTopTerms overrides how many terms a report lists.
func (s *Service) WithTopTerms(n int) *Service {
	if n > 0 {
		s.topN = n
	}
	return s
}

// Enabled reports whether events are being recorded.
func (s *Service) Enabled() bool { return s.enabled }

// Record accounts one executed search.
func (s *Service) Record(tenantID, indexName string, ev domanalytics.Event) {
	if !s.enabled || s.rec == nil {
		return
	}
	s.rec.Record(tenantID, indexName, ev)
}

// Report summarizes recorded searches for an existing index.
func (s *Service) Report(ctx context.Context, tenantID, indexName string) (domanalytics.Report, error) {
	if _, err := s.indexes.GetIndex(ctx, tenantID, indexName); err != nil {
		return domanalytics.Report{}, fmt.Errorf("get index: %w", err)
	}
	if !s.enabled || s.rec == nil {
		return domanalytics.Report{TopTerms: []domanalytics.TermCount{}, RecentZeroResults: []string{}}, nil
	}
	return s.rec.Report(tenantID, indexName, s.topN), nil
}
