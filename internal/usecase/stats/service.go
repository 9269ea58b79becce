package stats

import (
	"context"
	"fmt"

	domstats "github.com/kailas-cloud/searchkit/internal/domain/stats"
)

// Service exposes per-index statistics.
type Service struct {
	repo Repository
}

// New creates a stats service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a copy of the index counters with queries_per_second derived
// at call time.
func (s *Service) Get(ctx context.Context, tenantID, indexName string) (domstats.IndexStats, error) {
	st, err := s.repo.Stats(ctx, tenantID, indexName)
	if err != nil {
		return domstats.IndexStats{}, fmt.Errorf("get stats: %w", err)
	}
	return st, nil
}
