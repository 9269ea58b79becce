package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
)

// Service handles index lifecycle per tenant.
type Service struct {
	repo         Repository
	maxPerTenant int
	forgetters   []Forgetter
}

// New creates an index service. maxPerTenant <= 0 disables the quota.
func New(repo Repository, maxPerTenant int) *Service {
	return &Service{repo: repo, maxPerTenant: maxPerTenant}
}

// WithForgetter registers state to drop when an index is deleted.
func (s *Service) WithForgetter(f Forgetter) *Service {
	if f != nil {
		s.forgetters = append(s.forgetters, f)
	}
	return s
}

// Create validates and registers a new index.
func (s *Service) Create(ctx context.Context, tenantID, name, createdBy string) (domindex.Index, error) {
	idx, err := domindex.New(tenantID, name, createdBy)
	if err != nil {
		return domindex.Index{}, fmt.Errorf("validate index: %w: %w", domain.ErrInvalidSchema, err)
	}

	if err := s.repo.CreateIndex(ctx, idx, s.maxPerTenant); err != nil {
		return domindex.Index{}, fmt.Errorf("create index: %w", err)
	}

	return idx, nil
}

// Get retrieves an index by name.
func (s *Service) Get(ctx context.Context, tenantID, name string) (domindex.Index, error) {
	idx, err := s.repo.GetIndex(ctx, tenantID, name)
	if err != nil {
		return domindex.Index{}, fmt.Errorf("get index: %w", err)
	}
	return idx, nil
}

// List returns a tenant's indexes ordered by creation time.
func (s *Service) List(ctx context.Context, tenantID string) ([]domindex.Index, error) {
	if err := domindex.ValidateName("tenant id", tenantID); err != nil {
		return nil, fmt.Errorf("validate tenant: %w: %w", domain.ErrInvalidSchema, err)
	}
	idxs, err := s.repo.ListIndexes(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	return idxs, nil
}

// Delete removes an index with all its documents and stats.
func (s *Service) Delete(ctx context.Context, tenantID, name string) error {
	if err := s.repo.DeleteIndex(ctx, tenantID, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	for _, f := range s.forgetters {
		f.Forget(tenantID, name)
	}
	return nil
}
