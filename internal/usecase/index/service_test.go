package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domindex "github.com/kailas-cloud/searchkit/internal/domain/index"
)

// --- Mocks ---

type mockRepo struct {
	created      domindex.Index
	maxPerTenant int
	getResult    domindex.Index
	listResult   []domindex.Index
	createErr    error
	getErr       error
	listErr      error
	deleteErr    error
}

func (m *mockRepo) CreateIndex(_ context.Context, idx domindex.Index, maxPerTenant int) error {
	m.created = idx
	m.maxPerTenant = maxPerTenant
	return m.createErr
}

func (m *mockRepo) GetIndex(_ context.Context, _, _ string) (domindex.Index, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) ListIndexes(_ context.Context, _ string) ([]domindex.Index, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) DeleteIndex(_ context.Context, _, _ string) error {
	return m.deleteErr
}

type mockForgetter struct {
	forgotten []string
}

func (m *mockForgetter) Forget(tenantID, indexName string) {
	m.forgotten = append(m.forgotten, tenantID+"/"+indexName)
}

// --- Tests ---

func TestCreate_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, 100)

	idx, err := svc.Create(context.Background(), "T1", "products", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name() != "products" || idx.TenantID() != "T1" || idx.CreatedBy() != "alice" {
		t.Errorf("unexpected index: %+v", idx)
	}
	if repo.created.ID() != idx.ID() {
		t.Error("repository must receive the created index")
	}
	if repo.maxPerTenant != 100 {
		t.Errorf("expected quota 100 passed to repo, got %d", repo.maxPerTenant)
	}
}

func TestCreate_InvalidName(t *testing.T) {
	svc := New(&mockRepo{}, 0)
	for _, name := range []string{"", "has space", "dots.not.allowed"} {
		_, err := svc.Create(context.Background(), "T1", name, "")
		if !errors.Is(err, domain.ErrInvalidSchema) {
			t.Errorf("name %q: expected ErrInvalidSchema, got %v", name, err)
		}
	}
}

func TestCreate_RepoErrors(t *testing.T) {
	for _, sentinel := range []error{domain.ErrAlreadyExists, domain.ErrQuotaExceeded} {
		svc := New(&mockRepo{createErr: sentinel}, 1)
		_, err := svc.Create(context.Background(), "T1", "products", "")
		if !errors.Is(err, sentinel) {
			t.Errorf("expected %v, got %v", sentinel, err)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{getErr: domain.ErrNotFound}, 0)
	_, err := svc.Get(context.Background(), "T1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	now := time.Now()
	repo := &mockRepo{listResult: []domindex.Index{
		domindex.Reconstruct("1", "T1", "a", "", now, now),
		domindex.Reconstruct("2", "T1", "b", "", now, now),
	}}
	svc := New(repo, 0)

	idxs, err := svc.List(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idxs) != 2 {
		t.Errorf("expected 2 indexes, got %d", len(idxs))
	}
}

func TestList_InvalidTenant(t *testing.T) {
	svc := New(&mockRepo{}, 0)
	_, err := svc.List(context.Background(), "bad tenant")
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestDelete_ForgetsState(t *testing.T) {
	f := &mockForgetter{}
	svc := New(&mockRepo{}, 0).WithForgetter(f)

	if err := svc.Delete(context.Background(), "T1", "products"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.forgotten) != 1 || f.forgotten[0] != "T1/products" {
		t.Errorf("unexpected forgotten: %v", f.forgotten)
	}
}

func TestDelete_NotFoundKeepsState(t *testing.T) {
	f := &mockForgetter{}
	svc := New(&mockRepo{deleteErr: domain.ErrNotFound}, 0).WithForgetter(f)

	err := svc.Delete(context.Background(), "T1", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(f.forgotten) != 0 {
		t.Error("forgetter must not run on failed delete")
	}
}
