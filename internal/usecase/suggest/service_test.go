package suggest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/searchkit/internal/domain"
	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// --- Mocks ---

type mockRepo struct {
	docs []domdoc.Document
	err  error
}

func (m *mockRepo) Snapshot(_ context.Context, _, _ string) ([]domdoc.Document, uint64, error) {
	return m.docs, 1, m.err
}

func mkDoc(t *testing.T, id string, data map[string]any) domdoc.Document {
	t.Helper()
	fields, err := value.FromMap(data)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	d, err := domdoc.New("T1", "products", id, fields, 1)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return d
}

func mkReq(t *testing.T, field, prefix string, size int) domsuggest.Request {
	t.Helper()
	r, err := domsuggest.NewRequest("T1", "products", field, prefix, size)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return r
}

// --- Tests ---

func TestSuggest_ValuesAndWords(t *testing.T) {
	repo := &mockRepo{docs: []domdoc.Document{
		mkDoc(t, "1", map[string]any{"title": "Red Running Shoe"}),
		mkDoc(t, "2", map[string]any{"title": "Running Jacket"}),
		mkDoc(t, "3", map[string]any{"title": "Blue Shoe"}),
		mkDoc(t, "4", map[string]any{"category": "running"}),
	}}
	svc := New(repo)

	resp, err := svc.Suggest(context.Background(), mkReq(t, "title", "ru", 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Running Jacket", "running"}
	if fmt.Sprint(resp.Suggestions) != fmt.Sprint(want) {
		t.Errorf("Suggestions = %q, want %q", resp.Suggestions, want)
	}
}

func TestSuggest_CaseInsensitivePrefix(t *testing.T) {
	repo := &mockRepo{docs: []domdoc.Document{
		mkDoc(t, "1", map[string]any{"title": "Blue Shoe"}),
	}}
	resp, err := New(repo).Suggest(context.Background(), mkReq(t, "title", "BL", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Blue Shoe", "blue"}
	if fmt.Sprint(resp.Suggestions) != fmt.Sprint(want) {
		t.Errorf("Suggestions = %q, want %q", resp.Suggestions, want)
	}
}

func TestSuggest_DedupeSortTruncate(t *testing.T) {
	repo := &mockRepo{}
	for i, w := range []string{"delta", "alpha", "charlie", "alpha", "bravo"} {
		repo.docs = append(repo.docs, mkDoc(t, fmt.Sprint(i), map[string]any{"tag": w}))
	}
	resp, err := New(repo).Suggest(context.Background(), mkReq(t, "tag", "", 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if fmt.Sprint(resp.Suggestions) != fmt.Sprint(want) {
		t.Errorf("Suggestions = %q, want %q", resp.Suggestions, want)
	}
}

func TestSuggest_NonStringValues(t *testing.T) {
	repo := &mockRepo{docs: []domdoc.Document{
		mkDoc(t, "1", map[string]any{"year": 2024}),
		mkDoc(t, "2", map[string]any{"year": 1999}),
	}}
	resp, err := New(repo).Suggest(context.Background(), mkReq(t, "year", "20", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(resp.Suggestions) != "[2024]" {
		t.Errorf("Suggestions = %q", resp.Suggestions)
	}
}

func TestSuggest_NoMatchesIsEmptyNotNil(t *testing.T) {
	resp, err := New(&mockRepo{}).Suggest(context.Background(), mkReq(t, "title", "zz", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
		t.Errorf("Suggestions = %#v", resp.Suggestions)
	}
}

func TestSuggest_IndexNotFound(t *testing.T) {
	repo := &mockRepo{err: fmt.Errorf("index: %w", domain.ErrNotFound)}
	_, err := New(repo).Suggest(context.Background(), mkReq(t, "title", "a", 5))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
