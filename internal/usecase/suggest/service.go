package suggest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain/stats"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
)

// Service produces autocomplete suggestions from indexed field values.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a suggest service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Suggest returns distinct values and words of req.Field that start with
// req.Prefix (case-insensitive), sorted and truncated to req.Size.
// Whole values keep their original casing; words are lowercased.
//
// This is a linear scan: O(documents x average field length) per call.
func (s *Service) Suggest(ctx context.Context, req domsuggest.Request) (domsuggest.Response, error) {
	start := s.now()

	docs, _, err := s.repo.Snapshot(ctx, req.TenantID(), req.IndexName())
	if err != nil {
		return domsuggest.Response{}, fmt.Errorf("snapshot index: %w", err)
	}

	prefix := strings.ToLower(req.Prefix())
	seen := make(map[string]struct{})
	for i := range docs {
		v, ok := docs[i].Field(req.Field())
		if !ok || v.IsNull() {
			continue
		}
		text, isString := v.AsString()
		if !isString {
			text = v.Text()
		}
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, prefix) {
			seen[text] = struct{}{}
		}
		for _, word := range strings.Fields(lower) {
			if strings.HasPrefix(word, prefix) {
				seen[word] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	if len(out) > req.Size() {
		out = out[:req.Size()]
	}

	return domsuggest.Response{Suggestions: out, TookMs: stats.Millis(s.now().Sub(start))}, nil
}
