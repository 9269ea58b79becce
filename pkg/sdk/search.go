package searchkit

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain"
	"github.com/kailas-cloud/searchkit/internal/domain/search/filter"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/search/sortby"
	domsuggest "github.com/kailas-cloud/searchkit/internal/domain/suggest"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// SearchService runs queries against a single index.
type SearchService struct {
	tenant     string
	index      string
	svc        searchUseCase
	suggestSvc suggestUseCase
	obs        *observer
}

// Query runs a keyword search. Filters use exact equality: a list value
// matches only a field holding an identical list.
func (s *SearchService) Query(ctx context.Context, req SearchRequest) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.query", s.scope(), start, err) }()

	q, err := toInternalQuery(s.tenant, s.index, req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	resp, err := s.svc.Search(ctx, &q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalResponse(resp), nil
}

// Suggest returns up to size distinct values of field that start with
// prefix, or contain a word that does. size zero uses the default.
func (s *SearchService) Suggest(ctx context.Context, field, prefix string, size int) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.suggest", s.scope(), start, err) }()

	req, err := domsuggest.NewRequest(s.tenant, s.index, field, prefix, size)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w: %w", domain.ErrInvalidSchema, err)
	}
	resp, err := s.suggestSvc.Suggest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return resp.Suggestions, nil
}

func (s *SearchService) scope() scope { return scope{s.tenant, s.index} }

func toInternalQuery(tenantID, indexName string, req SearchRequest) (request.Query, error) {
	raw, err := value.FromMap(req.Filters)
	if err != nil {
		return request.Query{}, fmt.Errorf("%w: filters: %w", domain.ErrInvalidSchema, err)
	}
	filters, err := filter.New(raw)
	if err != nil {
		return request.Query{}, fmt.Errorf("%w: filters: %w", domain.ErrInvalidSchema, err)
	}

	sort := make([]sortby.Field, 0, len(req.Sort))
	for _, key := range req.Sort {
		f, err := sortby.Parse(key)
		if err != nil {
			return request.Query{}, fmt.Errorf("%w: sort: %w", domain.ErrInvalidSchema, err)
		}
		sort = append(sort, f)
	}

	q, err := request.New(tenantID, indexName, req.Query, filters, req.Facets, req.FacetSize, sort, req.From, req.Size)
	if err != nil {
		return request.Query{}, fmt.Errorf("build query: %w: %w", domain.ErrInvalidSchema, err)
	}
	return q, nil
}

func fromInternalResponse(resp result.Response) SearchResult {
	hits := make([]SearchHit, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = SearchHit{
			ID:        h.ID,
			Score:     h.Score,
			Source:    value.ToMap(h.Source),
			Highlight: h.Highlight,
		}
	}

	facets := make([]Facet, len(resp.Facets))
	for i, f := range resp.Facets {
		values := make([]FacetValue, len(f.Values))
		for j, v := range f.Values {
			values[j] = FacetValue{Value: v.Value, Count: v.Count}
		}
		facets[i] = Facet{Field: f.Field, Values: values, Missing: f.Missing}
	}

	return SearchResult{
		Hits:        hits,
		TotalHits:   resp.TotalHits,
		MaxScore:    resp.MaxScore,
		Facets:      facets,
		Took:        time.Duration(resp.TookMs * float64(time.Millisecond)),
		TimedOut:    resp.TimedOut,
		From:        resp.From,
		Size:        resp.Size,
		Suggestions: resp.Suggestions,
	}
}
