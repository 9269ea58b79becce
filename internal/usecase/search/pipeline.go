package search

import (
	"cmp"
	"context"
	"slices"
	"strings"

	domdoc "github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/search/request"
	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/search/sortby"
)

// Scoring constants.
const (
	titleField  = "title"
	titleWeight = 2.0
	minScore    = 0.1
	emptyScore  = 1.0
	// deadlineCheckEvery is how many documents are scored between ctx checks.
	deadlineCheckEvery = 256
)

type scored struct {
	doc       *domdoc.Document
	score     float64
	highlight map[string]string
}

// evaluation is the filtered and scored candidate set before pagination.
type evaluation struct {
	matched  []scored
	termSeen map[string]bool
	timedOut bool
}

// evaluate filters and scores docs. When ctx expires mid-scan it stops and
// marks the evaluation as timed out; the documents scored so far are kept.
func evaluate(ctx context.Context, docs []domdoc.Document, q *request.Query) evaluation {
	terms := q.Terms()
	filters := q.Filters()
	ev := evaluation{
		matched:  make([]scored, 0, len(docs)),
		termSeen: make(map[string]bool, len(terms)),
	}

	for i := range docs {
		if i%deadlineCheckEvery == 0 && ctx.Err() != nil {
			ev.timedOut = true
			break
		}
		doc := &docs[i]
		if !filters.Matches(doc.Data()) {
			continue
		}
		if len(terms) == 0 {
			ev.matched = append(ev.matched, scored{doc: doc, score: emptyScore})
			continue
		}
		score, highlight := scoreDocument(doc, terms, ev.termSeen)
		if score == 0 {
			continue
		}
		ev.matched = append(ev.matched, scored{doc: doc, score: max(score, minScore), highlight: highlight})
	}
	return ev
}

// scoreDocument sums non-overlapping occurrences of each term in every
// top-level string field, weights title x2 and multiplies by the document
// boost. seen collects the terms found.
func scoreDocument(doc *domdoc.Document, terms []string, seen map[string]bool) (float64, map[string]string) {
	var total float64
	var highlight map[string]string
	for field, v := range doc.Data() {
		s, ok := v.AsString()
		if !ok {
			continue
		}
		lower := strings.ToLower(s)
		var fieldScore float64
		for _, term := range terms {
			if n := strings.Count(lower, term); n > 0 {
				fieldScore += float64(n)
				seen[term] = true
			}
		}
		if fieldScore == 0 {
			continue
		}
		if field == titleField {
			fieldScore *= titleWeight
		}
		total += fieldScore
		if highlight == nil {
			highlight = make(map[string]string)
		}
		highlight[field] = s
	}
	return total * doc.Boost(), highlight
}

// sortMatched orders by the requested keys, or by score desc when none are
// given. Documents missing a sort field go last regardless of direction.
// Ties fall back to score desc, then id asc.
func sortMatched(matched []scored, keys []sortby.Field) {
	slices.SortFunc(matched, func(a, b scored) int {
		for _, k := range keys {
			if c := compareByKey(a, b, k); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(a.doc.ID(), b.doc.ID())
	})
}

func compareByKey(a, b scored, k sortby.Field) int {
	var c int
	if k.IsScore() {
		c = cmp.Compare(a.score, b.score)
	} else {
		av, aok := a.doc.Field(k.Name())
		bv, bok := b.doc.Field(k.Name())
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c = av.Compare(bv)
	}
	if k.Descending() {
		return -c
	}
	return c
}

// paginate returns the [from, from+size) window as hits.
func paginate(matched []scored, from, size int) []result.Hit {
	if from >= len(matched) {
		return []result.Hit{}
	}
	end := min(from+size, len(matched))
	hits := make([]result.Hit, 0, end-from)
	for _, m := range matched[from:end] {
		hits = append(hits, result.Hit{
			ID:        m.doc.ID(),
			Score:     m.score,
			Source:    m.doc.Data(),
			Highlight: m.highlight,
		})
	}
	return hits
}

func maxScore(hits []result.Hit) float64 {
	var best float64
	for i, h := range hits {
		if i == 0 || h.Score > best {
			best = h.Score
		}
	}
	return best
}

// computeFacets tallies the text form of each facet field over matched.
// Buckets are ordered by count desc, then value asc, and truncated to size.
func computeFacets(matched []scored, fields []string, size int) []result.Facet {
	facets := make([]result.Facet, 0, len(fields))
	for _, field := range fields {
		counts := make(map[string]int)
		missing := 0
		for _, m := range matched {
			v, ok := m.doc.Field(field)
			if !ok {
				missing++
				continue
			}
			counts[v.Text()]++
		}

		values := make([]result.FacetValue, 0, len(counts))
		for val, n := range counts {
			values = append(values, result.FacetValue{Value: val, Count: n})
		}
		slices.SortFunc(values, func(a, b result.FacetValue) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return strings.Compare(a.Value, b.Value)
		})
		if len(values) > size {
			values = values[:size]
		}
		facets = append(facets, result.Facet{Field: field, Values: values, Missing: missing})
	}
	return facets
}

// unmatchedTerms maps every query term that appeared in no filtered document
// to an empty alternatives list.
func unmatchedTerms(terms []string, seen map[string]bool) map[string][]string {
	out := make(map[string][]string)
	for _, t := range terms {
		if !seen[t] {
			out[t] = []string{}
		}
	}
	return out
}
