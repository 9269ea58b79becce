package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domanalytics "github.com/kailas-cloud/searchkit/internal/domain/analytics"
)

func TestRecorder_Report(t *testing.T) {
	r := NewRecorder(0, 0)
	r.Record("T1", "products", domanalytics.Event{Query: "red shoe", Terms: []string{"red", "shoe"}, Hits: 2, Latency: 2 * time.Millisecond})
	r.Record("T1", "products", domanalytics.Event{Query: "shoe", Terms: []string{"shoe"}, Hits: 1, Latency: 4 * time.Millisecond})
	r.Record("T1", "products", domanalytics.Event{Query: "hat", Terms: []string{"hat"}, Hits: 0, Latency: 0})

	rep := r.Report("T1", "products", 2)
	assert.EqualValues(t, 3, rep.TotalQueries)
	assert.EqualValues(t, 1, rep.ZeroResultQueries)
	assert.InDelta(t, 2.0, rep.AvgLatencyMs, 0.001)
	require.Len(t, rep.TopTerms, 2)
	assert.Equal(t, domanalytics.TermCount{Term: "shoe", Count: 2}, rep.TopTerms[0])
	// ties broken alphabetically
	assert.Equal(t, domanalytics.TermCount{Term: "hat", Count: 1}, rep.TopTerms[1])
	assert.Equal(t, []string{"hat"}, rep.RecentZeroResults)
}

func TestRecorder_IsolatesIndexes(t *testing.T) {
	r := NewRecorder(0, 0)
	r.Record("T1", "a", domanalytics.Event{Terms: []string{"x"}, Hits: 1})

	rep := r.Report("T2", "a", 0)
	assert.Zero(t, rep.TotalQueries)
	assert.Empty(t, rep.TopTerms)
	assert.NotNil(t, rep.RecentZeroResults)
}

func TestRecorder_TermCapacity(t *testing.T) {
	r := NewRecorder(3, 0)
	for i := range 10 {
		r.Record("T1", "a", domanalytics.Event{Terms: []string{fmt.Sprintf("t%d", i)}, Hits: 1})
	}
	rep := r.Report("T1", "a", 0)
	assert.Len(t, rep.TopTerms, 3)
}

func TestRecorder_ZeroResultRing(t *testing.T) {
	r := NewRecorder(0, 2)
	for _, q := range []string{"a", "b", "c"} {
		r.Record("T1", "a", domanalytics.Event{Query: q})
	}
	rep := r.Report("T1", "a", 0)
	assert.Equal(t, []string{"c", "b"}, rep.RecentZeroResults)
	assert.EqualValues(t, 3, rep.ZeroResultQueries)
}

func TestRecorder_Forget(t *testing.T) {
	r := NewRecorder(0, 0)
	r.Record("T1", "a", domanalytics.Event{Query: "x"})
	r.Forget("T1", "a")
	assert.Zero(t, r.Report("T1", "a", 0).TotalQueries)
}

func TestRecorder_TermEvictionIsByRecency(t *testing.T) {
	r := NewRecorder(2, 0)
	for _, term := range []string{"shoe", "shoe", "shoe", "hat", "boot"} {
		r.Record("T1", "a", domanalytics.Event{Terms: []string{term}, Hits: 1})
	}

	rep := r.Report("T1", "a", 0)
	require.Len(t, rep.TopTerms, 2)
	// the most frequent term went stale and was evicted
	assert.ElementsMatch(t, []domanalytics.TermCount{
		{Term: "hat", Count: 1},
		{Term: "boot", Count: 1},
	}, rep.TopTerms)
}
