package stats

import (
	"testing"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain/document"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

func doc(t *testing.T, id string, fields ...string) *document.Document {
	t.Helper()
	data := make(map[string]value.Value, len(fields))
	for _, f := range fields {
		data[f] = value.String("x")
	}
	d, err := document.New("T1", "products", id, data, 1)
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return &d
}

func TestRecordIndexing_Insert(t *testing.T) {
	now := time.Now()
	s := New(now)
	d := doc(t, "1", "title", "category")

	s.RecordIndexing(nil, d, 2*time.Millisecond, now)

	if s.DocumentCount != 1 || s.IndexingTotal != 1 {
		t.Errorf("counts = %d/%d", s.DocumentCount, s.IndexingTotal)
	}
	if s.IndexingTimeMs != 2 {
		t.Errorf("IndexingTimeMs = %v", s.IndexingTimeMs)
	}
	if s.StoreSizeBytes != int64(d.SizeBytes()) {
		t.Errorf("StoreSizeBytes = %d, want %d", s.StoreSizeBytes, d.SizeBytes())
	}
	if s.FieldStats["title"] != 1 || s.FieldStats["category"] != 1 {
		t.Errorf("FieldStats = %v", s.FieldStats)
	}
}

func TestRecordIndexing_Replace(t *testing.T) {
	now := time.Now()
	s := New(now)
	old := doc(t, "1", "title", "category")
	s.RecordIndexing(nil, old, 0, now)

	replacement := doc(t, "1", "title", "price")
	s.RecordIndexing(old, replacement, 0, now)

	if s.DocumentCount != 1 {
		t.Errorf("DocumentCount = %d, want 1", s.DocumentCount)
	}
	if s.IndexingTotal != 2 {
		t.Errorf("IndexingTotal = %d, want 2", s.IndexingTotal)
	}
	if _, ok := s.FieldStats["category"]; ok {
		t.Errorf("category should be gone: %v", s.FieldStats)
	}
	if s.FieldStats["title"] != 1 || s.FieldStats["price"] != 1 {
		t.Errorf("FieldStats = %v", s.FieldStats)
	}
	if s.StoreSizeBytes != int64(old.SizeBytes()+replacement.SizeBytes()) {
		t.Errorf("StoreSizeBytes must only grow, got %d", s.StoreSizeBytes)
	}
}

func TestRecordDelete(t *testing.T) {
	now := time.Now()
	s := New(now)
	d := doc(t, "1", "title")
	s.RecordIndexing(nil, d, 0, now)
	s.RecordDelete(d, now)

	if s.DocumentCount != 0 || s.DeletedDocumentCount != 1 {
		t.Errorf("counts = %d/%d", s.DocumentCount, s.DeletedDocumentCount)
	}
	if len(s.FieldStats) != 0 {
		t.Errorf("FieldStats = %v", s.FieldStats)
	}
}

func TestRecordQuery(t *testing.T) {
	s := New(time.Now())
	s.RecordQuery(10 * time.Millisecond)
	s.RecordQuery(20 * time.Millisecond)

	if s.QueryTotal != 2 {
		t.Errorf("QueryTotal = %d", s.QueryTotal)
	}
	if s.AvgQueryTimeMs != 15 {
		t.Errorf("AvgQueryTimeMs = %v, want 15", s.AvgQueryTimeMs)
	}
}

func TestSnapshot(t *testing.T) {
	created := time.Now()
	s := New(created)
	s.RecordQuery(time.Millisecond)
	s.RecordQuery(time.Millisecond)

	snap := s.Snapshot(created.Add(4 * time.Second))
	if snap.QueriesPerSecond != 0.5 {
		t.Errorf("QueriesPerSecond = %v, want 0.5", snap.QueriesPerSecond)
	}

	snap.FieldStats["injected"] = 1
	if _, ok := s.FieldStats["injected"]; ok {
		t.Error("snapshot must not share FieldStats")
	}
}

func TestMillis(t *testing.T) {
	if got := Millis(1500 * time.Microsecond); got != 1.5 {
		t.Errorf("Millis = %v, want 1.5", got)
	}
}

func TestTotals_AvgQueryTimeMs(t *testing.T) {
	if got := (Totals{}).AvgQueryTimeMs(); got != 0 {
		t.Errorf("empty avg = %v", got)
	}
	if got := (Totals{QueryTotal: 4, QueryTimeMs: 10}).AvgQueryTimeMs(); got != 2.5 {
		t.Errorf("avg = %v, want 2.5", got)
	}
}
