package suggest

import "testing"

func TestNewRequest_Defaults(t *testing.T) {
	r, err := NewRequest("T1", "products", "title", "re", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Size() != DefaultSize {
		t.Errorf("Size() = %d, want %d", r.Size(), DefaultSize)
	}
	if r.Field() != "title" || r.Prefix() != "re" {
		t.Errorf("unexpected request: %+v", r)
	}
}

func TestNewRequest_Clamp(t *testing.T) {
	r, err := NewRequest("T1", "products", "title", "", MaxSize*2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Size() != MaxSize {
		t.Errorf("Size() = %d, want %d", r.Size(), MaxSize)
	}
}

func TestNewRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		size  int
	}{
		{"blank field", " ", 5},
		{"negative size", "title", -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRequest("T1", "products", tc.field, "a", tc.size); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
