package analytics

// ring keeps the most recent items up to a fixed capacity. Not safe for
// concurrent use; Recorder serializes access.
type ring[T any] struct {
	items []T
	head  int
	size  int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = DefaultZeroResultsCapacity
	}
	return &ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) add(item T) {
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
	if r.size < len(r.items) {
		r.size++
	}
}

// newestFirst returns the buffered items, most recent first.
func (r *ring[T]) newestFirst() []T {
	out := make([]T, 0, r.size)
	for i := 1; i <= r.size; i++ {
		out = append(out, r.items[(r.head-i+len(r.items))%len(r.items)])
	}
	return out
}
