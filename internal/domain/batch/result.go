package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Item is one document in a bulk upsert.
type Item struct {
	ID    string
	Data  map[string]any
	Boost float64
}

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id      string
	status  ItemStatus
	created bool
	err     error
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewIndexed creates a successful upsert result; created is false when an
// existing document was replaced.
func NewIndexed(id string, created bool) Result {
	return Result{id: id, status: StatusOK, created: created}
}

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Created reports whether an upsert inserted a new document.
func (r Result) Created() bool { return r.created }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
