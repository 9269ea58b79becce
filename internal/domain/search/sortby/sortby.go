package sortby

import (
	"fmt"
	"strings"
)

// Order is the sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ScoreField names the computed relevance score in a sort spec.
const ScoreField = "_score"

// Field is a single sort key.
type Field struct {
	name  string
	order Order
}

// New validates and creates a sort key. An empty order means asc, except for
// _score which defaults to desc.
func New(name string, order Order) (Field, error) {
	if strings.TrimSpace(name) == "" {
		return Field{}, fmt.Errorf("sort field name is required")
	}
	if order == "" {
		order = Asc
		if name == ScoreField {
			order = Desc
		}
	}
	if order != Asc && order != Desc {
		return Field{}, fmt.Errorf("invalid sort order %q for %q", order, name)
	}
	return Field{name: name, order: order}, nil
}

// Parse reads "field", "field:asc", "field:desc" or "-field".
func Parse(s string) (Field, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return New(s[1:], Desc)
	}
	name, order, _ := strings.Cut(s, ":")
	return New(name, Order(strings.ToLower(order)))
}

// Name returns the document field (or ScoreField).
func (f Field) Name() string { return f.name }

// Order returns the direction.
func (f Field) Order() Order { return f.order }

// IsScore reports whether the key sorts by relevance score.
func (f Field) IsScore() bool { return f.name == ScoreField }

// Descending reports whether the order is desc.
func (f Field) Descending() bool { return f.order == Desc }

// String renders the key as "field:order".
func (f Field) String() string { return f.name + ":" + string(f.order) }
