package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// MaxConditions is the maximum number of equality conditions per query.
const MaxConditions = 32

// Condition is a single exact-equality clause on a top-level document field.
type Condition struct {
	field string
	match value.Value
}

// Field returns the document field name.
func (c Condition) Field() string { return c.field }

// Match returns the value the field must equal.
func (c Condition) Match() value.Value { return c.match }

// Set is a conjunction of equality conditions, ordered by field name.
type Set struct {
	conditions []Condition
}

// New validates and creates a Set from a field -> value map.
func New(m map[string]value.Value) (Set, error) {
	if len(m) > MaxConditions {
		return Set{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	conds := make([]Condition, 0, len(m))
	for field, v := range m {
		if strings.TrimSpace(field) == "" {
			return Set{}, fmt.Errorf("filter field name is required")
		}
		conds = append(conds, Condition{field: field, match: v})
	}
	slices.SortFunc(conds, func(a, b Condition) int { return strings.Compare(a.field, b.field) })
	return Set{conditions: conds}, nil
}

// Conditions returns the clauses ordered by field.
func (s Set) Conditions() []Condition { return s.conditions }

// IsEmpty reports whether the set has no conditions.
func (s Set) IsEmpty() bool { return len(s.conditions) == 0 }

// Matches reports whether every condition equals the corresponding field.
// A missing field never matches.
func (s Set) Matches(data map[string]value.Value) bool {
	for _, c := range s.conditions {
		v, ok := data[c.field]
		if !ok || !v.Equal(c.match) {
			return false
		}
	}
	return true
}

// AsMap returns the conditions as a field -> value map.
func (s Set) AsMap() map[string]value.Value {
	m := make(map[string]value.Value, len(s.conditions))
	for _, c := range s.conditions {
		m[c.field] = c.match
	}
	return m
}
