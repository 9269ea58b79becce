package document

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)
	reservedIDs = map[string]bool{"batch": true, "batch-delete": true}
)

// Limits on caller-supplied documents.
const (
	MaxIDLength  = 256
	MaxFields    = 1024
	DefaultBoost = 1.0
)

// Document is an indexed record (immutable value object).
// Upserts replace the whole Document; nothing mutates it in place.
type Document struct {
	id        string
	tenantID  string
	indexName string
	data      map[string]value.Value
	boost     float64
	createdAt time.Time
	updatedAt time.Time
}

// ValidateID checks a document ID: ^[a-zA-Z0-9_.:-]+$, 1-256 chars, not reserved.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("document ID is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("document ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("document ID must be alphanumeric with underscores, dots, colons and hyphens")
	}
	if reservedIDs[id] {
		return fmt.Errorf("document ID %q is reserved", id)
	}
	return nil
}

// New validates and creates a Document stamped with the current time.
// A zero boost defaults to 1.0; negative or non-finite boosts are rejected.
func New(tenantID, indexName, id string, data map[string]value.Value, boost float64) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if len(data) > MaxFields {
		return Document{}, fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	if math.IsNaN(boost) || math.IsInf(boost, 0) || boost < 0 {
		return Document{}, fmt.Errorf("boost must be a finite non-negative number, got %v", boost)
	}
	if boost == 0 {
		boost = DefaultBoost
	}

	now := time.Now().UTC()
	return Document{
		id:        id,
		tenantID:  tenantID,
		indexName: indexName,
		data:      cloneData(data),
		boost:     boost,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, tenantID, indexName string, data map[string]value.Value,
	boost float64, createdAt, updatedAt time.Time,
) Document {
	return Document{
		id: id, tenantID: tenantID, indexName: indexName, data: data,
		boost: boost, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the caller-supplied identifier, unique within the index.
func (d *Document) ID() string { return d.id }

// TenantID returns the owning tenant.
func (d *Document) TenantID() string { return d.tenantID }

// IndexName returns the owning index.
func (d *Document) IndexName() string { return d.indexName }

// Data returns the field map. Callers must not modify it.
func (d *Document) Data() map[string]value.Value { return d.data }

// Field looks up a single field.
func (d *Document) Field(name string) (value.Value, bool) {
	v, ok := d.data[name]
	return v, ok
}

// Boost returns the relevance multiplier.
func (d *Document) Boost() float64 { return d.boost }

// CreatedAt returns the first-insert time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last upsert time.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// SizeBytes approximates the stored size as the length of the rendered field map.
func (d *Document) SizeBytes() int { return len(value.MapText(d.data)) }

// WithCreatedAt returns a copy carrying an earlier creation time (upsert of an existing ID).
func (d *Document) WithCreatedAt(t time.Time) Document {
	c := *d
	c.createdAt = t
	return c
}

func cloneData(m map[string]value.Value) map[string]value.Value {
	c := make(map[string]value.Value, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
