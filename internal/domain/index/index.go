package index

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxNameLength bounds index names and tenant IDs.
const MaxNameLength = 64

// Index is a named, tenant-scoped document collection (immutable value object).
type Index struct {
	id        string
	tenantID  string
	name      string
	createdBy string
	createdAt time.Time
	updatedAt time.Time
}

// ValidateName checks an index name or tenant ID: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", kind)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%s too long (max %d)", kind, MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%s must be alphanumeric with underscores and hyphens", kind)
	}
	return nil
}

// New validates and creates an Index with a generated ID and current timestamps.
func New(tenantID, name, createdBy string) (Index, error) {
	if err := ValidateName("tenant id", tenantID); err != nil {
		return Index{}, err
	}
	if err := ValidateName("index name", name); err != nil {
		return Index{}, err
	}
	if len(createdBy) > 256 {
		return Index{}, fmt.Errorf("created_by too long (max 256)")
	}

	now := time.Now().UTC()
	return Index{
		id:        uuid.New().String(),
		tenantID:  tenantID,
		name:      name,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates an Index without validation (storage hydration).
func Reconstruct(id, tenantID, name, createdBy string, createdAt, updatedAt time.Time) Index {
	return Index{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the generated index identifier.
func (i Index) ID() string { return i.id }

// TenantID returns the owning tenant.
func (i Index) TenantID() string { return i.tenantID }

// Name returns the index name, unique within the tenant.
func (i Index) Name() string { return i.name }

// CreatedBy returns the creator recorded at creation (may be empty).
func (i Index) CreatedBy() string { return i.createdBy }

// CreatedAt returns the creation time (UTC).
func (i Index) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last settings update time (UTC).
func (i Index) UpdatedAt() time.Time { return i.updatedAt }
