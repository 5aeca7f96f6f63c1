package warehouse

import (
	"context"
	"strings"

	"inventa/internal/core/apperror"
	"inventa/internal/core/entity"
	"inventa/internal/core/id"
)

// PathSeparator joins location codes into a materialized path.
const PathSeparator = "/"

// Location is a storage bin/zone inside a warehouse. Locations form a tree
// via ParentID; Path is the slash-joined chain of codes from root to self,
// recomputed by the service whenever the code or parent changes.
type Location struct {
	entity.Catalog

	// WarehouseID is the owning warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// ParentID is the parent location (nil for root locations)
	ParentID *id.ID `db:"parent_id" json:"parentLocationId,omitempty"`

	// Path is the materialized path, e.g. "A/A1/A1-03". Derived, never
	// set by callers directly.
	Path string `db:"path" json:"path"`
}

// NewLocation creates a new root-level Location.
func NewLocation(warehouseID id.ID, code, name string) *Location {
	return &Location{
		Catalog:     entity.NewCatalog(code, name),
		WarehouseID: warehouseID,
		Path:        code,
	}
}

// Validate implements entity.Validatable interface.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(l.WarehouseID) {
		return apperror.NewValidation("warehouseId is required").
			WithDetail("field", "warehouseId")
	}

	if l.Code == "" {
		return apperror.NewValidation("location code is required").
			WithDetail("field", "code")
	}

	if strings.Contains(l.Code, PathSeparator) {
		return apperror.NewValidation("location code must not contain a path separator").
			WithDetail("field", "code").
			WithDetail("value", l.Code)
	}

	if l.ParentID != nil && *l.ParentID == l.ID {
		return apperror.NewValidation("location cannot be its own parent").
			WithDetail("field", "parentLocationId")
	}

	return nil
}

// Depth returns the nesting level (root = 1).
func (l *Location) Depth() int {
	if l.Path == "" {
		return 0
	}
	return strings.Count(l.Path, PathSeparator) + 1
}

// IsRoot returns true for top-level locations.
func (l *Location) IsRoot() bool {
	return l.ParentID == nil
}
