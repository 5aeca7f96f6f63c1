package warehouse

import (
	"context"

	"inventa/internal/core/id"
	"inventa/internal/domain"
)

// Stats aggregates warehouse counts for the tenant scope.
type Stats struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByType   map[string]int64 `json:"byType"`
}

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.Repository[*Warehouse]

	// Stats aggregates counts by type and active flag over the tenant's
	// non-deleted warehouses.
	Stats(ctx context.Context) (Stats, error)
}

// LocationRepository defines the interface for Location persistence.
// All methods are tenant-scoped like the catalog repositories.
type LocationRepository interface {
	domain.Repository[*Location]

	// CodeExists checks if another location with the given code exists
	// within one warehouse. excludeID skips a record.
	CodeExists(ctx context.Context, warehouseID id.ID, code string, excludeID id.ID) (bool, error)

	// ListByWarehouse returns all non-deleted locations of a warehouse
	// ordered by path.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error)

	// ListByPathPrefix returns locations whose path starts with the given
	// prefix (the subtree of a location), excluding the prefix row itself.
	ListByPathPrefix(ctx context.Context, warehouseID id.ID, pathPrefix string) ([]*Location, error)

	// UpdatePaths rewrites materialized paths in bulk after a move.
	UpdatePaths(ctx context.Context, updates map[id.ID]string) error
}
