package item

import (
	"context"

	"inventa/internal/core/id"
	"inventa/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.Repository[*Item]

	// SKUExists checks if another item with the given SKU exists in the
	// tenant scope. excludeID skips a record (pass id.Nil() when creating).
	SKUExists(ctx context.Context, sku string, excludeID id.ID) (bool, error)

	// GetBySKU retrieves item by SKU within tenant scope.
	GetBySKU(ctx context.Context, sku string) (*Item, error)
}
