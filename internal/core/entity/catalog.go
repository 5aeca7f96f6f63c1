package entity

import (
	"context"

	"inventa/internal/core/apperror"
)

// Catalog is the base type for reference data such as items, warehouses
// and locations. IsActive is a business flag, separate from the soft-delete
// mark: inactive records stay readable but are excluded from operational
// use.
type Catalog struct {
	BaseEntity

	// Code is unique within the tenant scope. It may be empty at
	// construction; services assign one from a number sequence before save.
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewCatalog returns an active Catalog with a fresh identifier.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		IsActive:   true,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
