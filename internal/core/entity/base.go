// Package entity provides base types for all domain entities.
package entity

import (
	"context"
	"time"

	"inventa/internal/core/id"
	"inventa/internal/core/tenant"
)

// Validatable is implemented by entities that check their own invariants.
// Validate must not touch the database; cross-record checks live in the
// services. A failed check returns an AppError with field details.
type Validatable interface {
	Validate(ctx context.Context) error
}

// TenantScoped is implemented by entities carrying the scoping column pair.
// Repositories force these fields from the request context on create, so a
// caller can never write a row into another tenant's scope.
type TenantScoped interface {
	SetScope(tc tenant.Context)
	Scope() tenant.Context
}

// BaseEntity holds the columns shared by every persisted row: a UUIDv7
// primary key, the tenant_id/stage_id scoping pair, the soft-delete mark,
// the optimistic-lock version and audit timestamps. Attributes maps to a
// JSONB column for schemaless custom fields.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	TenantID string `db:"tenant_id" json:"tenantId"`
	StageID  string `db:"stage_id" json:"stageId"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	Version int `db:"version" json:"version"`

	Attributes Attributes `db:"attributes" json:"attributes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity returns a BaseEntity with a fresh id, version 1 and both
// timestamps set to now. The tenant scope is filled later by the repository.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetScope implements TenantScoped.
func (b *BaseEntity) SetScope(tc tenant.Context) {
	b.TenantID = tc.TenantID
	b.StageID = tc.StageID
}

// Scope implements TenantScoped.
func (b *BaseEntity) Scope() tenant.Context {
	return tenant.Context{TenantID: b.TenantID, StageID: b.StageID}
}

// Touch bumps UpdatedAt and the optimistic-lock version.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// MarkDeleted sets the soft-delete mark.
func (b *BaseEntity) MarkDeleted() {
	b.DeletionMark = true
}

// Undelete clears the soft-delete mark.
func (b *BaseEntity) Undelete() {
	b.DeletionMark = false
}

// SetVersion overwrites the version, used by repositories after a write
// round-trips the stored value.
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// SetAttribute stores one custom field, allocating the map on first use.
func (b *BaseEntity) SetAttribute(key string, value any) {
	if b.Attributes == nil {
		b.Attributes = make(Attributes)
	}
	b.Attributes[key] = value
}

// GetAttribute reads one custom field, nil when unset.
func (b *BaseEntity) GetAttribute(key string) any {
	if b.Attributes == nil {
		return nil
	}
	return b.Attributes[key]
}
