// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"inventa/internal/core/entity"
	"inventa/internal/core/id"
	"inventa/internal/domain/filter"
)

// ListFilter carries the common list parameters. Zero value means no
// filtering and no pagination cap; handlers start from DefaultListFilter.
type ListFilter struct {
	// Search matches case-insensitively against the searchable columns.
	Search string

	IDs []id.ID

	// IncludeDeleted also returns records whose deletion mark is set.
	IncludeDeleted bool

	// IsActive filters on the business flag when non-nil.
	IsActive *bool

	// AdvancedFilters holds per-field conditions from the "filter" query
	// parameter.
	AdvancedFilters []filter.Item

	// OrderBy names a column, "-" prefix for descending.
	OrderBy string

	Limit  int
	Offset int
}

func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult is one page of a list plus the unpaginated total.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// HasMore reports whether records exist past this page.
func (r ListResult[T]) HasMore() bool {
	return int64(r.Offset+len(r.Items)) < r.TotalCount
}

// Repository is the tenant-scoped persistence contract for catalog
// entities. Implementations must restrict every read and write to the
// tenant scope carried in the context. Delete is a soft delete; physical
// removal is not part of the contract. ExistsByCode takes an excludeID so
// updates can skip the record being saved (pass id.Nil on create).
type Repository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id id.ID) error
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error)
}

// HookEvent names a lifecycle point in EntityService.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook runs at a lifecycle point. Before-hooks may mutate the entity or
// veto the operation by returning an error; after-hooks see it persisted.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry keeps lifecycle hooks per event, run in registration order.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the given event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes the event's hooks in order, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) { r.On(BeforeCreate, hook) }
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T])  { r.On(AfterCreate, hook) }
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) { r.On(BeforeUpdate, hook) }
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T])  { r.On(AfterUpdate, hook) }
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) { r.On(BeforeDelete, hook) }
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T])  { r.On(AfterDelete, hook) }
