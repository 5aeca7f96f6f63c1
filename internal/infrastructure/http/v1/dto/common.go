// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"inventa/internal/core/entity"
	"inventa/internal/domain"
)

// --- List queries ---

// ListQuery contains the common list parameters.
type ListQuery struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	IsActive       *bool  `form:"isActive"`
	OrderBy        string `form:"orderBy"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a domain list filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = q.Search
	f.IncludeDeleted = q.IncludeDeleted
	f.IsActive = q.IsActive
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	f.Offset = q.Offset
	return f
}

// Pagination describes the window of a list response.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewListResponse maps a domain list result through fn.
func NewListResponse[E any, T any](result domain.ListResult[E], fn func(E) T) ListResponse[T] {
	data := make([]T, 0, len(result.Items))
	for _, it := range result.Items {
		data = append(data, fn(it))
	}
	return ListResponse[T]{
		Data: data,
		Pagination: Pagination{
			Total:   result.TotalCount,
			Limit:   result.Limit,
			Offset:  result.Offset,
			HasMore: result.HasMore(),
		},
	}
}

// --- Base DTOs ---

// BaseResponse contains common response fields.
type BaseResponse struct {
	ID           string            `json:"id"`
	TenantID     string            `json:"tenantId"`
	StageID      string            `json:"stageId"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// FromBaseEntity creates BaseResponse from entity.BaseEntity.
func FromBaseEntity(b entity.BaseEntity) BaseResponse {
	return BaseResponse{
		ID:           b.ID.String(),
		TenantID:     b.TenantID,
		StageID:      b.StageID,
		DeletionMark: b.DeletionMark,
		Version:      b.Version,
		Attributes:   b.Attributes,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UpdatedResponse reports how many records a bulk operation changed.
type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

// SetDeletionMarkRequest sets or clears the deletion mark.
type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}
