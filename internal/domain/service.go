// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"inventa/internal/core/apperror"
	"inventa/internal/core/entity"
	"inventa/internal/core/id"
	"inventa/internal/core/tx"
	"inventa/pkg/logger"
)

// EntityService provides generic business logic for catalog entities.
// Concrete services embed it and add domain operations on top.
type EntityService[T entity.Validatable] struct {
	repo      Repository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]
	log       *logger.Logger

	// entityName for error messages
	entityName string
}

// EntityServiceConfig configures the entity service.
type EntityServiceConfig[T entity.Validatable] struct {
	Repo       Repository[T]
	TxManager  tx.Manager
	Logger     *logger.Logger
	EntityName string
}

// NewEntityService creates a new entity service.
func NewEntityService[T entity.Validatable](cfg EntityServiceConfig[T]) *EntityService[T] {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &EntityService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		log:        log,
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *EntityService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Repo exposes the underlying repository to embedding services.
func (s *EntityService[T]) Repo() Repository[T] {
	return s.repo
}

// TxManager exposes the transaction manager to embedding services.
func (s *EntityService[T]) TxManager() tx.Manager {
	return s.txManager
}

func (s *EntityService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *EntityService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create creates a new catalog entity.
// Before-create hooks run prior to validation-independent persistence and may
// transform the entity; after-create hooks see the persisted entity and their
// errors are surfaced to the caller, since side effects (numbering, audit)
// are part of the operation contract.
func (s *EntityService[T]) Create(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, ent); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, ent); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, ent); err != nil {
		// The record is already persisted at this point.
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewInternal(err).
			WithDetail("entity", s.entityName).
			WithDetail("phase", "after_create")
	}

	return nil
}

// GetByID retrieves entity by ID.
func (s *EntityService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	ent, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return ent, s.normalizeGetErr(err, entityID.String())
	}
	return ent, nil
}

// GetByCode retrieves entity by code.
func (s *EntityService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	ent, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return ent, s.normalizeGetErr(err, code)
	}
	return ent, nil
}

// Update updates an existing entity.
func (s *EntityService[T]) Update(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, ent); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, ent); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, ent); err != nil {
		s.log.WithContext(ctx).Warnw("after-update hook failed",
			"entity", s.entityName, "error", err)
	}

	return nil
}

// Delete performs soft delete. Before-delete hooks can veto the operation.
func (s *EntityService[T]) Delete(ctx context.Context, entityID id.ID) error {
	ent, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, ent); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetDeletionMark(ctx, entityID, true); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, ent); err != nil {
		s.log.WithContext(ctx).Warnw("after-delete hook failed",
			"entity", s.entityName, "error", err)
	}

	return nil
}

// SetDeletionMark sets or clears the deletion mark without running hooks.
func (s *EntityService[T]) SetDeletionMark(ctx context.Context, entityID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, entityID, marked)
}

// List retrieves entities with filtering.
func (s *EntityService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if entity exists.
func (s *EntityService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
