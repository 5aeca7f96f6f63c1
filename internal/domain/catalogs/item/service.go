package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/sequence"
	"inventa/internal/core/tx"
	"inventa/internal/domain"
	"inventa/pkg/logger"
)

// Service provides business logic for the Item catalog.
// Uses composition with domain.EntityService for common CRUD operations.
type Service struct {
	*domain.EntityService[*Item]
	repo      Repository
	sequencer sequence.Generator
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	sequencer sequence.Generator,
	log *logger.Logger,
) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		Logger:     log,
		EntityName: "item",
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		sequencer:     sequencer,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkUnique)

	return svc
}

// prepareForCreate normalizes the SKU, generates a code if missing and
// checks tenant-scoped uniqueness. The database unique constraints remain
// the authority under concurrency; this probe gives clean errors on the
// common path.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	it.SKU = strings.ToUpper(strings.TrimSpace(it.SKU))

	if it.Code == "" {
		code, err := s.sequencer.Next(ctx, sequence.DefaultConfig("ITM"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}

	return s.checkUnique(ctx, it)
}

func (s *Service) checkUnique(ctx context.Context, it *Item) error {
	exists, err := s.repo.SKUExists(ctx, it.SKU, it.ID)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return apperror.NewValidation("item with this SKU already exists").
			WithDetail("field", "sku").
			WithDetail("value", it.SKU)
	}

	if it.Code != "" {
		exists, err := s.repo.ExistsByCode(ctx, it.Code, it.ID)
		if err != nil {
			return fmt.Errorf("check code: %w", err)
		}
		if exists {
			return apperror.NewValidation("item with this code already exists").
				WithDetail("field", "code").
				WithDetail("value", it.Code)
		}
	}

	return nil
}

// GetBySKU retrieves item by SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Item, error) {
	it, err := s.repo.GetBySKU(ctx, strings.ToUpper(strings.TrimSpace(sku)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", sku)
		}
		return nil, err
	}
	return it, nil
}

// ToggleActive flips the is_active flag.
func (s *Service) ToggleActive(ctx context.Context, itemID id.ID) (*Item, error) {
	it, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	it.IsActive = !it.IsActive
	if err := s.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}
