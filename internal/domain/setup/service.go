package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/sequence"
	"inventa/internal/core/tx"
	"inventa/internal/core/validation"
	"inventa/internal/domain"
	"inventa/internal/domain/catalogs/item"
	"inventa/internal/domain/catalogs/warehouse"
	"inventa/pkg/logger"
)

// Adjustments are per-call overrides applied when duplicating a setup to
// other warehouses. Nil fields keep the source value.
type Adjustments struct {
	MinStock     *decimal.Decimal `json:"minStock,omitempty"`
	MaxStock     *decimal.Decimal `json:"maxStock,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorderPoint,omitempty"`
	ReorderQty   *decimal.Decimal `json:"reorderQty,omitempty"`
	SafetyStock  *decimal.Decimal `json:"safetyStock,omitempty"`
}

// DuplicateError reports one failed target of a duplicate operation.
type DuplicateError struct {
	WarehouseID id.ID  `json:"warehouseId"`
	Error       string `json:"error"`
}

// DuplicateResult is the per-target outcome of DuplicateSetup. Partial
// failure is expected: some targets succeed while others are reported in
// Errors.
type DuplicateResult struct {
	Created []*InventorySetup `json:"success"`
	Errors  []DuplicateError  `json:"errors"`
}

// Service provides business logic for inventory setups.
// Uses composition with domain.EntityService for common CRUD operations.
type Service struct {
	repo       Repository
	items      item.Repository
	warehouses warehouse.Repository
	sequencer  sequence.Generator
	*domain.EntityService[*InventorySetup]
}

// NewService creates a new InventorySetup service.
func NewService(
	repo Repository,
	items item.Repository,
	warehouses warehouse.Repository,
	txManager tx.Manager,
	sequencer sequence.Generator,
	log *logger.Logger,
) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*InventorySetup]{
		Repo:       repo,
		TxManager:  txManager,
		Logger:     log,
		EntityName: "inventory setup",
	})

	svc := &Service{
		repo:          repo,
		items:         items,
		warehouses:    warehouses,
		sequencer:     sequencer,
		EntityService: base,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkPairUnique)

	return svc
}

// prepareForCreate verifies referenced entities, probes composite
// uniqueness and assigns a record number. The composite unique constraint
// in the database stays authoritative under concurrent creates.
func (s *Service) prepareForCreate(ctx context.Context, rec *InventorySetup) error {
	if err := s.checkReferences(ctx, rec); err != nil {
		return err
	}
	if err := s.checkPairUnique(ctx, rec); err != nil {
		return err
	}

	if rec.Number == "" {
		number, err := s.sequencer.Next(ctx, sequence.DefaultConfig("SO"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		rec.Number = number
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, rec *InventorySetup) error {
	ok, err := s.items.Exists(ctx, rec.ItemID)
	if err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("item", rec.ItemID.String())
	}

	ok, err = s.warehouses.Exists(ctx, rec.WarehouseID)
	if err != nil {
		return fmt.Errorf("check warehouse: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("warehouse", rec.WarehouseID.String())
	}
	return nil
}

func (s *Service) checkPairUnique(ctx context.Context, rec *InventorySetup) error {
	exists, err := s.repo.SetupExists(ctx, rec.ItemID, rec.WarehouseID, rec.ID)
	if err != nil {
		return fmt.Errorf("check pair: %w", err)
	}
	if exists {
		return apperror.NewValidation("setup already exists for this item-warehouse combination").
			WithDetail("itemId", rec.ItemID.String()).
			WithDetail("warehouseId", rec.WarehouseID.String())
	}
	return nil
}

// CreateSetup creates a new setup after reference and uniqueness checks.
func (s *Service) CreateSetup(ctx context.Context, rec *InventorySetup) error {
	return s.Create(ctx, rec)
}

// UpdateSetup updates an existing setup. Changing the (item, warehouse)
// pair re-runs reference checks and the uniqueness probe against the new
// pair, excluding the record itself.
func (s *Service) UpdateSetup(ctx context.Context, rec *InventorySetup) error {
	existing, err := s.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}

	if rec.ItemID != existing.ItemID || rec.WarehouseID != existing.WarehouseID {
		if err := s.checkReferences(ctx, rec); err != nil {
			return err
		}
	}

	// Number is assigned once at creation.
	rec.Number = existing.Number

	return s.Update(ctx, rec)
}

// BulkUpdateSetups applies one shared patch to every listed setup in a
// single statement. Every target receives identical new values for the
// fields present in the patch.
func (s *Service) BulkUpdateSetups(ctx context.Context, ids []id.ID, patch BulkPatch) (int64, error) {
	if err := validation.Array("ids", ids, 1, -1); err != nil {
		return 0, err
	}
	if patch.IsEmpty() {
		return 0, apperror.NewValidation("patch must change at least one field").
			WithDetail("field", "data")
	}

	// Validate the shared patch once; only fields present in the patch
	// are checked against each other.
	probe := InventorySetup{
		MinStock:     patch.MinStock,
		MaxStock:     patch.MaxStock,
		ReorderPoint: patch.ReorderPoint,
		ReorderQty:   patch.ReorderQty,
		SafetyStock:  patch.SafetyStock,
	}
	if err := probe.ValidateStockLevels(ctx); err != nil {
		return 0, err
	}
	if patch.ValuationMethod != nil {
		if err := validateValuationMethod(*patch.ValuationMethod); err != nil {
			return 0, err
		}
	}

	var updated int64
	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.BulkUpdate(ctx, ids, patch)
		if err != nil {
			return fmt.Errorf("bulk update: %w", err)
		}
		updated = n
		return nil
	})
	return updated, err
}

// DuplicateSetup copies the source setup to each target warehouse
// independently. A failure on one target never aborts the others; per
// target errors are collected in the result.
func (s *Service) DuplicateSetup(ctx context.Context, sourceID id.ID, targetWarehouseIDs []id.ID, adj Adjustments) (DuplicateResult, error) {
	result := DuplicateResult{
		Created: []*InventorySetup{},
		Errors:  []DuplicateError{},
	}

	if err := validation.Array("targetWarehouseIds", targetWarehouseIDs, 1, -1); err != nil {
		return result, err
	}

	source, err := s.GetByID(ctx, sourceID)
	if err != nil {
		return result, err
	}

	for _, whID := range targetWarehouseIDs {
		rec, err := s.duplicateToWarehouse(ctx, source, whID, adj)
		if err != nil {
			result.Errors = append(result.Errors, DuplicateError{
				WarehouseID: whID,
				Error:       apperror.UserMessage(err),
			})
			continue
		}
		result.Created = append(result.Created, rec)
	}

	return result, nil
}

func (s *Service) duplicateToWarehouse(ctx context.Context, source *InventorySetup, warehouseID id.ID, adj Adjustments) (*InventorySetup, error) {
	rec := NewInventorySetup(source.ItemID, warehouseID)
	rec.MinStock = copyDecimal(source.MinStock)
	rec.MaxStock = copyDecimal(source.MaxStock)
	rec.ReorderPoint = copyDecimal(source.ReorderPoint)
	rec.ReorderQty = copyDecimal(source.ReorderQty)
	rec.SafetyStock = copyDecimal(source.SafetyStock)
	rec.ValuationMethod = source.ValuationMethod
	rec.AllowNegativeStock = source.AllowNegativeStock
	rec.IsActive = source.IsActive
	rec.Notes = copyString(source.Notes)
	rec.Attributes = source.Attributes.Clone()

	if adj.MinStock != nil {
		rec.MinStock = copyDecimal(adj.MinStock)
	}
	if adj.MaxStock != nil {
		rec.MaxStock = copyDecimal(adj.MaxStock)
	}
	if adj.ReorderPoint != nil {
		rec.ReorderPoint = copyDecimal(adj.ReorderPoint)
	}
	if adj.ReorderQty != nil {
		rec.ReorderQty = copyDecimal(adj.ReorderQty)
	}
	if adj.SafetyStock != nil {
		rec.SafetyStock = copyDecimal(adj.SafetyStock)
	}

	if err := s.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteSetup soft-deletes a setup after an existence check.
func (s *Service) DeleteSetup(ctx context.Context, setupID id.ID) error {
	return s.Delete(ctx, setupID)
}

// ToggleSetupStatus flips the is_active flag on every listed setup.
func (s *Service) ToggleSetupStatus(ctx context.Context, ids []id.ID, isActive bool) (int64, error) {
	if err := validation.Array("ids", ids, 1, -1); err != nil {
		return 0, err
	}

	var updated int64
	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.SetActive(ctx, ids, isActive)
		if err != nil {
			return fmt.Errorf("toggle status: %w", err)
		}
		updated = n
		return nil
	})
	return updated, err
}

// ListByItem returns all setups configured for one item.
func (s *Service) ListByItem(ctx context.Context, itemID id.ID) ([]*InventorySetup, error) {
	return s.repo.ListByItem(ctx, itemID)
}

// ListByWarehouse returns all setups configured for one warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*InventorySetup, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
