package warehouse

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

// MaxLocationDepth caps the location tree nesting.
const MaxLocationDepth = 32

// Service provides business logic for warehouses and their locations.
// Uses composition with domain.EntityService for common warehouse CRUD.
type Service struct {
	*domain.EntityService[*Warehouse]
	repo      Repository
	locations LocationRepository
	txManager tx.Manager
	sequencer sequence.Generator
	log       *logger.Logger
}

// NewService creates a new Warehouse service.
func NewService(
	repo Repository,
	locations LocationRepository,
	txManager tx.Manager,
	sequencer sequence.Generator,
	log *logger.Logger,
) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txManager,
		Logger:     log,
		EntityName: "warehouse",
	})

	svc := &Service{
		EntityService: base,
		repo:          repo,
		locations:     locations,
		txManager:     txManager,
		sequencer:     sequencer,
		log:           log,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkCodeUnique)

	return svc
}

// prepareForCreate generates a code if missing and probes tenant-scoped code
// uniqueness. The database unique constraint stays authoritative under
// concurrent creates; the probe is the fast path for clean error messages.
func (s *Service) prepareForCreate(ctx context.Context, wh *Warehouse) error {
	if wh.Code == "" {
		code, err := s.sequencer.Next(ctx, sequence.DefaultConfig("WH"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		wh.Code = code
	}

	return s.checkCodeUnique(ctx, wh)
}

func (s *Service) checkCodeUnique(ctx context.Context, wh *Warehouse) error {
	exists, err := s.repo.ExistsByCode(ctx, wh.Code, wh.ID)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewValidation("warehouse with this code already exists").
			WithDetail("field", "code").
			WithDetail("value", wh.Code)
	}
	return nil
}

// Stats aggregates warehouse counts by type and active flag.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// ToggleActive flips the is_active flag. Deactivation keeps the record and
// its locations; historical references stay valid.
func (s *Service) ToggleActive(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	wh, err := s.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	wh.IsActive = !wh.IsActive
	if err := s.Update(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// --- Locations ---

// GetLocation retrieves a location by ID.
func (s *Service) GetLocation(ctx context.Context, locationID id.ID) (*Location, error) {
	loc, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("location", locationID.String())
		}
		return nil, err
	}
	return loc, nil
}

// ListLocations returns all locations of a warehouse ordered by path.
func (s *Service) ListLocations(ctx context.Context, warehouseID id.ID) ([]*Location, error) {
	if _, err := s.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.locations.ListByWarehouse(ctx, warehouseID)
}

// CreateLocation creates a location inside a warehouse. The materialized
// path is derived from the parent chain; callers never set it.
func (s *Service) CreateLocation(ctx context.Context, loc *Location) error {
	if err := loc.Validate(ctx); err != nil {
		return err
	}

	// Parent warehouse must exist in the tenant scope.
	if _, err := s.GetByID(ctx, loc.WarehouseID); err != nil {
		return err
	}

	if err := s.checkLocationCodeUnique(ctx, loc); err != nil {
		return err
	}

	path, err := s.buildPath(ctx, loc)
	if err != nil {
		return err
	}
	loc.Path = path

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.locations.Create(ctx, loc); err != nil {
			return fmt.Errorf("create location: %w", err)
		}
		return nil
	})
}

// UpdateLocation updates a location. When the code or parent changes the
// path is recomputed and pushed down the whole subtree in one transaction.
func (s *Service) UpdateLocation(ctx context.Context, loc *Location) error {
	if err := loc.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.GetLocation(ctx, loc.ID)
	if err != nil {
		return err
	}

	// Locations cannot move between warehouses.
	if loc.WarehouseID != existing.WarehouseID {
		return apperror.NewValidation("location cannot be moved to another warehouse").
			WithDetail("field", "warehouseId")
	}

	if err := s.checkLocationCodeUnique(ctx, loc); err != nil {
		return err
	}

	if err := s.checkNoCycle(ctx, existing, loc.ParentID); err != nil {
		return err
	}

	newPath, err := s.buildPath(ctx, loc)
	if err != nil {
		return err
	}
	loc.Path = newPath

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.locations.Update(ctx, loc); err != nil {
			return fmt.Errorf("update location: %w", err)
		}
		if existing.Path != newPath {
			if err := s.rewriteSubtreePaths(ctx, existing, newPath); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteLocation soft-deletes a location. Locations with children cannot
// be deleted.
func (s *Service) DeleteLocation(ctx context.Context, locationID id.ID) error {
	loc, err := s.GetLocation(ctx, locationID)
	if err != nil {
		return err
	}

	children, err := s.locations.ListByPathPrefix(ctx, loc.WarehouseID, loc.Path)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	if len(children) > 0 {
		return apperror.NewValidation("location has child locations").
			WithDetail("locationId", locationID.String()).
			WithDetail("children", len(children))
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.locations.SetDeletionMark(ctx, locationID, true)
	})
}

func (s *Service) checkLocationCodeUnique(ctx context.Context, loc *Location) error {
	exists, err := s.locations.CodeExists(ctx, loc.WarehouseID, loc.Code, loc.ID)
	if err != nil {
		return fmt.Errorf("check location code: %w", err)
	}
	if exists {
		return apperror.NewValidation("location with this code already exists in the warehouse").
			WithDetail("field", "code").
			WithDetail("value", loc.Code)
	}
	return nil
}

// buildPath derives the materialized path from the parent chain.
func (s *Service) buildPath(ctx context.Context, loc *Location) (string, error) {
	if loc.ParentID == nil {
		return loc.Code, nil
	}

	parent, err := s.GetLocation(ctx, *loc.ParentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", apperror.NewValidation("parent location not found").
				WithDetail("field", "parentLocationId").
				WithDetail("value", loc.ParentID.String())
		}
		return "", err
	}

	if parent.WarehouseID != loc.WarehouseID {
		return "", apperror.NewValidation("parent location belongs to another warehouse").
			WithDetail("field", "parentLocationId")
	}

	if parent.Depth()+1 > MaxLocationDepth {
		return "", apperror.NewValidation("location tree too deep").
			WithDetail("maxDepth", MaxLocationDepth)
	}

	return parent.Path + PathSeparator + loc.Code, nil
}

// checkNoCycle rejects re-parenting a location under itself or one of its
// descendants. Descendants are identified by the current materialized path.
func (s *Service) checkNoCycle(ctx context.Context, existing *Location, newParentID *id.ID) error {
	if newParentID == nil {
		return nil
	}
	if *newParentID == existing.ID {
		return apperror.NewValidation("location cannot be its own parent").
			WithDetail("field", "parentLocationId")
	}

	parent, err := s.GetLocation(ctx, *newParentID)
	if err != nil {
		return err
	}

	if strings.HasPrefix(parent.Path+PathSeparator, existing.Path+PathSeparator) {
		return apperror.NewValidation("location cannot be moved under its own descendant").
			WithDetail("field", "parentLocationId").
			WithDetail("value", newParentID.String())
	}

	return nil
}

// rewriteSubtreePaths replaces the old path prefix with the new one on
// every descendant of a moved or renamed location.
func (s *Service) rewriteSubtreePaths(ctx context.Context, old *Location, newPath string) error {
	children, err := s.locations.ListByPathPrefix(ctx, old.WarehouseID, old.Path)
	if err != nil {
		return fmt.Errorf("list subtree: %w", err)
	}
	if len(children) == 0 {
		return nil
	}

	updates := make(map[id.ID]string, len(children))
	for _, child := range children {
		updates[child.ID] = newPath + strings.TrimPrefix(child.Path, old.Path)
	}
	if err := s.locations.UpdatePaths(ctx, updates); err != nil {
		return fmt.Errorf("rewrite paths: %w", err)
	}
	return nil
}
