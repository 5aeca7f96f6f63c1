package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/sequence"
	"inventa/internal/domain"
	"inventa/internal/domain/catalogs/item"
	"inventa/internal/domain/catalogs/warehouse"
	"inventa/pkg/logger"
)

type stubTx struct{}

func (stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// itemRefs answers existence probes; the embedded interface covers the
// methods the setup service never calls.
type itemRefs struct {
	item.Repository
	ids map[id.ID]bool
}

func (r itemRefs) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	return r.ids[itemID], nil
}

type warehouseRefs struct {
	warehouse.Repository
	ids map[id.ID]bool
}

func (r warehouseRefs) Exists(ctx context.Context, warehouseID id.ID) (bool, error) {
	return r.ids[warehouseID], nil
}

// fakeSetupRepo is an in-memory Repository for service tests.
type fakeSetupRepo struct {
	setups map[id.ID]*InventorySetup
}

func newFakeSetupRepo() *fakeSetupRepo {
	return &fakeSetupRepo{setups: make(map[id.ID]*InventorySetup)}
}

func (r *fakeSetupRepo) Create(ctx context.Context, rec *InventorySetup) error {
	r.setups[rec.ID] = rec
	return nil
}

func (r *fakeSetupRepo) GetByID(ctx context.Context, setupID id.ID) (*InventorySetup, error) {
	rec, ok := r.setups[setupID]
	if !ok {
		return nil, apperror.NewNotFound("inventory setup", setupID.String())
	}
	return rec, nil
}

func (r *fakeSetupRepo) GetByCode(ctx context.Context, code string) (*InventorySetup, error) {
	for _, rec := range r.setups {
		if rec.Number == code {
			return rec, nil
		}
	}
	return nil, apperror.NewNotFound("inventory setup", code)
}

func (r *fakeSetupRepo) Update(ctx context.Context, rec *InventorySetup) error {
	if _, ok := r.setups[rec.ID]; !ok {
		return apperror.NewNotFound("inventory setup", rec.ID.String())
	}
	r.setups[rec.ID] = rec
	return nil
}

func (r *fakeSetupRepo) Delete(ctx context.Context, setupID id.ID) error {
	return r.SetDeletionMark(ctx, setupID, true)
}

func (r *fakeSetupRepo) SetDeletionMark(ctx context.Context, setupID id.ID, marked bool) error {
	rec, ok := r.setups[setupID]
	if !ok {
		return apperror.NewNotFound("inventory setup", setupID.String())
	}
	rec.DeletionMark = marked
	return nil
}

func (r *fakeSetupRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*InventorySetup], error) {
	result := domain.ListResult[*InventorySetup]{Limit: filter.Limit, Offset: filter.Offset}
	for _, rec := range r.setups {
		result.Items = append(result.Items, rec)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeSetupRepo) Exists(ctx context.Context, setupID id.ID) (bool, error) {
	_, ok := r.setups[setupID]
	return ok, nil
}

func (r *fakeSetupRepo) ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error) {
	for _, rec := range r.setups {
		if rec.Number == code && rec.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSetupRepo) SetupExists(ctx context.Context, itemID, warehouseID id.ID, excludeID id.ID) (bool, error) {
	for _, rec := range r.setups {
		if rec.ItemID == itemID && rec.WarehouseID == warehouseID && rec.ID != excludeID && !rec.DeletionMark {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSetupRepo) GetByPair(ctx context.Context, itemID, warehouseID id.ID) (*InventorySetup, error) {
	for _, rec := range r.setups {
		if rec.ItemID == itemID && rec.WarehouseID == warehouseID && !rec.DeletionMark {
			return rec, nil
		}
	}
	return nil, apperror.NewNotFound("inventory setup", itemID.String())
}

func (r *fakeSetupRepo) ListByItem(ctx context.Context, itemID id.ID) ([]*InventorySetup, error) {
	var out []*InventorySetup
	for _, rec := range r.setups {
		if rec.ItemID == itemID && !rec.DeletionMark {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeSetupRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*InventorySetup, error) {
	var out []*InventorySetup
	for _, rec := range r.setups {
		if rec.WarehouseID == warehouseID && !rec.DeletionMark {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeSetupRepo) BulkUpdate(ctx context.Context, ids []id.ID, patch BulkPatch) (int64, error) {
	var updated int64
	for _, setupID := range ids {
		rec, ok := r.setups[setupID]
		if !ok || rec.DeletionMark {
			continue
		}
		if patch.MinStock != nil {
			rec.MinStock = patch.MinStock
		}
		if patch.MaxStock != nil {
			rec.MaxStock = patch.MaxStock
		}
		if patch.ReorderPoint != nil {
			rec.ReorderPoint = patch.ReorderPoint
		}
		if patch.ReorderQty != nil {
			rec.ReorderQty = patch.ReorderQty
		}
		if patch.SafetyStock != nil {
			rec.SafetyStock = patch.SafetyStock
		}
		if patch.ValuationMethod != nil {
			rec.ValuationMethod = *patch.ValuationMethod
		}
		if patch.AllowNegativeStock != nil {
			rec.AllowNegativeStock = *patch.AllowNegativeStock
		}
		if patch.IsActive != nil {
			rec.IsActive = *patch.IsActive
		}
		updated++
	}
	return updated, nil
}

func (r *fakeSetupRepo) SetActive(ctx context.Context, ids []id.ID, active bool) (int64, error) {
	var updated int64
	for _, setupID := range ids {
		rec, ok := r.setups[setupID]
		if !ok || rec.DeletionMark {
			continue
		}
		rec.IsActive = active
		updated++
	}
	return updated, nil
}

type setupEnv struct {
	svc        *Service
	repo       *fakeSetupRepo
	items      map[id.ID]bool
	warehouses map[id.ID]bool
}

func newSetupEnv() setupEnv {
	repo := newFakeSetupRepo()
	items := make(map[id.ID]bool)
	warehouses := make(map[id.ID]bool)
	svc := NewService(
		repo,
		itemRefs{ids: items},
		warehouseRefs{ids: warehouses},
		stubTx{},
		sequence.NewMock(),
		logger.Nop(),
	)
	return setupEnv{svc: svc, repo: repo, items: items, warehouses: warehouses}
}

func (e setupEnv) newItem() id.ID {
	itemID := id.New()
	e.items[itemID] = true
	return itemID
}

func (e setupEnv) newWarehouse() id.ID {
	warehouseID := id.New()
	e.warehouses[warehouseID] = true
	return warehouseID
}

func (e setupEnv) mustCreate(t *testing.T, itemID, warehouseID id.ID) *InventorySetup {
	t.Helper()
	rec := NewInventorySetup(itemID, warehouseID)
	require.NoError(t, e.svc.CreateSetup(context.Background(), rec))
	return rec
}

func TestCreateSetup_AssignsNumber(t *testing.T) {
	env := newSetupEnv()
	itemID := env.newItem()

	first := env.mustCreate(t, itemID, env.newWarehouse())
	second := env.mustCreate(t, itemID, env.newWarehouse())

	assert.Equal(t, "SO-00001", first.Number)
	assert.Equal(t, "SO-00002", second.Number)
}

func TestCreateSetup_KeepsProvidedNumber(t *testing.T) {
	env := newSetupEnv()

	rec := NewInventorySetup(env.newItem(), env.newWarehouse())
	rec.Number = "SO-MANUAL"
	require.NoError(t, env.svc.CreateSetup(context.Background(), rec))
	assert.Equal(t, "SO-MANUAL", rec.Number)
}

func TestCreateSetup_ChecksReferences(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()

	rec := NewInventorySetup(id.New(), env.newWarehouse())
	err := env.svc.CreateSetup(ctx, rec)
	require.Error(t, err)
	require.True(t, apperror.IsNotFound(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "item", appErr.Details["entity"])

	rec = NewInventorySetup(env.newItem(), id.New())
	err = env.svc.CreateSetup(ctx, rec)
	require.True(t, apperror.IsNotFound(err))
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "warehouse", appErr.Details["entity"])
}

func TestCreateSetup_RejectsDuplicatePair(t *testing.T) {
	env := newSetupEnv()
	itemID := env.newItem()
	warehouseID := env.newWarehouse()
	env.mustCreate(t, itemID, warehouseID)

	dup := NewInventorySetup(itemID, warehouseID)
	err := env.svc.CreateSetup(context.Background(), dup)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, itemID.String(), appErr.Details["itemId"])
}

func TestUpdateSetup_PreservesNumber(t *testing.T) {
	env := newSetupEnv()
	rec := env.mustCreate(t, env.newItem(), env.newWarehouse())
	number := rec.Number

	changed := *rec
	changed.Number = "SO-FORGED"
	changed.MinStock = dec("5")

	require.NoError(t, env.svc.UpdateSetup(context.Background(), &changed))
	assert.Equal(t, number, changed.Number)
}

func TestUpdateSetup_PairChangeChecksReferences(t *testing.T) {
	env := newSetupEnv()
	rec := env.mustCreate(t, env.newItem(), env.newWarehouse())

	moved := *rec
	moved.WarehouseID = id.New()

	err := env.svc.UpdateSetup(context.Background(), &moved)
	require.True(t, apperror.IsNotFound(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "warehouse", appErr.Details["entity"])
}

func TestUpdateSetup_PairChangeChecksUniqueness(t *testing.T) {
	env := newSetupEnv()
	itemID := env.newItem()
	warehouseA := env.newWarehouse()
	warehouseB := env.newWarehouse()
	env.mustCreate(t, itemID, warehouseA)
	recB := env.mustCreate(t, itemID, warehouseB)

	moved := *recB
	moved.WarehouseID = warehouseA

	err := env.svc.UpdateSetup(context.Background(), &moved)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestBulkUpdateSetups_Validation(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()
	rec := env.mustCreate(t, env.newItem(), env.newWarehouse())

	_, err := env.svc.BulkUpdateSetups(ctx, nil, BulkPatch{IsActive: boolPtr(false)})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "ids", appErr.Details["field"])

	_, err = env.svc.BulkUpdateSetups(ctx, []id.ID{rec.ID}, BulkPatch{})
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "data", appErr.Details["field"])

	_, err = env.svc.BulkUpdateSetups(ctx, []id.ID{rec.ID}, BulkPatch{
		MinStock: dec("100"),
		MaxStock: dec("10"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	bad := ValuationMethod("AVERAGE")
	_, err = env.svc.BulkUpdateSetups(ctx, []id.ID{rec.ID}, BulkPatch{ValuationMethod: &bad})
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "valuationMethod", appErr.Details["field"])
}

func TestBulkUpdateSetups_AppliesSharedPatch(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()
	itemID := env.newItem()
	first := env.mustCreate(t, itemID, env.newWarehouse())
	second := env.mustCreate(t, itemID, env.newWarehouse())

	method := ValuationStandard
	updated, err := env.svc.BulkUpdateSetups(ctx, []id.ID{first.ID, second.ID, id.New()}, BulkPatch{
		MinStock:        dec("10"),
		MaxStock:        dec("200"),
		ValuationMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	for _, setupID := range []id.ID{first.ID, second.ID} {
		rec, err := env.repo.GetByID(ctx, setupID)
		require.NoError(t, err)
		assert.True(t, rec.MinStock.Equal(*dec("10")))
		assert.True(t, rec.MaxStock.Equal(*dec("200")))
		assert.Equal(t, ValuationStandard, rec.ValuationMethod)
	}
}

func TestDuplicateSetup_RequiresTargets(t *testing.T) {
	env := newSetupEnv()
	rec := env.mustCreate(t, env.newItem(), env.newWarehouse())

	_, err := env.svc.DuplicateSetup(context.Background(), rec.ID, nil, Adjustments{})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "targetWarehouseIds", appErr.Details["field"])
}

func TestDuplicateSetup_CopiesToTargets(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()
	itemID := env.newItem()

	source := NewInventorySetup(itemID, env.newWarehouse())
	source.MinStock = dec("10")
	source.ReorderQty = dec("25")
	source.ValuationMethod = ValuationWeightedAvg
	source.AllowNegativeStock = true
	require.NoError(t, env.svc.CreateSetup(ctx, source))

	targetA := env.newWarehouse()
	targetB := env.newWarehouse()

	result, err := env.svc.DuplicateSetup(ctx, source.ID, []id.ID{targetA, targetB}, Adjustments{})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Errors)

	for _, created := range result.Created {
		assert.Equal(t, itemID, created.ItemID)
		assert.Equal(t, ValuationWeightedAvg, created.ValuationMethod)
		assert.True(t, created.AllowNegativeStock)
		assert.True(t, created.MinStock.Equal(*source.MinStock))
		assert.NotSame(t, source.MinStock, created.MinStock)
		assert.NotEqual(t, source.Number, created.Number)
		assert.NotEqual(t, source.ID, created.ID)
	}
}

func TestDuplicateSetup_PartialFailure(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()
	itemID := env.newItem()

	source := env.mustCreate(t, itemID, env.newWarehouse())

	occupied := env.newWarehouse()
	env.mustCreate(t, itemID, occupied)
	free := env.newWarehouse()

	result, err := env.svc.DuplicateSetup(ctx, source.ID, []id.ID{occupied, free}, Adjustments{})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, free, result.Created[0].WarehouseID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, occupied, result.Errors[0].WarehouseID)
	assert.Contains(t, result.Errors[0].Error, "already exists")
}

func TestDuplicateSetup_AppliesAdjustments(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()

	source := NewInventorySetup(env.newItem(), env.newWarehouse())
	source.MinStock = dec("10")
	source.MaxStock = dec("100")
	require.NoError(t, env.svc.CreateSetup(ctx, source))

	target := env.newWarehouse()
	result, err := env.svc.DuplicateSetup(ctx, source.ID, []id.ID{target}, Adjustments{
		MinStock: dec("20"),
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	created := result.Created[0]
	assert.True(t, created.MinStock.Equal(*dec("20")))
	assert.True(t, created.MaxStock.Equal(*dec("100")))
}

func TestDuplicateSetup_SourceNotFound(t *testing.T) {
	env := newSetupEnv()

	_, err := env.svc.DuplicateSetup(context.Background(), id.New(), []id.ID{env.newWarehouse()}, Adjustments{})
	assert.True(t, apperror.IsNotFound(err))
}

func TestToggleSetupStatus(t *testing.T) {
	env := newSetupEnv()
	ctx := context.Background()
	itemID := env.newItem()
	first := env.mustCreate(t, itemID, env.newWarehouse())
	second := env.mustCreate(t, itemID, env.newWarehouse())

	_, err := env.svc.ToggleSetupStatus(ctx, nil, false)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	updated, err := env.svc.ToggleSetupStatus(ctx, []id.ID{first.ID, second.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.False(t, first.IsActive)
	assert.False(t, second.IsActive)
}

func boolPtr(b bool) *bool { return &b }
