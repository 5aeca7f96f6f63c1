package warehouse

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
	"inventa/internal/core/id"
	"inventa/internal/core/sequence"
	"inventa/internal/domain"
	"inventa/pkg/logger"
)

type stubTx struct{}

func (stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeWarehouseRepo is an in-memory Repository for service tests.
type fakeWarehouseRepo struct {
	warehouses map[id.ID]*Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[id.ID]*Warehouse)}
}

func (r *fakeWarehouseRepo) Create(ctx context.Context, wh *Warehouse) error {
	r.warehouses[wh.ID] = wh
	return nil
}

func (r *fakeWarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	wh, ok := r.warehouses[whID]
	if !ok {
		return nil, apperror.NewNotFound("warehouse", whID.String())
	}
	return wh, nil
}

func (r *fakeWarehouseRepo) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	for _, wh := range r.warehouses {
		if wh.Code == code {
			return wh, nil
		}
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

func (r *fakeWarehouseRepo) Update(ctx context.Context, wh *Warehouse) error {
	if _, ok := r.warehouses[wh.ID]; !ok {
		return apperror.NewNotFound("warehouse", wh.ID.String())
	}
	r.warehouses[wh.ID] = wh
	return nil
}

func (r *fakeWarehouseRepo) Delete(ctx context.Context, whID id.ID) error {
	return r.SetDeletionMark(ctx, whID, true)
}

func (r *fakeWarehouseRepo) SetDeletionMark(ctx context.Context, whID id.ID, marked bool) error {
	wh, ok := r.warehouses[whID]
	if !ok {
		return apperror.NewNotFound("warehouse", whID.String())
	}
	wh.DeletionMark = marked
	return nil
}

func (r *fakeWarehouseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Warehouse], error) {
	result := domain.ListResult[*Warehouse]{Limit: filter.Limit, Offset: filter.Offset}
	for _, wh := range r.warehouses {
		result.Items = append(result.Items, wh)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeWarehouseRepo) Exists(ctx context.Context, whID id.ID) (bool, error) {
	_, ok := r.warehouses[whID]
	return ok, nil
}

func (r *fakeWarehouseRepo) ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error) {
	for _, wh := range r.warehouses {
		if wh.Code == code && wh.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWarehouseRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByType: make(map[string]int64)}
	for _, wh := range r.warehouses {
		if wh.DeletionMark {
			continue
		}
		stats.Total++
		if wh.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		stats.ByType[string(wh.Type)]++
	}
	return stats, nil
}

// fakeLocationRepo is an in-memory LocationRepository for service tests.
type fakeLocationRepo struct {
	locations map[id.ID]*Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[id.ID]*Location)}
}

func (r *fakeLocationRepo) Create(ctx context.Context, loc *Location) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, locID id.ID) (*Location, error) {
	loc, ok := r.locations[locID]
	if !ok {
		return nil, apperror.NewNotFound("location", locID.String())
	}
	return loc, nil
}

func (r *fakeLocationRepo) GetByCode(ctx context.Context, code string) (*Location, error) {
	for _, loc := range r.locations {
		if loc.Code == code {
			return loc, nil
		}
	}
	return nil, apperror.NewNotFound("location", code)
}

func (r *fakeLocationRepo) Update(ctx context.Context, loc *Location) error {
	if _, ok := r.locations[loc.ID]; !ok {
		return apperror.NewNotFound("location", loc.ID.String())
	}
	r.locations[loc.ID] = loc
	return nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, locID id.ID) error {
	return r.SetDeletionMark(ctx, locID, true)
}

func (r *fakeLocationRepo) SetDeletionMark(ctx context.Context, locID id.ID, marked bool) error {
	loc, ok := r.locations[locID]
	if !ok {
		return apperror.NewNotFound("location", locID.String())
	}
	loc.DeletionMark = marked
	return nil
}

func (r *fakeLocationRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Location], error) {
	result := domain.ListResult[*Location]{Limit: filter.Limit, Offset: filter.Offset}
	for _, loc := range r.locations {
		result.Items = append(result.Items, loc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeLocationRepo) Exists(ctx context.Context, locID id.ID) (bool, error) {
	_, ok := r.locations[locID]
	return ok, nil
}

func (r *fakeLocationRepo) ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error) {
	for _, loc := range r.locations {
		if loc.Code == code && loc.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLocationRepo) CodeExists(ctx context.Context, warehouseID id.ID, code string, excludeID id.ID) (bool, error) {
	for _, loc := range r.locations {
		if loc.WarehouseID == warehouseID && loc.Code == code && loc.ID != excludeID && !loc.DeletionMark {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLocationRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error) {
	var out []*Location
	for _, loc := range r.locations {
		if loc.WarehouseID == warehouseID && !loc.DeletionMark {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) ListByPathPrefix(ctx context.Context, warehouseID id.ID, pathPrefix string) ([]*Location, error) {
	var out []*Location
	for _, loc := range r.locations {
		if loc.WarehouseID != warehouseID || loc.DeletionMark || loc.Path == pathPrefix {
			continue
		}
		if strings.HasPrefix(loc.Path, pathPrefix+PathSeparator) {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) UpdatePaths(ctx context.Context, updates map[id.ID]string) error {
	for locID, path := range updates {
		loc, ok := r.locations[locID]
		if !ok {
			return apperror.NewNotFound("location", locID.String())
		}
		loc.Path = path
	}
	return nil
}

type testEnv struct {
	svc        *Service
	warehouses *fakeWarehouseRepo
	locations  *fakeLocationRepo
}

func newTestEnv() testEnv {
	warehouses := newFakeWarehouseRepo()
	locations := newFakeLocationRepo()
	svc := NewService(warehouses, locations, stubTx{}, sequence.NewMock(), logger.Nop())
	return testEnv{svc: svc, warehouses: warehouses, locations: locations}
}

func (e testEnv) mustCreateWarehouse(t *testing.T, name string) *Warehouse {
	t.Helper()
	wh := NewWarehouse("", name, TypeRawMaterials)
	require.NoError(t, e.svc.Create(context.Background(), wh))
	return wh
}

func (e testEnv) mustCreateLocation(t *testing.T, warehouseID id.ID, code string, parentID *id.ID) *Location {
	t.Helper()
	loc := NewLocation(warehouseID, code, "Location "+code)
	loc.ParentID = parentID
	require.NoError(t, e.svc.CreateLocation(context.Background(), loc))
	return loc
}

func TestCreateWarehouse_GeneratesCode(t *testing.T) {
	env := newTestEnv()

	first := env.mustCreateWarehouse(t, "Main")
	second := env.mustCreateWarehouse(t, "Overflow")

	assert.Equal(t, "WH-00001", first.Code)
	assert.Equal(t, "WH-00002", second.Code)
}

func TestCreateWarehouse_RejectsDuplicateCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := NewWarehouse("WH-A", "Main", TypeRawMaterials)
	require.NoError(t, env.svc.Create(ctx, first))

	dup := NewWarehouse("WH-A", "Shadow", TypeFinishedGood)
	err := env.svc.Create(ctx, dup)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "code", appErr.Details["field"])
}

func TestCreateWarehouse_RejectsUnknownType(t *testing.T) {
	env := newTestEnv()

	wh := NewWarehouse("WH-A", "Main", "BASEMENT")
	err := env.svc.Create(context.Background(), wh)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "warehouseType", appErr.Details["field"])
}

func TestToggleActive_Warehouse(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")
	require.True(t, wh.IsActive)

	toggled, err := env.svc.ToggleActive(context.Background(), wh.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.False(t, toggled.CanAcceptStock())
}

func TestCreateLocation_RootAndChild(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")

	root := env.mustCreateLocation(t, wh.ID, "A", nil)
	assert.Equal(t, "A", root.Path)
	assert.Equal(t, 1, root.Depth())
	assert.True(t, root.IsRoot())

	child := env.mustCreateLocation(t, wh.ID, "A1", &root.ID)
	assert.Equal(t, "A/A1", child.Path)
	assert.Equal(t, 2, child.Depth())
	assert.False(t, child.IsRoot())
}

func TestCreateLocation_WarehouseMustExist(t *testing.T) {
	env := newTestEnv()

	loc := NewLocation(id.New(), "A", "Zone A")
	err := env.svc.CreateLocation(context.Background(), loc)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateLocation_ParentMustExist(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")

	missing := id.New()
	loc := NewLocation(wh.ID, "A1", "Zone A1")
	loc.ParentID = &missing

	err := env.svc.CreateLocation(context.Background(), loc)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "parentLocationId", appErr.Details["field"])
}

func TestCreateLocation_ParentFromAnotherWarehouse(t *testing.T) {
	env := newTestEnv()
	whA := env.mustCreateWarehouse(t, "Main")
	whB := env.mustCreateWarehouse(t, "Overflow")
	rootA := env.mustCreateLocation(t, whA.ID, "A", nil)

	loc := NewLocation(whB.ID, "B1", "Zone B1")
	loc.ParentID = &rootA.ID

	err := env.svc.CreateLocation(context.Background(), loc)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "parentLocationId", appErr.Details["field"])
}

func TestCreateLocation_DepthCap(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")

	deep := NewLocation(wh.ID, "D", "Deep")
	deep.Path = strings.TrimSuffix(strings.Repeat("D"+PathSeparator, MaxLocationDepth), PathSeparator)
	require.Equal(t, MaxLocationDepth, deep.Depth())
	require.NoError(t, env.locations.Create(context.Background(), deep))

	loc := NewLocation(wh.ID, "X", "Too deep")
	loc.ParentID = &deep.ID

	err := env.svc.CreateLocation(context.Background(), loc)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, MaxLocationDepth, appErr.Details["maxDepth"])
}

func TestCreateLocation_RejectsDuplicateCode(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")
	env.mustCreateLocation(t, wh.ID, "A", nil)

	dup := NewLocation(wh.ID, "A", "Zone A again")
	err := env.svc.CreateLocation(context.Background(), dup)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "code", appErr.Details["field"])

	// Same code in another warehouse is fine.
	other := env.mustCreateWarehouse(t, "Overflow")
	env.mustCreateLocation(t, other.ID, "A", nil)
}

func TestUpdateLocation_CannotMoveBetweenWarehouses(t *testing.T) {
	env := newTestEnv()
	whA := env.mustCreateWarehouse(t, "Main")
	whB := env.mustCreateWarehouse(t, "Overflow")
	loc := env.mustCreateLocation(t, whA.ID, "A", nil)

	moved := *loc
	moved.WarehouseID = whB.ID

	err := env.svc.UpdateLocation(context.Background(), &moved)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "warehouseId", appErr.Details["field"])
}

func TestUpdateLocation_RejectsCycles(t *testing.T) {
	env := newTestEnv()
	wh := env.mustCreateWarehouse(t, "Main")
	root := env.mustCreateLocation(t, wh.ID, "A", nil)
	child := env.mustCreateLocation(t, wh.ID, "B", &root.ID)
	grandchild := env.mustCreateLocation(t, wh.ID, "C", &child.ID)

	// Under its own descendant.
	moved := *root
	moved.ParentID = &grandchild.ID
	err := env.svc.UpdateLocation(context.Background(), &moved)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "parentLocationId", appErr.Details["field"])

	// Under itself.
	self := *root
	self.ParentID = &self.ID
	err = env.svc.UpdateLocation(context.Background(), &self)
	require.Error(t, err)
}

func TestUpdateLocation_RewritesSubtreePaths(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	wh := env.mustCreateWarehouse(t, "Main")
	root := env.mustCreateLocation(t, wh.ID, "A", nil)
	child := env.mustCreateLocation(t, wh.ID, "B", &root.ID)
	grandchild := env.mustCreateLocation(t, wh.ID, "C", &child.ID)

	renamed := *root
	renamed.Code = "Z"
	require.NoError(t, env.svc.UpdateLocation(ctx, &renamed))
	assert.Equal(t, "Z", renamed.Path)

	storedChild, err := env.locations.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z/B", storedChild.Path)

	storedGrandchild, err := env.locations.GetByID(ctx, grandchild.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z/B/C", storedGrandchild.Path)
}

func TestUpdateLocation_ReparentMovesSubtree(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	wh := env.mustCreateWarehouse(t, "Main")
	rootA := env.mustCreateLocation(t, wh.ID, "A", nil)
	rootB := env.mustCreateLocation(t, wh.ID, "B", nil)
	child := env.mustCreateLocation(t, wh.ID, "C", &rootA.ID)
	leaf := env.mustCreateLocation(t, wh.ID, "D", &child.ID)

	moved := *child
	moved.ParentID = &rootB.ID
	require.NoError(t, env.svc.UpdateLocation(ctx, &moved))
	assert.Equal(t, "B/C", moved.Path)

	storedLeaf, err := env.locations.GetByID(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "B/C/D", storedLeaf.Path)
}

func TestDeleteLocation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	wh := env.mustCreateWarehouse(t, "Main")
	root := env.mustCreateLocation(t, wh.ID, "A", nil)
	leaf := env.mustCreateLocation(t, wh.ID, "B", &root.ID)

	err := env.svc.DeleteLocation(ctx, root.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	require.NoError(t, env.svc.DeleteLocation(ctx, leaf.ID))
	stored, err := env.locations.GetByID(ctx, leaf.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeletionMark)

	// With the child gone, the root can be deleted.
	require.NoError(t, env.svc.DeleteLocation(ctx, root.ID))
}

func TestListLocations_RequiresWarehouse(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ListLocations(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
