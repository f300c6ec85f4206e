package ledger

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/models"
)

type fakeRelationStore struct {
	nextID    int64
	relations map[int64]*models.Relation
}

func newFakeRelationStore() *fakeRelationStore {
	return &fakeRelationStore{nextID: 1, relations: map[int64]*models.Relation{}}
}

func (f *fakeRelationStore) Create(ctx context.Context, brandID, supplierID int64) (*models.Relation, error) {
	for _, rel := range f.relations {
		if rel.BrandID == brandID && rel.SupplierID == supplierID {
			return nil, httperror.NewHTTPError(http.StatusConflict, "relation for this brand and supplier already exists")
		}
	}
	rel := &models.Relation{
		ID:         f.nextID,
		BrandID:    brandID,
		SupplierID: supplierID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	f.nextID++
	f.relations[rel.ID] = rel
	return rel, nil
}

func (f *fakeRelationStore) GetByID(ctx context.Context, id int64) (*models.Relation, error) {
	rel, ok := f.relations[id]
	if !ok {
		return nil, nil
	}
	copied := *rel
	return &copied, nil
}

func (f *fakeRelationStore) ListByBrand(ctx context.Context, brandID int64) ([]models.Relation, error) {
	items := []models.Relation{}
	for id := int64(1); id < f.nextID; id++ {
		if rel, ok := f.relations[id]; ok && rel.BrandID == brandID {
			items = append(items, *rel)
		}
	}
	return items, nil
}

func (f *fakeRelationStore) ListBySupplier(ctx context.Context, supplierID int64) ([]models.Relation, error) {
	items := []models.Relation{}
	for id := int64(1); id < f.nextID; id++ {
		if rel, ok := f.relations[id]; ok && rel.SupplierID == supplierID {
			items = append(items, *rel)
		}
	}
	return items, nil
}

func (f *fakeRelationStore) SetActive(ctx context.Context, id, brandID int64, active bool) (*models.Relation, error) {
	rel, ok := f.relations[id]
	if !ok || rel.BrandID != brandID {
		return nil, nil
	}
	rel.IsActive = active
	copied := *rel
	return &copied, nil
}

func (f *fakeRelationStore) Delete(ctx context.Context, id, brandID int64) (bool, error) {
	rel, ok := f.relations[id]
	if !ok || rel.BrandID != brandID {
		return false, nil
	}
	delete(f.relations, id)
	return true, nil
}

func (f *fakeRelationStore) ListAvailableSuppliers(ctx context.Context, brandID int64) ([]models.Supplier, error) {
	return []models.Supplier{}, nil
}

type fakeSupplierStore struct {
	ids map[int64]bool
}

func (f *fakeSupplierStore) Exists(ctx context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

type eventRecorder struct {
	created     []models.Relation
	activated   []models.Relation
	deactivated []models.Relation
	deleted     []models.Relation
}

func (e *eventRecorder) RelationCreated(ctx context.Context, r models.Relation) {
	e.created = append(e.created, r)
}

func (e *eventRecorder) RelationActivated(ctx context.Context, r models.Relation) {
	e.activated = append(e.activated, r)
}

func (e *eventRecorder) RelationDeactivated(ctx context.Context, r models.Relation) {
	e.deactivated = append(e.deactivated, r)
}

func (e *eventRecorder) RelationDeleted(ctx context.Context, r models.Relation) {
	e.deleted = append(e.deleted, r)
}

var (
	brandA    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 1}
	brandB    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 2}
	supplierS = brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: 10}
)

func newTestService() (*Service, *fakeRelationStore, *eventRecorder) {
	store := newFakeRelationStore()
	suppliers := &fakeSupplierStore{ids: map[int64]bool{10: true, 11: true}}
	events := &eventRecorder{}
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(store, suppliers, events, logger), store, events
}

func TestCreateRelationStartsActive(t *testing.T) {
	svc, _, events := newTestService()

	rel, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)
	assert.True(t, rel.IsActive)
	assert.Equal(t, brandA.ID, rel.BrandID)
	assert.Equal(t, int64(10), rel.SupplierID)
	assert.Len(t, events.created, 1)
}

func TestCreateRelationTwiceIsConflict(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)

	_, err = svc.CreateRelation(context.Background(), brandA, 10)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
}

func TestCreateRelationUnknownSupplierIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRelation(context.Background(), brandA, 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestSupplierCannotManageRelations(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRelation(context.Background(), supplierS, 11)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	_, err = svc.SetActive(context.Background(), supplierS, 1, true)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	err = svc.DeleteRelation(context.Background(), supplierS, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	_, err = svc.ListAvailableSuppliers(context.Background(), supplierS)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))
}

func TestSetActiveTogglesAndEmitsOnTransitionOnly(t *testing.T) {
	svc, _, events := newTestService()

	rel, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)

	updated, err := svc.SetActive(context.Background(), brandA, rel.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Len(t, events.deactivated, 1)

	// same state again: success, no second event
	updated, err = svc.SetActive(context.Background(), brandA, rel.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Len(t, events.deactivated, 1)

	updated, err = svc.SetActive(context.Background(), brandA, rel.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Len(t, events.activated, 1)
}

func TestSetActiveOtherBrandsRelationIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	rel, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)

	_, err = svc.SetActive(context.Background(), brandB, rel.ID, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestDeleteFreesThePair(t *testing.T) {
	svc, _, events := newTestService()

	rel, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)

	err = svc.DeleteRelation(context.Background(), brandA, rel.ID)
	require.NoError(t, err)
	assert.Len(t, events.deleted, 1)

	recreated, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)
	assert.NotEqual(t, rel.ID, recreated.ID)
}

func TestDeleteOtherBrandsRelationIsNotFound(t *testing.T) {
	svc, store, _ := newTestService()

	rel, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)

	err = svc.DeleteRelation(context.Background(), brandB, rel.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))

	// row untouched
	remaining, err := store.GetByID(context.Background(), rel.ID)
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}

func TestListRelationsIsTenantScoped(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRelation(context.Background(), brandA, 10)
	require.NoError(t, err)
	_, err = svc.CreateRelation(context.Background(), brandB, 10)
	require.NoError(t, err)
	_, err = svc.CreateRelation(context.Background(), brandA, 11)
	require.NoError(t, err)

	forBrandA, err := svc.ListRelations(context.Background(), brandA)
	require.NoError(t, err)
	assert.Len(t, forBrandA, 2)

	forSupplier, err := svc.ListRelations(context.Background(), supplierS)
	require.NoError(t, err)
	assert.Len(t, forSupplier, 2)
}
