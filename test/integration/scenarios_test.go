package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/bramble/pkg/authz"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/ledger"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/ownership"
)

// world is an in-memory registry: relation rows, the ownership hierarchy and
// the services wired over them, so the scenarios below exercise the same
// decision paths as the HTTP handlers without a database.
type world struct {
	relations *relationTable
	ledger    *ledger.Service
	gate      *authz.Gate

	products  map[int64]int64 // product -> brand
	variants  map[int64]int64 // variant -> product
	materials map[int64]int64 // material -> supplier
	children  map[int64]int64 // composition -> material
}

func newWorld(t *testing.T) *world {
	t.Helper()

	w := &world{
		relations: &relationTable{rows: map[int64]*models.Relation{}},
		products:  map[int64]int64{},
		variants:  map[int64]int64{},
		materials: map[int64]int64{},
		children:  map[int64]int64{},
	}

	log := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	w.ledger = ledger.NewService(w.relations, supplierTable{}, nil, log)

	graph := ownership.NewGraph(
		lookup(w.products),
		lookup(w.variants),
		lookup(w.materials),
		lookup(w.children),
		lookup(map[int64]int64{}),
		lookup(map[int64]int64{}),
	)
	w.gate = authz.NewGate(graph, w.relations)

	return w
}

type lookup map[int64]int64

func (l lookup) BrandID(_ context.Context, id int64) (int64, error)    { return l[id], nil }
func (l lookup) ProductID(_ context.Context, id int64) (int64, error)  { return l[id], nil }
func (l lookup) SupplierID(_ context.Context, id int64) (int64, error) { return l[id], nil }
func (l lookup) MaterialID(_ context.Context, id int64) (int64, error) { return l[id], nil }

// supplierTable treats every supplier id under 100 as provisioned
type supplierTable struct{}

func (supplierTable) Exists(_ context.Context, id int64) (bool, error) { return id < 100, nil }

type relationTable struct {
	rows   map[int64]*models.Relation
	nextID int64
}

func (s *relationTable) Create(_ context.Context, brandID, supplierID int64) (*models.Relation, error) {
	for _, r := range s.rows {
		if r.BrandID == brandID && r.SupplierID == supplierID {
			return nil, httperror.NewHTTPError(http.StatusConflict, "relation already exists")
		}
	}
	s.nextID++
	r := &models.Relation{ID: s.nextID, BrandID: brandID, SupplierID: supplierID, IsActive: true}
	s.rows[r.ID] = r
	return r, nil
}

func (s *relationTable) GetByID(_ context.Context, id int64) (*models.Relation, error) {
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (s *relationTable) ListByBrand(_ context.Context, brandID int64) ([]models.Relation, error) {
	var out []models.Relation
	for _, r := range s.rows {
		if r.BrandID == brandID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *relationTable) ListBySupplier(_ context.Context, supplierID int64) ([]models.Relation, error) {
	var out []models.Relation
	for _, r := range s.rows {
		if r.SupplierID == supplierID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *relationTable) SetActive(_ context.Context, id, brandID int64, active bool) (*models.Relation, error) {
	r, ok := s.rows[id]
	if !ok || r.BrandID != brandID {
		return nil, nil
	}
	r.IsActive = active
	copied := *r
	return &copied, nil
}

func (s *relationTable) Delete(_ context.Context, id, brandID int64) (bool, error) {
	r, ok := s.rows[id]
	if !ok || r.BrandID != brandID {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *relationTable) ListAvailableSuppliers(_ context.Context, brandID int64) ([]models.Supplier, error) {
	return nil, nil
}

func (s *relationTable) HasActiveRelation(_ context.Context, brandID, supplierID int64) (bool, error) {
	for _, r := range s.rows {
		if r.BrandID == brandID && r.SupplierID == supplierID {
			return r.IsActive, nil
		}
	}
	return false, nil
}

var (
	brandA    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 1}
	brandB    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 2}
	supplierX = brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: 10}
)

func TestRelationLifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	relation, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
	require.NoError(t, err)
	assert.True(t, relation.IsActive)

	t.Run("second create for the pair conflicts", func(t *testing.T) {
		_, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
	})

	t.Run("delete frees the pair", func(t *testing.T) {
		require.NoError(t, w.ledger.DeleteRelation(ctx, brandA, relation.ID))

		recreated, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
		require.NoError(t, err)
		assert.NotEqual(t, relation.ID, recreated.ID)
		assert.True(t, recreated.IsActive)
	})
}

func TestBrandAccessToRelatedSupplierData(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	w.materials[100] = supplierX.ID
	w.children[500] = 100

	_, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
	require.NoError(t, err)

	t.Run("related brand reads material and its children", func(t *testing.T) {
		decision, err := w.gate.Authorize(ctx, brandA, ownership.KindMaterial, 100, authz.VerbRead)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.True(t, decision.ReadOnly)

		decision, err = w.gate.Authorize(ctx, brandA, ownership.KindComposition, 500, authz.VerbRead)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
	})

	t.Run("related brand cannot write", func(t *testing.T) {
		decision, err := w.gate.Authorize(ctx, brandA, ownership.KindMaterial, 100, authz.VerbWrite)
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("unrelated brand is denied", func(t *testing.T) {
		decision, err := w.gate.Authorize(ctx, brandB, ownership.KindMaterial, 100, authz.VerbRead)
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})
}

func TestDeactivationCutsAccessImmediately(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	w.materials[100] = supplierX.ID

	relation, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
	require.NoError(t, err)

	decision, err := w.gate.Authorize(ctx, brandA, ownership.KindMaterial, 100, authz.VerbRead)
	require.NoError(t, err)
	require.True(t, decision.Allow)

	_, err = w.ledger.SetActive(ctx, brandA, relation.ID, false)
	require.NoError(t, err)

	t.Run("brand read is denied on the next check", func(t *testing.T) {
		decision, err := w.gate.Authorize(ctx, brandA, ownership.KindMaterial, 100, authz.VerbRead)
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("owning supplier is unaffected", func(t *testing.T) {
		decision, err := w.gate.Authorize(ctx, supplierX, ownership.KindMaterial, 100, authz.VerbWrite)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.False(t, decision.ReadOnly)
	})

	t.Run("reactivation restores read access", func(t *testing.T) {
		_, err := w.ledger.SetActive(ctx, brandA, relation.ID, true)
		require.NoError(t, err)

		decision, err := w.gate.Authorize(ctx, brandA, ownership.KindMaterial, 100, authz.VerbRead)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
	})
}

func TestMaterialDeleteOrphansNothing(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	w.materials[100] = supplierX.ID
	w.children[500] = 100

	_, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
	require.NoError(t, err)

	// material removed together with its children
	delete(w.materials, 100)
	delete(w.children, 500)

	for _, kind := range []ownership.Kind{ownership.KindMaterial, ownership.KindComposition} {
		id := int64(100)
		if kind == ownership.KindComposition {
			id = 500
		}
		_, err := w.gate.Authorize(ctx, brandA, kind, id, authz.VerbRead)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	}
}

func TestSuppliersCannotManageRelations(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	relation, err := w.ledger.CreateRelation(ctx, brandA, supplierX.ID)
	require.NoError(t, err)

	_, err = w.ledger.CreateRelation(ctx, supplierX, 11)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	_, err = w.ledger.SetActive(ctx, supplierX, relation.ID, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	err = w.ledger.DeleteRelation(ctx, supplierX, relation.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	// the supplier can still see which brands hold a relation to it
	relations, err := w.ledger.ListRelations(ctx, supplierX)
	require.NoError(t, err)
	assert.Len(t, relations, 1)
}
