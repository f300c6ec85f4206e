package authz

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/ownership"
)

type fakeOwners struct {
	owners map[ownership.Kind]map[int64]brcontext.Tenant
}

func (f *fakeOwners) OwnerTenant(ctx context.Context, kind ownership.Kind, id int64) (brcontext.Tenant, error) {
	owner, ok := f.owners[kind][id]
	if !ok {
		return brcontext.Tenant{}, httperror.NewHTTPError(http.StatusNotFound, string(kind)+" not found")
	}
	return owner, nil
}

type fakeRelations struct {
	active map[[2]int64]bool
}

func (f *fakeRelations) HasActiveRelation(ctx context.Context, brandID, supplierID int64) (bool, error) {
	return f.active[[2]int64{brandID, supplierID}], nil
}

var (
	brandA    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 1}
	brandB    = brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 2}
	supplierS = brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: 10}
)

func newTestGate(active bool) *Gate {
	owners := &fakeOwners{owners: map[ownership.Kind]map[int64]brcontext.Tenant{
		ownership.KindMaterial: {100: supplierS},
		ownership.KindSupplier: {10: supplierS},
		ownership.KindProduct:  {200: brandA},
		ownership.KindVariant:  {300: brandA},
	}}
	relations := &fakeRelations{active: map[[2]int64]bool{}}
	if active {
		relations.active[[2]int64{brandA.ID, supplierS.ID}] = true
	}
	return NewGate(owners, relations)
}

func TestOwnerGetsReadAndWrite(t *testing.T) {
	gate := newTestGate(false)

	for _, verb := range []Verb{VerbRead, VerbWrite} {
		decision, err := gate.Authorize(context.Background(), supplierS, ownership.KindMaterial, 100, verb)
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.False(t, decision.ReadOnly)
	}

	decision, err := gate.Authorize(context.Background(), brandA, ownership.KindVariant, 300, VerbWrite)
	require.NoError(t, err)
	assert.True(t, decision.Allow)
}

func TestRelatedBrandIsReadOnly(t *testing.T) {
	gate := newTestGate(true)

	decision, err := gate.Authorize(context.Background(), brandA, ownership.KindMaterial, 100, VerbRead)
	require.NoError(t, err)
	assert.True(t, decision.Allow)
	assert.True(t, decision.ReadOnly)

	decision, err = gate.Authorize(context.Background(), brandA, ownership.KindMaterial, 100, VerbWrite)
	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.NotEmpty(t, decision.Reason)
}

func TestInactiveRelationIsFullDeny(t *testing.T) {
	gate := newTestGate(false)

	decision, err := gate.Authorize(context.Background(), brandA, ownership.KindMaterial, 100, VerbRead)
	require.NoError(t, err)
	assert.False(t, decision.Allow)
}

func TestUnrelatedBrandIsDenied(t *testing.T) {
	gate := newTestGate(true)

	decision, err := gate.Authorize(context.Background(), brandB, ownership.KindMaterial, 100, VerbRead)
	require.NoError(t, err)
	assert.False(t, decision.Allow)
}

func TestSupplierNeverSeesBrandCatalog(t *testing.T) {
	gate := newTestGate(true)

	for _, verb := range []Verb{VerbRead, VerbWrite} {
		decision, err := gate.Authorize(context.Background(), supplierS, ownership.KindProduct, 200, verb)
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	}
}

func TestMissingResourceIsNotFoundNotDeny(t *testing.T) {
	gate := newTestGate(true)

	_, err := gate.Authorize(context.Background(), brandA, ownership.KindMaterial, 999, VerbRead)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestRequireRootKeepsCreateDecisionsInTheGate(t *testing.T) {
	gate := newTestGate(true)

	require.NoError(t, gate.RequireRoot(brandA, ownership.KindBrand))
	require.NoError(t, gate.RequireRoot(supplierS, ownership.KindSupplier))

	// a brand can never create under a supplier root, related or not
	err := gate.RequireRoot(brandA, ownership.KindSupplier)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	err = gate.RequireRoot(supplierS, ownership.KindBrand)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	err = gate.RequireRoot(brandA, ownership.KindMaterial)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))
}

func TestRequireTurnsDenyIntoForbidden(t *testing.T) {
	gate := newTestGate(false)

	err := gate.Require(context.Background(), brandA, ownership.KindMaterial, 100, VerbRead)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httperror.GetStatusCode(err))

	err = gate.Require(context.Background(), supplierS, ownership.KindMaterial, 100, VerbWrite)
	require.NoError(t, err)
}
