package ownership

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
)

type fakeStores struct {
	productBrand    map[int64]int64
	variantProduct  map[int64]int64
	materialOwner   map[int64]int64
	compositionMat  map[int64]int64
	certificationMa map[int64]int64
	stepMat         map[int64]int64
}

func (f *fakeStores) BrandID(ctx context.Context, id int64) (int64, error) {
	return f.productBrand[id], nil
}

func (f *fakeStores) ProductID(ctx context.Context, id int64) (int64, error) {
	return f.variantProduct[id], nil
}

func (f *fakeStores) SupplierID(ctx context.Context, id int64) (int64, error) {
	return f.materialOwner[id], nil
}

type childLookup map[int64]int64

func (c childLookup) MaterialID(ctx context.Context, id int64) (int64, error) {
	return c[id], nil
}

func newTestGraph(f *fakeStores) *Graph {
	return NewGraph(f, f, f,
		childLookup(f.compositionMat),
		childLookup(f.certificationMa),
		childLookup(f.stepMat),
	)
}

func TestOwnerTenantWalksVariantToBrand(t *testing.T) {
	g := newTestGraph(&fakeStores{
		productBrand:   map[int64]int64{10: 1},
		variantProduct: map[int64]int64{100: 10},
	})

	owner, err := g.OwnerTenant(context.Background(), KindVariant, 100)
	require.NoError(t, err)
	assert.Equal(t, brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 1}, owner)
}

func TestOwnerTenantWalksCompositionToSupplier(t *testing.T) {
	g := newTestGraph(&fakeStores{
		materialOwner:  map[int64]int64{20: 2},
		compositionMat: map[int64]int64{200: 20},
	})

	owner, err := g.OwnerTenant(context.Background(), KindComposition, 200)
	require.NoError(t, err)
	assert.Equal(t, brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: 2}, owner)
}

func TestOwnerTenantRootsResolveDirectly(t *testing.T) {
	g := newTestGraph(&fakeStores{})

	owner, err := g.OwnerTenant(context.Background(), KindSupplier, 7)
	require.NoError(t, err)
	assert.Equal(t, brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: 7}, owner)

	owner, err = g.OwnerTenant(context.Background(), KindBrand, 3)
	require.NoError(t, err)
	assert.Equal(t, brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: 3}, owner)
}

func TestOwnerTenantDanglingLinkIsNotFound(t *testing.T) {
	// variant exists but its product is gone
	g := newTestGraph(&fakeStores{
		variantProduct: map[int64]int64{100: 10},
	})

	_, err := g.OwnerTenant(context.Background(), KindVariant, 100)
	require.Error(t, err)
	require.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestParentMissingRowIsNotFound(t *testing.T) {
	g := newTestGraph(&fakeStores{})

	for _, kind := range []Kind{KindProduct, KindVariant, KindMaterial, KindComposition, KindCertification, KindSupplyChainStep} {
		_, _, err := g.Parent(context.Background(), kind, 999)
		require.Error(t, err, "kind %s", kind)
		require.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
	}
}

func TestParentResolvesOneHop(t *testing.T) {
	g := newTestGraph(&fakeStores{
		materialOwner: map[int64]int64{20: 2},
		stepMat:       map[int64]int64{300: 20},
	})

	kind, id, err := g.Parent(context.Background(), KindSupplyChainStep, 300)
	require.NoError(t, err)
	assert.Equal(t, KindMaterial, kind)
	assert.Equal(t, int64(20), id)

	kind, id, err = g.Parent(context.Background(), KindMaterial, 20)
	require.NoError(t, err)
	assert.Equal(t, KindSupplier, kind)
	assert.Equal(t, int64(2), id)
}
