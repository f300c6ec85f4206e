// Package ownership resolves which tenant owns a resource by walking the
// parent chain: Variant -> Product -> Brand, and Composition/Certification/
// SupplyChainStep -> Material -> Supplier. Ownership is never stored
// redundantly on child rows; this graph is the only way to answer it.
package ownership

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// Kind identifies a resource type in the ownership hierarchy
type Kind string

const (
	KindBrand           Kind = "brand"
	KindSupplier        Kind = "supplier"
	KindProduct         Kind = "product"
	KindVariant         Kind = "variant"
	KindMaterial        Kind = "material"
	KindComposition     Kind = "composition"
	KindCertification   Kind = "certification"
	KindSupplyChainStep Kind = "supply_chain_step"
)

// ProductStore resolves a product's owning brand. Stores return 0 when the
// row does not exist.
type ProductStore interface {
	BrandID(ctx context.Context, id int64) (int64, error)
}

// VariantStore resolves a variant's parent product
type VariantStore interface {
	ProductID(ctx context.Context, id int64) (int64, error)
}

// MaterialStore resolves a material's owning supplier
type MaterialStore interface {
	SupplierID(ctx context.Context, id int64) (int64, error)
}

// MaterialChildStore resolves a material child row's parent material
type MaterialChildStore interface {
	MaterialID(ctx context.Context, id int64) (int64, error)
}

// Graph walks the resource hierarchy through repository lookups. Every hop
// reads current storage state, so a deleted link is seen immediately.
type Graph struct {
	products       ProductStore
	variants       VariantStore
	materials      MaterialStore
	compositions   MaterialChildStore
	certifications MaterialChildStore
	steps          MaterialChildStore
}

// NewGraph creates an ownership graph over the given stores
func NewGraph(
	products ProductStore,
	variants VariantStore,
	materials MaterialStore,
	compositions MaterialChildStore,
	certifications MaterialChildStore,
	steps MaterialChildStore,
) *Graph {
	return &Graph{
		products:       products,
		variants:       variants,
		materials:      materials,
		compositions:   compositions,
		certifications: certifications,
		steps:          steps,
	}
}

func notFound(kind Kind) error {
	return httperror.NewHTTPError(http.StatusNotFound, string(kind)+" not found")
}

// Parent resolves the immediate parent of a resource. Brands and suppliers
// are roots and have no parent. A missing row is NotFound, never an
// unowned-resource answer.
func (g *Graph) Parent(ctx context.Context, kind Kind, id int64) (Kind, int64, error) {
	ctx, span := tracing.StartSpan(ctx, "Graph.Parent")
	defer span.End()

	switch kind {
	case KindProduct:
		brandID, err := g.products.BrandID(ctx, id)
		if err != nil {
			return "", 0, err
		}
		if brandID == 0 {
			return "", 0, notFound(kind)
		}
		return KindBrand, brandID, nil
	case KindVariant:
		productID, err := g.variants.ProductID(ctx, id)
		if err != nil {
			return "", 0, err
		}
		if productID == 0 {
			return "", 0, notFound(kind)
		}
		return KindProduct, productID, nil
	case KindMaterial:
		supplierID, err := g.materials.SupplierID(ctx, id)
		if err != nil {
			return "", 0, err
		}
		if supplierID == 0 {
			return "", 0, notFound(kind)
		}
		return KindSupplier, supplierID, nil
	case KindComposition:
		return g.materialParent(ctx, g.compositions, kind, id)
	case KindCertification:
		return g.materialParent(ctx, g.certifications, kind, id)
	case KindSupplyChainStep:
		return g.materialParent(ctx, g.steps, kind, id)
	default:
		return "", 0, httperror.NewHTTPError(http.StatusInternalServerError, "no parent for "+string(kind))
	}
}

func (g *Graph) materialParent(ctx context.Context, store MaterialChildStore, kind Kind, id int64) (Kind, int64, error) {
	materialID, err := store.MaterialID(ctx, id)
	if err != nil {
		return "", 0, err
	}
	if materialID == 0 {
		return "", 0, notFound(kind)
	}
	return KindMaterial, materialID, nil
}

// OwnerTenant walks the chain from a resource to its owning tenant. Any
// missing link along the way fails with NotFound.
func (g *Graph) OwnerTenant(ctx context.Context, kind Kind, id int64) (brcontext.Tenant, error) {
	ctx, span := tracing.StartSpan(ctx, "Graph.OwnerTenant")
	defer span.End()

	for {
		switch kind {
		case KindBrand:
			return brcontext.Tenant{Kind: brcontext.TenantKindBrand, ID: id}, nil
		case KindSupplier:
			return brcontext.Tenant{Kind: brcontext.TenantKindSupplier, ID: id}, nil
		}

		parentKind, parentID, err := g.Parent(ctx, kind, id)
		if err != nil {
			return brcontext.Tenant{}, err
		}
		kind, id = parentKind, parentID
	}
}
