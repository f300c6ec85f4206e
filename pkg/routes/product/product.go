// Package product exposes brand catalog endpoints: products and the variants
// nested under them. Catalog data is brand-owned; suppliers are never granted
// access.
package product

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/product"
	"github.com/Ramsey-B/bramble/internal/repositories/variant"
	"github.com/Ramsey-B/bramble/pkg/authz"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/events"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	"github.com/Ramsey-B/bramble/pkg/tracing"
	"github.com/Ramsey-B/bramble/pkg/validation"
)

// Register registers product routes. Product delete is intentionally absent.
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/:id", Get)
	g.PUT("/:id", Update)
	g.GET("/:id/variants", ListVariants)
	g.POST("/:id/variants", CreateVariant)
}

func paramID(c echo.Context, name, message string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, message)
	}
	return id, nil
}

// List returns the brand's own products
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.List")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.RequireRoot(tenant, ownership.KindBrand); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*product.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListByBrand(ctx, tenant.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(models.ProductListResponse{Items: items}))
}

// Create creates a product under the caller's brand
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.Create")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.RequireRoot(tenant, ownership.KindBrand); err != nil {
		return err
	}

	var req models.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*product.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, tenant.ID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.Mutated(models.ProductResponse{Product: *result}))
}

// Get returns a single product
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.Get")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := paramID(c, "id", "invalid product id")
	if err != nil {
		return err
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindProduct, id, authz.VerbRead); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*product.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, models.OK(models.ProductResponse{Product: *result}))
}

// Update updates a product
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.Update")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := paramID(c, "id", "invalid product id")
	if err != nil {
		return err
	}

	var req models.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindProduct, id, authz.VerbWrite); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*product.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(models.ProductResponse{Product: *result}))
}

// ListVariants returns a product's variants
func ListVariants(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.ListVariants")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	productID, err := paramID(c, "id", "invalid product id")
	if err != nil {
		return err
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindProduct, productID, authz.VerbRead); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*variant.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(models.VariantListResponse{Items: items}))
}

// CreateVariant creates a variant under a product. Authorized against the
// parent product since the variant does not exist yet.
func CreateVariant(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "product_handler.CreateVariant")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	productID, err := paramID(c, "id", "invalid product id")
	if err != nil {
		return err
	}

	var req models.CreateVariantRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindProduct, productID, authz.VerbWrite); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*variant.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, productID, req)
	if err != nil {
		return err
	}

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.VariantCreated(ctx, tenant.ID, *result)
	}

	return c.JSON(http.StatusCreated, models.Mutated(models.VariantResponse{Variant: *result}))
}
