// Package supplier exposes supplier profile endpoints. Suppliers read and
// update their own profile; brands read profiles of related suppliers.
package supplier

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/supplier"
	"github.com/Ramsey-B/bramble/pkg/authz"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/events"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	"github.com/Ramsey-B/bramble/pkg/tracing"
	"github.com/Ramsey-B/bramble/pkg/validation"
)

// Register registers supplier routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/:id", Get)
	g.PUT("/:id", Update)
}

// List returns the suppliers visible to the caller: a brand sees suppliers
// it holds an active relation to, a supplier sees only itself.
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "supplier_handler.List")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, repo, err := ectoinject.GetContext[*supplier.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	if tenant.IsBrand() {
		items, err := repo.ListRelatedToBrand(ctx, tenant.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, models.OK(models.SupplierListResponse{Items: items}))
	}

	self, err := repo.GetByID(ctx, tenant.ID)
	if err != nil {
		return err
	}
	items := []models.Supplier{}
	if self != nil {
		items = append(items, *self)
	}
	return c.JSON(http.StatusOK, models.OK(models.SupplierListResponse{Items: items}))
}

// Get returns a supplier profile
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "supplier_handler.Get")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid supplier id")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindSupplier, id, authz.VerbRead); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplier.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "supplier not found")
	}

	return c.JSON(http.StatusOK, models.OK(models.SupplierResponse{Supplier: *result}))
}

// Update applies a self-update to the caller's own supplier profile
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "supplier_handler.Update")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid supplier id")
	}

	var req models.UpdateSupplierRequest
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
	if err := gate.Require(ctx, tenant, ownership.KindSupplier, id, authz.VerbWrite); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplier.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "supplier not found")
	}

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.SupplierUpdated(ctx, *result)
	}

	return c.JSON(http.StatusOK, models.Mutated(models.SupplierResponse{Supplier: *result}))
}
