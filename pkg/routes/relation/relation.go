// Package relation exposes the brand-supplier relation lifecycle endpoints.
// All decisions live in the ledger service; handlers only bind, validate and
// render.
package relation

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/ledger"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
	"github.com/Ramsey-B/bramble/pkg/validation"
)

// Register registers relation routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/available", Available)
	g.POST("", Create)
	g.PUT("/:id/activate", Activate)
	g.PUT("/:id/deactivate", Deactivate)
	g.DELETE("/:id", Delete)
}

// List returns the caller's relations
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "relation_handler.List")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, svc, err := ectoinject.GetContext[*ledger.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ledger service")
	}

	items, err := svc.ListRelations(ctx, tenant)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(models.RelationListResponse{Items: items}))
}

// Available returns suppliers the brand has no relation to yet
func Available(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "relation_handler.Available")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, svc, err := ectoinject.GetContext[*ledger.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ledger service")
	}

	items, err := svc.ListAvailableSuppliers(ctx, tenant)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(models.SupplierListResponse{Items: items}))
}

// Create links the brand to a supplier
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "relation_handler.Create")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	var req models.CreateRelationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*ledger.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ledger service")
	}

	relation, err := svc.CreateRelation(ctx, tenant, req.SupplierID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.Mutated(relation))
}

// Activate sets the relation active
func Activate(c echo.Context) error {
	return setActive(c, true, "relation_handler.Activate")
}

// Deactivate sets the relation inactive, cutting the brand's access to the
// supplier's data immediately
func Deactivate(c echo.Context) error {
	return setActive(c, false, "relation_handler.Deactivate")
}

func setActive(c echo.Context, active bool, spanName string) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, spanName)
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid relation id")
	}

	ctx, svc, err := ectoinject.GetContext[*ledger.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ledger service")
	}

	relation, err := svc.SetActive(ctx, tenant, id, active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.Mutated(relation))
}

// Delete permanently removes the relation, freeing the pair
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "relation_handler.Delete")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid relation id")
	}

	ctx, svc, err := ectoinject.GetContext[*ledger.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get ledger service")
	}

	if err := svc.DeleteRelation(ctx, tenant, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}
