// Package material exposes material endpoints and the composition,
// certification and supply-chain step endpoints nested under a material.
// Suppliers write their own materials; brands with an active relation read
// them.
package material

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/material"
	"github.com/Ramsey-B/bramble/pkg/authz"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/events"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	"github.com/Ramsey-B/bramble/pkg/tracing"
	"github.com/Ramsey-B/bramble/pkg/validation"
)

// Register registers material routes and the child-resource routes nested
// under a material
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/:id", Get)
	g.PUT("/:id", Update)
	g.DELETE("/:id", Delete)

	registerChildren(g)
}

func paramID(c echo.Context, name, message string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, httperror.NewHTTPError(http.StatusBadRequest, message)
	}
	return id, nil
}

func requireMaterial(c echo.Context, verb authz.Verb) (int64, brcontext.Tenant, error) {
	ctx := c.Request().Context()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return 0, tenant, httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := paramID(c, "id", "invalid material id")
	if err != nil {
		return 0, tenant, err
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return 0, tenant, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindMaterial, id, verb); err != nil {
		return 0, tenant, err
	}

	return id, tenant, nil
}

// List returns materials: a supplier's own, or a related supplier's when a
// brand passes supplier_id
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.List")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	supplierID := tenant.ID
	if tenant.IsBrand() {
		parsed, err := strconv.ParseInt(c.QueryParam("supplier_id"), 10, 64)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "supplier_id is required")
		}
		supplierID = parsed

		ctx2, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
		}
		ctx = ctx2
		if err := gate.Require(ctx, tenant, ownership.KindSupplier, supplierID, authz.VerbRead); err != nil {
			return err
		}
	}

	ctx, repo, err := ectoinject.GetContext[*material.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(models.MaterialListResponse{Items: items}))
}

// Create creates a material under the caller's own supplier
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.Create")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.RequireRoot(tenant, ownership.KindSupplier); err != nil {
		return err
	}

	var req models.CreateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*material.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, tenant.ID, req)
	if err != nil {
		return err
	}

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.MaterialCreated(ctx, *result)
	}

	return c.JSON(http.StatusCreated, models.Mutated(models.MaterialResponse{Material: *result}))
}

// Get returns a single material
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.Get")
	defer span.End()

	id, _, err := requireMaterial(c, authz.VerbRead)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*material.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "material not found")
	}

	return c.JSON(http.StatusOK, models.OK(models.MaterialResponse{Material: *result}))
}

// Update updates a material
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.Update")
	defer span.End()

	id, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	var req models.UpdateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*material.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "material not found")
	}

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.MaterialUpdated(ctx, *result)
	}

	return c.JSON(http.StatusOK, models.Mutated(models.MaterialResponse{Material: *result}))
}

// Delete removes a material and all of its children in one transaction
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.Delete")
	defer span.End()

	id, tenant, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*material.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	deleted, err := repo.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "material not found")
	}

	// only the owning supplier passes the write gate
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.MaterialDeleted(ctx, tenant.ID, id)
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}
