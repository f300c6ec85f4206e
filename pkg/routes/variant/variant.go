// Package variant exposes the flat variant endpoints. Creation and listing
// live under the product routes; this package handles lookups and leaf
// deletes by variant id.
package variant

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/variant"
	"github.com/Ramsey-B/bramble/pkg/authz"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/events"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// Register registers variant routes
func Register(g *echo.Group) {
	g.GET("/:id", Get)
	g.DELETE("/:id", Delete)
}

// Get returns a single variant
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "variant_handler.Get")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid variant id")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindVariant, id, authz.VerbRead); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*variant.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "variant not found")
	}

	return c.JSON(http.StatusOK, models.OK(models.VariantResponse{Variant: *result}))
}

// Delete removes a variant. Leaf removal, nothing else is touched.
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "variant_handler.Delete")
	defer span.End()

	tenant, ok := brcontext.GetTenant(ctx)
	if !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid variant id")
	}

	ctx, gate, err := ectoinject.GetContext[*authz.Gate](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gate")
	}
	if err := gate.Require(ctx, tenant, ownership.KindVariant, id, authz.VerbWrite); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*variant.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "variant not found")
	}

	// only the owning brand passes the write gate
	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil {
		emitter.VariantDeleted(ctx, tenant.ID, id)
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}
