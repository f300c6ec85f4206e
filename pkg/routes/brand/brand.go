// Package brand exposes read-only brand reference endpoints.
package brand

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/brand"
	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// Register registers brand routes
func Register(g *echo.Group) {
	g.GET("/:id", Get)
}

// Get returns a brand. Reference data, readable by any authenticated tenant.
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "brand_handler.Get")
	defer span.End()

	if _, ok := brcontext.GetTenant(ctx); !ok {
		return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid brand id")
	}

	ctx, repo, err := ectoinject.GetContext[*brand.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "brand not found")
	}

	return c.JSON(http.StatusOK, models.OK(result))
}
