package material

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/bramble/internal/repositories/materialcomposition"
	"github.com/Ramsey-B/bramble/internal/repositories/materialcertification"
	"github.com/Ramsey-B/bramble/internal/repositories/supplychainstep"
	"github.com/Ramsey-B/bramble/pkg/authz"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
	"github.com/Ramsey-B/bramble/pkg/validation"
)

// Child resources are authorized against their parent material: the material
// id is in every path, and whoever may touch the material may touch its
// children the same way.
func registerChildren(g *echo.Group) {
	g.GET("/:id/compositions", ListCompositions)
	g.POST("/:id/compositions", CreateComposition)
	g.PUT("/:id/compositions/:childId", UpdateComposition)
	g.DELETE("/:id/compositions/:childId", DeleteComposition)

	g.GET("/:id/certifications", ListCertifications)
	g.POST("/:id/certifications", CreateCertification)
	g.PUT("/:id/certifications/:childId", UpdateCertification)
	g.DELETE("/:id/certifications/:childId", DeleteCertification)

	g.GET("/:id/supply-chain", ListSteps)
	g.POST("/:id/supply-chain", CreateStep)
	g.PUT("/:id/supply-chain/:childId", UpdateStep)
	g.DELETE("/:id/supply-chain/:childId", DeleteStep)
}

// ListCompositions returns a material's composition lines
func ListCompositions(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.ListCompositions")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbRead)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcomposition.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListByMaterial(ctx, materialID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(map[string]any{"items": items}))
}

// CreateComposition adds a composition line to a material
func CreateComposition(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.CreateComposition")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	var req models.CreateCompositionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcomposition.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, materialID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.Mutated(result))
}

// UpdateComposition updates a composition line
func UpdateComposition(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.UpdateComposition")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid composition id")
	if err != nil {
		return err
	}

	var req models.UpdateCompositionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcomposition.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, materialID, childID, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "composition not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(result))
}

// DeleteComposition removes a composition line
func DeleteComposition(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.DeleteComposition")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid composition id")
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcomposition.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	deleted, err := repo.Delete(ctx, materialID, childID)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "composition not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}

// ListCertifications returns a material's certifications
func ListCertifications(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.ListCertifications")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbRead)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcertification.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListByMaterial(ctx, materialID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(map[string]any{"items": items}))
}

// CreateCertification adds a certification to a material
func CreateCertification(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.CreateCertification")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	var req models.CreateCertificationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcertification.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, materialID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.Mutated(result))
}

// UpdateCertification updates a certification
func UpdateCertification(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.UpdateCertification")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid certification id")
	if err != nil {
		return err
	}

	var req models.UpdateCertificationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcertification.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, materialID, childID, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "certification not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(result))
}

// DeleteCertification removes a certification
func DeleteCertification(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.DeleteCertification")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid certification id")
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*materialcertification.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	deleted, err := repo.Delete(ctx, materialID, childID)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "certification not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}

// ListSteps returns a material's supply-chain steps
func ListSteps(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.ListSteps")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbRead)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplychainstep.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListByMaterial(ctx, materialID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.OK(map[string]any{"items": items}))
}

// CreateStep adds a supply-chain step to a material
func CreateStep(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.CreateStep")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	var req models.CreateSupplyChainStepRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplychainstep.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Create(ctx, materialID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, models.Mutated(result))
}

// UpdateStep updates a supply-chain step
func UpdateStep(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.UpdateStep")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid step id")
	if err != nil {
		return err
	}

	var req models.UpdateSupplyChainStepRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplychainstep.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	result, err := repo.Update(ctx, materialID, childID, req)
	if err != nil {
		return err
	}
	if result == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "supply chain step not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(result))
}

// DeleteStep removes a supply-chain step
func DeleteStep(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "material_handler.DeleteStep")
	defer span.End()

	materialID, _, err := requireMaterial(c, authz.VerbWrite)
	if err != nil {
		return err
	}

	childID, err := paramID(c, "childId", "invalid step id")
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*supplychainstep.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	deleted, err := repo.Delete(ctx, materialID, childID)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "supply chain step not found")
	}

	return c.JSON(http.StatusOK, models.Mutated(nil))
}
