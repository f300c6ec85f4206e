// Package materialcomposition persists material composition lines.
package materialcomposition

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/bramble/pkg/database"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// CompositionRepository defines the interface for composition operations
type CompositionRepository interface {
	Create(ctx context.Context, materialID int64, req models.CreateCompositionRequest) (*models.MaterialComposition, error)
	GetByID(ctx context.Context, materialID, id int64) (*models.MaterialComposition, error)
	ListByMaterial(ctx context.Context, materialID int64) ([]models.MaterialComposition, error)
	Update(ctx context.Context, materialID, id int64, req models.UpdateCompositionRequest) (*models.MaterialComposition, error)
	Delete(ctx context.Context, materialID, id int64) (bool, error)
	MaterialID(ctx context.Context, id int64) (int64, error)
}

// Repository implements CompositionRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new composition repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "material_compositions"

var compositionColumns = []string{
	"id", "material_id", "content_name", "content_value", "content_source",
	"recycled", "recycled_percentage", "recycled_input_source",
	"created_at", "updated_at",
}

// Create adds a composition line to a material
func (r *Repository) Create(ctx context.Context, materialID int64, req models.CreateCompositionRequest) (*models.MaterialComposition, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("material_id", "content_name", "content_value", "content_source", "recycled", "recycled_percentage", "recycled_input_source", "created_at", "updated_at")
	sb.Values(materialID, req.ContentName, req.ContentValue, req.ContentSource, req.Recycled, req.RecycledPercentage, req.RecycledInputSource, now, now)
	sb.Returning(compositionColumns...)

	query, args := sb.Build()

	var c models.MaterialComposition
	err := r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to create composition")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create composition")
	}

	return &c, nil
}

// GetByID gets a composition by id, scoped to its material so an id from a
// different material resolves to nothing
func (r *Repository) GetByID(ctx context.Context, materialID, id int64) (*models.MaterialComposition, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(compositionColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	var c models.MaterialComposition
	err := r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("composition_id", id).Error("failed to get composition")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get composition")
	}

	return &c, nil
}

// ListByMaterial lists a material's composition lines in insertion order
func (r *Repository) ListByMaterial(ctx context.Context, materialID int64) ([]models.MaterialComposition, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.ListByMaterial")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(compositionColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("material_id", materialID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.MaterialComposition{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to list compositions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list compositions")
	}

	return items, nil
}

// Update updates a composition line
func (r *Repository) Update(ctx context.Context, materialID, id int64, req models.UpdateCompositionRequest) (*models.MaterialComposition, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.Update")
	defer span.End()

	existing, err := r.GetByID(ctx, materialID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(sb.Assign("updated_at", time.Now().UTC()))

	if req.ContentName != nil {
		sb.Set(sb.Assign("content_name", *req.ContentName))
	}
	if req.ContentValue != nil {
		sb.Set(sb.Assign("content_value", *req.ContentValue))
	}
	if req.ContentSource != nil {
		sb.Set(sb.Assign("content_source", *req.ContentSource))
	}
	if req.Recycled != nil {
		sb.Set(sb.Assign("recycled", *req.Recycled))
	}
	if req.RecycledPercentage != nil {
		sb.Set(sb.Assign("recycled_percentage", *req.RecycledPercentage))
	}
	if req.RecycledInputSource != nil {
		sb.Set(sb.Assign("recycled_input_source", *req.RecycledInputSource))
	}

	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("composition_id", id).Error("failed to update composition")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update composition")
	}

	return r.GetByID(ctx, materialID, id)
}

// Delete removes a composition line
func (r *Repository) Delete(ctx context.Context, materialID, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("composition_id", id).Error("failed to delete composition")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete composition")
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// MaterialID resolves the parent material of a composition. Returns 0 when
// the composition does not exist.
func (r *Repository) MaterialID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "CompositionRepository.MaterialID")
	defer span.End()

	var materialID int64
	err := r.db.GetContext(ctx, &materialID, "SELECT material_id FROM material_compositions WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("composition_id", id).Error("failed to resolve composition parent")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve composition parent")
	}

	return materialID, nil
}
