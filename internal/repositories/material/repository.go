// Package material persists materials and owns the cascade that removes a
// material together with its compositions, certifications and supply-chain
// steps in one transaction.
package material

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

// MaterialRepository defines the interface for material operations
type MaterialRepository interface {
	Create(ctx context.Context, supplierID int64, req models.CreateMaterialRequest) (*models.Material, error)
	GetByID(ctx context.Context, id int64) (*models.Material, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]models.Material, error)
	Update(ctx context.Context, id int64, req models.UpdateMaterialRequest) (*models.Material, error)
	DeleteCascade(ctx context.Context, id int64) (bool, error)
	SupplierID(ctx context.Context, id int64) (int64, error)
}

// Repository implements MaterialRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new material repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "materials"

var materialColumns = []string{
	"id", "supplier_id", "material_name", "material_type", "description",
	"created_at", "updated_at",
}

// childTables are removed together with their material. Order matters only
// for readability; nothing references these rows.
var childTables = []string{"material_compositions", "material_certifications", "supply_chain_steps"}

// Create creates a material under a supplier
func (r *Repository) Create(ctx context.Context, supplierID int64, req models.CreateMaterialRequest) (*models.Material, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("supplier_id", "material_name", "material_type", "description", "created_at", "updated_at")
	sb.Values(supplierID, req.MaterialName, req.MaterialType, req.Description, now, now)
	sb.Returning(materialColumns...)

	query, args := sb.Build()

	var m models.Material
	err := r.db.GetContext(ctx, &m, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("supplier_id", supplierID).Error("failed to create material")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create material")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"material_id": m.ID,
		"supplier_id": supplierID,
	}).Info("created material")

	return &m, nil
}

// GetByID gets a material by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(materialColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var m models.Material
	err := r.db.GetContext(ctx, &m, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", id).Error("failed to get material")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get material")
	}

	return &m, nil
}

// ListBySupplier lists a supplier's materials in insertion order
func (r *Repository) ListBySupplier(ctx context.Context, supplierID int64) ([]models.Material, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.ListBySupplier")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(materialColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("supplier_id", supplierID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.Material{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("supplier_id", supplierID).Error("failed to list materials")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list materials")
	}

	return items, nil
}

// Update updates a material
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateMaterialRequest) (*models.Material, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.Update")
	defer span.End()

	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(sb.Assign("updated_at", time.Now().UTC()))

	if req.MaterialName != nil {
		sb.Set(sb.Assign("material_name", *req.MaterialName))
	}
	if req.MaterialType != nil {
		sb.Set(sb.Assign("material_type", *req.MaterialType))
	}
	if req.Description != nil {
		sb.Set(sb.Assign("description", *req.Description))
	}

	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", id).Error("failed to update material")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update material")
	}

	return r.GetByID(ctx, id)
}

// DeleteCascade removes a material and all of its children in a single
// transaction. Either everything goes or nothing does; no orphaned child can
// survive a partial failure.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.DeleteCascade")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	for _, table := range childTables {
		sb := database.NewDeleteBuilder()
		sb.DeleteFrom(table)
		sb.Where(sb.Equal("material_id", id))
		query, args := sb.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"material_id": id,
				"table":       table,
			}).Error("failed to delete material children")
			return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete material children")
		}
	}

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", id).Error("failed to delete material")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete material")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// nothing to remove; let the rollback discard the child deletes
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", id).Error("failed to commit material cascade delete")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}

	r.logger.WithContext(ctx).WithField("material_id", id).Info("deleted material and children")

	return true, nil
}

// SupplierID resolves the owning supplier of a material. Returns 0 when the
// material does not exist.
func (r *Repository) SupplierID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "MaterialRepository.SupplierID")
	defer span.End()

	var supplierID int64
	err := r.db.GetContext(ctx, &supplierID, "SELECT supplier_id FROM materials WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", id).Error("failed to resolve material owner")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve material owner")
	}

	return supplierID, nil
}
