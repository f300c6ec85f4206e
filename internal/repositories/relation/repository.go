// Package relation persists brand-supplier relation rows. All lifecycle
// decisions live in pkg/ledger; this package only moves rows.
package relation

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/lib/pq"

	"github.com/Ramsey-B/bramble/pkg/database"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// RelationRepository defines the storage interface for relation rows
type RelationRepository interface {
	Create(ctx context.Context, brandID, supplierID int64) (*models.Relation, error)
	GetByID(ctx context.Context, id int64) (*models.Relation, error)
	GetByPair(ctx context.Context, brandID, supplierID int64) (*models.Relation, error)
	ListByBrand(ctx context.Context, brandID int64) ([]models.Relation, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]models.Relation, error)
	SetActive(ctx context.Context, id, brandID int64, active bool) (*models.Relation, error)
	Delete(ctx context.Context, id, brandID int64) (bool, error)
	ListAvailableSuppliers(ctx context.Context, brandID int64) ([]models.Supplier, error)
	HasActiveRelation(ctx context.Context, brandID, supplierID int64) (bool, error)
}

// Repository implements RelationRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new relation repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "brand_supplier_relations"

const uniqueViolation = "23505"

var relationColumns = []string{"id", "brand_id", "supplier_id", "is_active", "created_at"}

// Create inserts an active relation row. The unique (brand_id, supplier_id)
// constraint is the last line of defense against a concurrent duplicate
// create; a violation surfaces as 409.
func (r *Repository) Create(ctx context.Context, brandID, supplierID int64) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.Create")
	defer span.End()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("brand_id", "supplier_id", "is_active", "created_at")
	sb.Values(brandID, supplierID, true, time.Now().UTC())
	sb.Returning(relationColumns...)

	query, args := sb.Build()

	var rel models.Relation
	err := r.db.GetContext(ctx, &rel, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return nil, httperror.NewHTTPError(http.StatusConflict, "relation for this brand and supplier already exists")
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"brand_id":    brandID,
			"supplier_id": supplierID,
		}).Error("failed to create relation")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create relation")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"relation_id": rel.ID,
		"brand_id":    brandID,
		"supplier_id": supplierID,
	}).Info("created relation")

	return &rel, nil
}

// GetByID gets a relation row by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(relationColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var rel models.Relation
	err := r.db.GetContext(ctx, &rel, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("relation_id", id).Error("failed to get relation")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get relation")
	}

	return &rel, nil
}

// GetByPair gets the relation row for a (brand, supplier) pair in any state
func (r *Repository) GetByPair(ctx context.Context, brandID, supplierID int64) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.GetByPair")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(relationColumns...)
	sb.From(tableName)
	sb.Where(
		sb.Equal("brand_id", brandID),
		sb.Equal("supplier_id", supplierID),
	)

	query, args := sb.Build()

	var rel models.Relation
	err := r.db.GetContext(ctx, &rel, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get relation by pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get relation")
	}

	return &rel, nil
}

// ListByBrand lists a brand's relations in insertion order
func (r *Repository) ListByBrand(ctx context.Context, brandID int64) ([]models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.ListByBrand")
	defer span.End()

	return r.list(ctx, "brand_id", brandID)
}

// ListBySupplier lists a supplier's relations in insertion order
func (r *Repository) ListBySupplier(ctx context.Context, supplierID int64) ([]models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.ListBySupplier")
	defer span.End()

	return r.list(ctx, "supplier_id", supplierID)
}

func (r *Repository) list(ctx context.Context, column string, id int64) ([]models.Relation, error) {
	sb := database.NewSelectBuilder()
	sb.Select(relationColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal(column, id))
	// stable insertion order so caller UIs render deterministically
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.Relation{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField(column, id).Error("failed to list relations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list relations")
	}

	return items, nil
}

// SetActive flips is_active on the brand's own relation row. The single-row
// UPDATE serializes concurrent toggles on the row lock; setting the same
// state twice is a no-op success. Returns (nil, nil) when no row matches the
// (id, brand_id) scope.
func (r *Repository) SetActive(ctx context.Context, id, brandID int64, active bool) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.SetActive")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)
	sb.Set(sb.Assign("is_active", active))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("brand_id", brandID),
	)
	sb.SQL("RETURNING id, brand_id, supplier_id, is_active, created_at")

	query, args := sb.Build()

	var rel models.Relation
	err := r.db.GetContext(ctx, &rel, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"relation_id": id,
			"brand_id":    brandID,
			"active":      active,
		}).Error("failed to set relation active state")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update relation")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"relation_id": rel.ID,
		"brand_id":    brandID,
		"active":      active,
	}).Info("set relation active state")

	return &rel, nil
}

// Delete permanently removes the brand's own relation row, freeing the
// (brand, supplier) pair for a future re-create. Returns false when no row
// matched.
func (r *Repository) Delete(ctx context.Context, id, brandID int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("brand_id", brandID),
	)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"relation_id": id,
			"brand_id":    brandID,
		}).Error("failed to delete relation")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete relation")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return false, nil
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"relation_id": id,
		"brand_id":    brandID,
	}).Info("deleted relation")

	return true, nil
}

// ListAvailableSuppliers lists suppliers that have no relation row to this
// brand in any state.
func (r *Repository) ListAvailableSuppliers(ctx context.Context, brandID int64) ([]models.Supplier, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.ListAvailableSuppliers")
	defer span.End()

	query := `
		SELECT s.id, s.name, s.location, s.facility_registry, s.facility_identifier,
		       s.operator_registry, s.operator_identifier, s.lei, s.gs1_company_prefix,
		       s.created_at, s.updated_at
		FROM suppliers s
		WHERE NOT EXISTS (
			SELECT 1 FROM brand_supplier_relations r
			WHERE r.brand_id = $1 AND r.supplier_id = s.id
		)
		ORDER BY s.name ASC
	`

	items := []models.Supplier{}
	err := r.db.SelectContext(ctx, &items, query, brandID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", brandID).Error("failed to list available suppliers")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list available suppliers")
	}

	return items, nil
}

// HasActiveRelation reports whether the brand currently has an active relation
// to the supplier. Consulted by the authorization gate on every cross-tenant
// read; never cached.
func (r *Repository) HasActiveRelation(ctx context.Context, brandID, supplierID int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "RelationRepository.HasActiveRelation")
	defer span.End()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM brand_supplier_relations
			WHERE brand_id = $1 AND supplier_id = $2 AND is_active = true
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, brandID, supplierID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"brand_id":    brandID,
			"supplier_id": supplierID,
		}).Error("failed to check active relation")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to check relation")
	}

	return exists, nil
}
