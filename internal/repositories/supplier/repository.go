// Package supplier persists supplier profile rows. Rows are provisioned
// out-of-band; only reads and owner self-updates happen here.
package supplier

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

// SupplierRepository defines the interface for supplier profile operations
type SupplierRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, req models.UpdateSupplierRequest) (*models.Supplier, error)
	ListRelatedToBrand(ctx context.Context, brandID int64) ([]models.Supplier, error)
}

// Repository implements SupplierRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new supplier repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "suppliers"

var supplierColumns = []string{
	"id", "name", "location", "facility_registry", "facility_identifier",
	"operator_registry", "operator_identifier", "lei", "gs1_company_prefix",
	"created_at", "updated_at",
}

// GetByID gets a supplier by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	ctx, span := tracing.StartSpan(ctx, "SupplierRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(supplierColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var s models.Supplier
	err := r.db.GetContext(ctx, &s, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("supplier_id", id).Error("failed to get supplier")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get supplier")
	}

	return &s, nil
}

// Exists reports whether a supplier row exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "SupplierRepository.Exists")
	defer span.End()

	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1)", id)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("supplier_id", id).Error("failed to check supplier existence")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to check supplier")
	}

	return exists, nil
}

// Update applies a self-update to a supplier profile. All provided fields are
// applied in one statement; validation happened before we got here.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateSupplierRequest) (*models.Supplier, error) {
	ctx, span := tracing.StartSpan(ctx, "SupplierRepository.Update")
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

	if req.Name != nil {
		sb.Set(sb.Assign("name", *req.Name))
	}
	if req.Location != nil {
		sb.Set(sb.Assign("location", *req.Location))
	}
	if req.FacilityRegistry != nil {
		sb.Set(sb.Assign("facility_registry", *req.FacilityRegistry))
	}
	if req.FacilityIdentifier != nil {
		sb.Set(sb.Assign("facility_identifier", *req.FacilityIdentifier))
	}
	if req.OperatorRegistry != nil {
		sb.Set(sb.Assign("operator_registry", *req.OperatorRegistry))
	}
	if req.OperatorIdentifier != nil {
		sb.Set(sb.Assign("operator_identifier", *req.OperatorIdentifier))
	}
	if req.LEI != nil {
		sb.Set(sb.Assign("lei", *req.LEI))
	}
	if req.GS1CompanyPrefix != nil {
		sb.Set(sb.Assign("gs1_company_prefix", *req.GS1CompanyPrefix))
	}

	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("supplier_id", id).Error("failed to update supplier")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update supplier")
	}

	r.logger.WithContext(ctx).WithField("supplier_id", id).Info("updated supplier profile")

	return r.GetByID(ctx, id)
}

// ListRelatedToBrand lists suppliers the brand has an active relation to
func (r *Repository) ListRelatedToBrand(ctx context.Context, brandID int64) ([]models.Supplier, error) {
	ctx, span := tracing.StartSpan(ctx, "SupplierRepository.ListRelatedToBrand")
	defer span.End()

	query := `
		SELECT s.id, s.name, s.location, s.facility_registry, s.facility_identifier,
		       s.operator_registry, s.operator_identifier, s.lei, s.gs1_company_prefix,
		       s.created_at, s.updated_at
		FROM suppliers s
		JOIN brand_supplier_relations r ON r.supplier_id = s.id
		WHERE r.brand_id = $1 AND r.is_active = true
		ORDER BY r.created_at ASC, s.id ASC
	`

	items := []models.Supplier{}
	err := r.db.SelectContext(ctx, &items, query, brandID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", brandID).Error("failed to list related suppliers")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list suppliers")
	}

	return items, nil
}
