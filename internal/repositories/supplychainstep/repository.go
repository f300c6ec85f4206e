// Package supplychainstep persists the production steps of a material's
// supply chain.
package supplychainstep

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/bramble/pkg/database"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// StepRepository defines the interface for supply-chain step operations
type StepRepository interface {
	Create(ctx context.Context, materialID int64, req models.CreateSupplyChainStepRequest) (*models.SupplyChainStep, error)
	GetByID(ctx context.Context, materialID, id int64) (*models.SupplyChainStep, error)
	ListByMaterial(ctx context.Context, materialID int64) ([]models.SupplyChainStep, error)
	Update(ctx context.Context, materialID, id int64, req models.UpdateSupplyChainStepRequest) (*models.SupplyChainStep, error)
	Delete(ctx context.Context, materialID, id int64) (bool, error)
	MaterialID(ctx context.Context, id int64) (int64, error)
}

// Repository implements StepRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new supply-chain step repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "supply_chain_steps"

var stepColumns = []string{
	"id", "material_id", "process_step", "country", "facility_name",
	"facility_identifier", "created_at", "updated_at",
}

// Create adds a supply-chain step to a material
func (r *Repository) Create(ctx context.Context, materialID int64, req models.CreateSupplyChainStepRequest) (*models.SupplyChainStep, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("material_id", "process_step", "country", "facility_name", "facility_identifier", "created_at", "updated_at")
	sb.Values(materialID, req.ProcessStep, normalizeCountry(req.Country), req.FacilityName, req.FacilityIdentifier, now, now)
	sb.Returning(stepColumns...)

	query, args := sb.Build()

	var s models.SupplyChainStep
	err := r.db.GetContext(ctx, &s, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to create supply chain step")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create supply chain step")
	}

	return &s, nil
}

// GetByID gets a step by id scoped to its material
func (r *Repository) GetByID(ctx context.Context, materialID, id int64) (*models.SupplyChainStep, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(stepColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	var s models.SupplyChainStep
	err := r.db.GetContext(ctx, &s, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("step_id", id).Error("failed to get supply chain step")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get supply chain step")
	}

	return &s, nil
}

// ListByMaterial lists a material's supply-chain steps in insertion order
func (r *Repository) ListByMaterial(ctx context.Context, materialID int64) ([]models.SupplyChainStep, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.ListByMaterial")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(stepColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("material_id", materialID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.SupplyChainStep{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to list supply chain steps")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list supply chain steps")
	}

	return items, nil
}

// Update updates a supply-chain step
func (r *Repository) Update(ctx context.Context, materialID, id int64, req models.UpdateSupplyChainStepRequest) (*models.SupplyChainStep, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.Update")
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

	if req.ProcessStep != nil {
		sb.Set(sb.Assign("process_step", *req.ProcessStep))
	}
	if req.Country != nil {
		sb.Set(sb.Assign("country", *normalizeCountry(req.Country)))
	}
	if req.FacilityName != nil {
		sb.Set(sb.Assign("facility_name", *req.FacilityName))
	}
	if req.FacilityIdentifier != nil {
		sb.Set(sb.Assign("facility_identifier", *req.FacilityIdentifier))
	}

	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("step_id", id).Error("failed to update supply chain step")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update supply chain step")
	}

	return r.GetByID(ctx, materialID, id)
}

// Delete removes a supply-chain step
func (r *Repository) Delete(ctx context.Context, materialID, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("step_id", id).Error("failed to delete supply chain step")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete supply chain step")
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// MaterialID resolves the parent material of a step. Returns 0 when the step
// does not exist.
func (r *Repository) MaterialID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "StepRepository.MaterialID")
	defer span.End()

	var materialID int64
	err := r.db.GetContext(ctx, &materialID, "SELECT material_id FROM supply_chain_steps WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("step_id", id).Error("failed to resolve step parent")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve step parent")
	}

	return materialID, nil
}

// country codes are stored uppercased
func normalizeCountry(code *string) *string {
	if code == nil {
		return nil
	}
	s := strings.ToUpper(*code)
	return &s
}
