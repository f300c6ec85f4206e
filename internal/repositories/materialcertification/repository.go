// Package materialcertification persists certification claims on materials.
package materialcertification

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

// CertificationRepository defines the interface for certification operations
type CertificationRepository interface {
	Create(ctx context.Context, materialID int64, req models.CreateCertificationRequest) (*models.MaterialCertification, error)
	GetByID(ctx context.Context, materialID, id int64) (*models.MaterialCertification, error)
	ListByMaterial(ctx context.Context, materialID int64) ([]models.MaterialCertification, error)
	Update(ctx context.Context, materialID, id int64, req models.UpdateCertificationRequest) (*models.MaterialCertification, error)
	Delete(ctx context.Context, materialID, id int64) (bool, error)
	MaterialID(ctx context.Context, id int64) (int64, error)
}

// Repository implements CertificationRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new certification repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "material_certifications"

const dateLayout = "2006-01-02"

var certificationColumns = []string{
	"id", "material_id", "certification", "certification_id", "valid_until",
	"created_at", "updated_at",
}

// parseValidUntil converts the request's date string to a timestamp. The
// format was already checked by validation, so a parse failure is a bug.
func parseValidUntil(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

// Create adds a certification to a material
func (r *Repository) Create(ctx context.Context, materialID int64, req models.CreateCertificationRequest) (*models.MaterialCertification, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("material_id", "certification", "certification_id", "valid_until", "created_at", "updated_at")
	sb.Values(materialID, req.Certification, req.CertificationID, parseValidUntil(req.ValidUntil), now, now)
	sb.Returning(certificationColumns...)

	query, args := sb.Build()

	var c models.MaterialCertification
	err := r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to create certification")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create certification")
	}

	return &c, nil
}

// GetByID gets a certification by id scoped to its material
func (r *Repository) GetByID(ctx context.Context, materialID, id int64) (*models.MaterialCertification, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(certificationColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	var c models.MaterialCertification
	err := r.db.GetContext(ctx, &c, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("certification_id", id).Error("failed to get certification")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get certification")
	}

	return &c, nil
}

// ListByMaterial lists a material's certifications in insertion order
func (r *Repository) ListByMaterial(ctx context.Context, materialID int64) ([]models.MaterialCertification, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.ListByMaterial")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(certificationColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("material_id", materialID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.MaterialCertification{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("material_id", materialID).Error("failed to list certifications")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list certifications")
	}

	return items, nil
}

// Update updates a certification
func (r *Repository) Update(ctx context.Context, materialID, id int64, req models.UpdateCertificationRequest) (*models.MaterialCertification, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.Update")
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

	if req.Certification != nil {
		sb.Set(sb.Assign("certification", *req.Certification))
	}
	if req.CertificationID != nil {
		sb.Set(sb.Assign("certification_id", *req.CertificationID))
	}
	if req.ValidUntil != nil {
		sb.Set(sb.Assign("valid_until", parseValidUntil(req.ValidUntil)))
	}

	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("certification_id", id).Error("failed to update certification")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update certification")
	}

	return r.GetByID(ctx, materialID, id)
}

// Delete removes a certification
func (r *Repository) Delete(ctx context.Context, materialID, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("id", id), sb.Equal("material_id", materialID))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("certification_id", id).Error("failed to delete certification")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete certification")
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// MaterialID resolves the parent material of a certification. Returns 0 when
// the certification does not exist.
func (r *Repository) MaterialID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "CertificationRepository.MaterialID")
	defer span.End()

	var materialID int64
	err := r.db.GetContext(ctx, &materialID, "SELECT material_id FROM material_certifications WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("certification_id", id).Error("failed to resolve certification parent")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve certification parent")
	}

	return materialID, nil
}
