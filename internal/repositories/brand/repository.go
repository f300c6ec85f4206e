// Package brand reads brand reference rows. Brands are read-only here.
package brand

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/bramble/pkg/database"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// BrandRepository defines the interface for brand lookups
type BrandRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Brand, error)
}

// Repository implements BrandRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new brand repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "brands"

// GetByID gets a brand by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Brand, error) {
	ctx, span := tracing.StartSpan(ctx, "BrandRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "name", "created_at")
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var b models.Brand
	err := r.db.GetContext(ctx, &b, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", id).Error("failed to get brand")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get brand")
	}

	return &b, nil
}
