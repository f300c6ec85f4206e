// Package variant persists product variants. A variant's owner is resolved
// through its product; ownership is never duplicated onto the row.
package variant

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

// VariantRepository defines the interface for variant operations
type VariantRepository interface {
	Create(ctx context.Context, productID int64, req models.CreateVariantRequest) (*models.Variant, error)
	GetByID(ctx context.Context, id int64) (*models.Variant, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.Variant, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ProductID(ctx context.Context, id int64) (int64, error)
}

// Repository implements VariantRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new variant repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "variants"

var variantColumns = []string{
	"id", "product_id", "item_number", "size", "size_country_code",
	"color_brand", "color_general", "gtin", "created_at", "updated_at",
}

// Create creates a variant under a product
func (r *Repository) Create(ctx context.Context, productID int64, req models.CreateVariantRequest) (*models.Variant, error) {
	ctx, span := tracing.StartSpan(ctx, "VariantRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("product_id", "item_number", "size", "size_country_code", "color_brand", "color_general", "gtin", "created_at", "updated_at")
	sb.Values(productID, req.ItemNumber, req.Size, normalizeCountry(req.SizeCountryCode), req.ColorBrand, req.ColorGeneral, req.GTIN, now, now)
	sb.Returning(variantColumns...)

	query, args := sb.Build()

	var v models.Variant
	err := r.db.GetContext(ctx, &v, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("product_id", productID).Error("failed to create variant")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create variant")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"variant_id": v.ID,
		"product_id": productID,
	}).Info("created variant")

	return &v, nil
}

// GetByID gets a variant by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Variant, error) {
	ctx, span := tracing.StartSpan(ctx, "VariantRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(variantColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var v models.Variant
	err := r.db.GetContext(ctx, &v, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("variant_id", id).Error("failed to get variant")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get variant")
	}

	return &v, nil
}

// ListByProduct lists a product's variants in insertion order
func (r *Repository) ListByProduct(ctx context.Context, productID int64) ([]models.Variant, error) {
	ctx, span := tracing.StartSpan(ctx, "VariantRepository.ListByProduct")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(variantColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("product_id", productID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.Variant{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("product_id", productID).Error("failed to list variants")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list variants")
	}

	return items, nil
}

// Delete removes a variant. Leaf removal, nothing cascades from here.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "VariantRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("variant_id", id).Error("failed to delete variant")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete variant")
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return false, nil
	}

	r.logger.WithContext(ctx).WithField("variant_id", id).Info("deleted variant")

	return true, nil
}

// ProductID resolves the parent product of a variant. Returns 0 when the
// variant does not exist.
func (r *Repository) ProductID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "VariantRepository.ProductID")
	defer span.End()

	var productID int64
	err := r.db.GetContext(ctx, &productID, "SELECT product_id FROM variants WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("variant_id", id).Error("failed to resolve variant parent")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve variant parent")
	}

	return productID, nil
}

// country codes are stored uppercased
func normalizeCountry(code *string) *string {
	if code == nil {
		return nil
	}
	s := strings.ToUpper(*code)
	return &s
}
