// Package product persists brand catalog products.
package product

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

// ProductRepository defines the interface for product operations
type ProductRepository interface {
	Create(ctx context.Context, brandID int64, req models.CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ListByBrand(ctx context.Context, brandID int64) ([]models.Product, error)
	Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error)
	BrandID(ctx context.Context, id int64) (int64, error)
}

// Repository implements ProductRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new product repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "products"

var productColumns = []string{"id", "brand_id", "name", "created_at", "updated_at"}

// Create creates a product under a brand
func (r *Repository) Create(ctx context.Context, brandID int64, req models.CreateProductRequest) (*models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "ProductRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("brand_id", "name", "created_at", "updated_at")
	sb.Values(brandID, req.Name, now, now)
	sb.Returning(productColumns...)

	query, args := sb.Build()

	var p models.Product
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", brandID).Error("failed to create product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create product")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"product_id": p.ID,
		"brand_id":   brandID,
	}).Info("created product")

	return &p, nil
}

// GetByID gets a product by id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "ProductRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(productColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var p models.Product
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("product_id", id).Error("failed to get product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get product")
	}

	return &p, nil
}

// ListByBrand lists a brand's products in insertion order
func (r *Repository) ListByBrand(ctx context.Context, brandID int64) ([]models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "ProductRepository.ListByBrand")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(productColumns...)
	sb.From(tableName)
	sb.Where(sb.Equal("brand_id", brandID))
	sb.OrderBy("created_at ASC", "id ASC")

	query, args := sb.Build()

	items := []models.Product{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", brandID).Error("failed to list products")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list products")
	}

	return items, nil
}

// Update updates a product
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	ctx, span := tracing.StartSpan(ctx, "ProductRepository.Update")
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
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("product_id", id).Error("failed to update product")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update product")
	}

	return r.GetByID(ctx, id)
}

// BrandID resolves the owning brand of a product. Returns 0 when the product
// does not exist.
func (r *Repository) BrandID(ctx context.Context, id int64) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "ProductRepository.BrandID")
	defer span.End()

	var brandID int64
	err := r.db.GetContext(ctx, &brandID, "SELECT brand_id FROM products WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithField("product_id", id).Error("failed to resolve product owner")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve product owner")
	}

	return brandID, nil
}
