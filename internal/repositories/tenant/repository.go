// Package tenant resolves opaque API credentials to tenant identities.
package tenant

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

// TenantRepository defines the interface for credential resolution
type TenantRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Credential, error)
}

// Repository implements TenantRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new tenant repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const tableName = "api_credentials"

// GetByAPIKey resolves a credential to its tenant. Returns (nil, nil) when the
// key is unknown; every key maps to exactly one tenant.
func (r *Repository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Credential, error) {
	ctx, span := tracing.StartSpan(ctx, "TenantRepository.GetByAPIKey")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("api_key", "tenant_kind", "tenant_id")
	sb.From(tableName)
	sb.Where(sb.Equal("api_key", apiKey))

	query, args := sb.Build()

	var cred models.Credential
	err := r.db.GetContext(ctx, &cred, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to resolve api credential")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve credential")
	}

	return &cred, nil
}
