// Package ledger is the sole mutator of brand-supplier relations. Every
// lifecycle change (create, activate, deactivate, delete) goes through this
// service; resource services and the gate only ever read relation state.
package ledger

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// RelationStore is the storage surface the ledger drives
type RelationStore interface {
	Create(ctx context.Context, brandID, supplierID int64) (*models.Relation, error)
	GetByID(ctx context.Context, id int64) (*models.Relation, error)
	ListByBrand(ctx context.Context, brandID int64) ([]models.Relation, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]models.Relation, error)
	SetActive(ctx context.Context, id, brandID int64, active bool) (*models.Relation, error)
	Delete(ctx context.Context, id, brandID int64) (bool, error)
	ListAvailableSuppliers(ctx context.Context, brandID int64) ([]models.Supplier, error)
}

// SupplierStore checks the target supplier exists before a relation is created
type SupplierStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Events receives relation lifecycle notifications. Emission is best-effort;
// implementations must not fail the mutating request.
type Events interface {
	RelationCreated(ctx context.Context, relation models.Relation)
	RelationActivated(ctx context.Context, relation models.Relation)
	RelationDeactivated(ctx context.Context, relation models.Relation)
	RelationDeleted(ctx context.Context, relation models.Relation)
}

// LedgerService defines the relation lifecycle operations
type LedgerService interface {
	ListRelations(ctx context.Context, tenant brcontext.Tenant) ([]models.Relation, error)
	ListAvailableSuppliers(ctx context.Context, tenant brcontext.Tenant) ([]models.Supplier, error)
	CreateRelation(ctx context.Context, tenant brcontext.Tenant, supplierID int64) (*models.Relation, error)
	SetActive(ctx context.Context, tenant brcontext.Tenant, id int64, active bool) (*models.Relation, error)
	DeleteRelation(ctx context.Context, tenant brcontext.Tenant, id int64) error
}

// Service implements LedgerService
type Service struct {
	relations RelationStore
	suppliers SupplierStore
	events    Events
	logger    ectologger.Logger
}

// NewService creates a ledger service. events may be nil when no emitter is
// wired (tests).
func NewService(relations RelationStore, suppliers SupplierStore, events Events, logger ectologger.Logger) *Service {
	return &Service{relations: relations, suppliers: suppliers, events: events, logger: logger}
}

func brandOnly(tenant brcontext.Tenant) error {
	if !tenant.IsBrand() {
		return httperror.NewHTTPError(http.StatusForbidden, "brand-supplier relations are managed by brands")
	}
	return nil
}

// ListRelations lists the caller's relations, whichever side of the link the
// caller is on.
func (s *Service) ListRelations(ctx context.Context, tenant brcontext.Tenant) ([]models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "LedgerService.ListRelations")
	defer span.End()

	if tenant.IsBrand() {
		return s.relations.ListByBrand(ctx, tenant.ID)
	}
	return s.relations.ListBySupplier(ctx, tenant.ID)
}

// ListAvailableSuppliers lists suppliers the brand has no relation row to in
// any state. Brand only.
func (s *Service) ListAvailableSuppliers(ctx context.Context, tenant brcontext.Tenant) ([]models.Supplier, error) {
	ctx, span := tracing.StartSpan(ctx, "LedgerService.ListAvailableSuppliers")
	defer span.End()

	if err := brandOnly(tenant); err != nil {
		return nil, err
	}
	return s.relations.ListAvailableSuppliers(ctx, tenant.ID)
}

// CreateRelation links the brand to a supplier. The relation starts active;
// there is no acceptance step. A second create for the same pair is a
// Conflict.
func (s *Service) CreateRelation(ctx context.Context, tenant brcontext.Tenant, supplierID int64) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "LedgerService.CreateRelation")
	defer span.End()

	if err := brandOnly(tenant); err != nil {
		return nil, err
	}

	exists, err := s.suppliers.Exists(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "supplier not found")
	}

	relation, err := s.relations.Create(ctx, tenant.ID, supplierID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.RelationCreated(ctx, *relation)
	}

	return relation, nil
}

// SetActive flips the relation's active flag. Idempotent: setting the
// current state again succeeds without a second event. Scoped to the brand's
// own rows; anything else is NotFound.
func (s *Service) SetActive(ctx context.Context, tenant brcontext.Tenant, id int64, active bool) (*models.Relation, error) {
	ctx, span := tracing.StartSpan(ctx, "LedgerService.SetActive")
	defer span.End()

	if err := brandOnly(tenant); err != nil {
		return nil, err
	}

	before, err := s.relations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil || before.BrandID != tenant.ID {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "relation not found")
	}

	relation, err := s.relations.SetActive(ctx, id, tenant.ID, active)
	if err != nil {
		return nil, err
	}
	if relation == nil {
		// deleted between the read and the update
		return nil, httperror.NewHTTPError(http.StatusNotFound, "relation not found")
	}

	if s.events != nil && before.IsActive != relation.IsActive {
		if active {
			s.events.RelationActivated(ctx, *relation)
		} else {
			s.events.RelationDeactivated(ctx, *relation)
		}
	}

	return relation, nil
}

// DeleteRelation permanently removes the brand's relation row, freeing the
// (brand, supplier) pair for a future create.
func (s *Service) DeleteRelation(ctx context.Context, tenant brcontext.Tenant, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "LedgerService.DeleteRelation")
	defer span.End()

	if err := brandOnly(tenant); err != nil {
		return err
	}

	relation, err := s.relations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if relation == nil || relation.BrandID != tenant.ID {
		return httperror.NewHTTPError(http.StatusNotFound, "relation not found")
	}

	deleted, err := s.relations.Delete(ctx, id, tenant.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return httperror.NewHTTPError(http.StatusNotFound, "relation not found")
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"relation_id": relation.ID,
		"brand_id":    relation.BrandID,
		"supplier_id": relation.SupplierID,
	}).Info("relation deleted")

	if s.events != nil {
		s.events.RelationDeleted(ctx, *relation)
	}

	return nil
}
