// Package events handles event emission for relation and passport lifecycle
// changes. Emission is best-effort: a broker failure is logged and the
// originating request still succeeds.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/kafka"
	"github.com/Ramsey-B/bramble/pkg/models"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// Emitter publishes passport events through the Kafka producer
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *Emitter) publish(ctx context.Context, eventType EventType, tenantKind brcontext.TenantKind, tenantID int64, resourceKind string, resourceID int64, payload any) {
	var data json.RawMessage
	if payload != nil {
		marshaled, err := json.Marshal(payload)
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).WithField("event_type", eventType).Error("Failed to marshal event payload")
			return
		}
		data = marshaled
	}

	event := &kafka.PassportEvent{
		EventType:    string(eventType),
		TenantKind:   string(tenantKind),
		TenantID:     tenantID,
		ResourceKind: resourceKind,
		ResourceID:   resourceID,
		Data:         data,
	}

	if err := e.producer.PublishPassportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("event_type", eventType).Error("Failed to emit event")
	}
}

func (e *Emitter) publishRelation(ctx context.Context, eventType EventType, relation models.Relation) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.publishRelation")
	defer span.End()

	e.publish(ctx, eventType, brcontext.TenantKindBrand, relation.BrandID, "relation", relation.ID, relation)
}

// RelationCreated emits a relation.created event
func (e *Emitter) RelationCreated(ctx context.Context, relation models.Relation) {
	e.publishRelation(ctx, EventTypeRelationCreated, relation)
}

// RelationActivated emits a relation.activated event
func (e *Emitter) RelationActivated(ctx context.Context, relation models.Relation) {
	e.publishRelation(ctx, EventTypeRelationActivated, relation)
}

// RelationDeactivated emits a relation.deactivated event
func (e *Emitter) RelationDeactivated(ctx context.Context, relation models.Relation) {
	e.publishRelation(ctx, EventTypeRelationDeactivated, relation)
}

// RelationDeleted emits a relation.deleted event
func (e *Emitter) RelationDeleted(ctx context.Context, relation models.Relation) {
	e.publishRelation(ctx, EventTypeRelationDeleted, relation)
}

// MaterialCreated emits a material.created event
func (e *Emitter) MaterialCreated(ctx context.Context, material models.Material) {
	e.publish(ctx, EventTypeMaterialCreated, brcontext.TenantKindSupplier, material.SupplierID, "material", material.ID, material)
}

// MaterialUpdated emits a material.updated event
func (e *Emitter) MaterialUpdated(ctx context.Context, material models.Material) {
	e.publish(ctx, EventTypeMaterialUpdated, brcontext.TenantKindSupplier, material.SupplierID, "material", material.ID, material)
}

// MaterialDeleted emits a material.deleted event
func (e *Emitter) MaterialDeleted(ctx context.Context, supplierID, materialID int64) {
	e.publish(ctx, EventTypeMaterialDeleted, brcontext.TenantKindSupplier, supplierID, "material", materialID, nil)
}

// VariantCreated emits a variant.created event
func (e *Emitter) VariantCreated(ctx context.Context, brandID int64, variant models.Variant) {
	e.publish(ctx, EventTypeVariantCreated, brcontext.TenantKindBrand, brandID, "variant", variant.ID, variant)
}

// VariantDeleted emits a variant.deleted event
func (e *Emitter) VariantDeleted(ctx context.Context, brandID, variantID int64) {
	e.publish(ctx, EventTypeVariantDeleted, brcontext.TenantKindBrand, brandID, "variant", variantID, nil)
}

// SupplierUpdated emits a supplier.updated event
func (e *Emitter) SupplierUpdated(ctx context.Context, supplier models.Supplier) {
	e.publish(ctx, EventTypeSupplierUpdated, brcontext.TenantKindSupplier, supplier.ID, "supplier", supplier.ID, supplier)
}
