package events

// EventType defines the type of event
type EventType string

const (
	// Relation lifecycle events
	EventTypeRelationCreated     EventType = "relation.created"
	EventTypeRelationActivated   EventType = "relation.activated"
	EventTypeRelationDeactivated EventType = "relation.deactivated"
	EventTypeRelationDeleted     EventType = "relation.deleted"

	// Passport data events
	EventTypeMaterialCreated EventType = "material.created"
	EventTypeMaterialUpdated EventType = "material.updated"
	EventTypeMaterialDeleted EventType = "material.deleted"
	EventTypeVariantCreated  EventType = "variant.created"
	EventTypeVariantDeleted  EventType = "variant.deleted"
	EventTypeSupplierUpdated EventType = "supplier.updated"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"
