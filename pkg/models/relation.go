package models

import "time"

// Relation is a brand-supplier link. The brand owns the row and its lifecycle;
// the supplier is a passive party. At most one row ever exists per
// (brand_id, supplier_id) pair; deleting the row frees the pair.
type Relation struct {
	ID         int64     `json:"id" db:"id"`
	BrandID    int64     `json:"brand_id" db:"brand_id"`
	SupplierID int64     `json:"supplier_id" db:"supplier_id"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateRelationRequest is the request body for creating a relation.
// Relations start active; there is no supplier-side acceptance step.
type CreateRelationRequest struct {
	SupplierID int64 `json:"supplier_id" validate:"required,gt=0"`
}

// RelationListResponse is the API response for listing relations
type RelationListResponse struct {
	Items []Relation `json:"items"`
}
