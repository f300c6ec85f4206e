package models

import "time"

// Supplier is a factory tenant's profile. Rows are provisioned out-of-band;
// this service only reads them and lets the owning supplier update its own row.
type Supplier struct {
	ID                 int64      `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Location           *string    `json:"location,omitempty" db:"location"`
	FacilityRegistry   *string    `json:"facility_registry,omitempty" db:"facility_registry"`
	FacilityIdentifier *string    `json:"facility_identifier,omitempty" db:"facility_identifier"`
	OperatorRegistry   *string    `json:"operator_registry,omitempty" db:"operator_registry"`
	OperatorIdentifier *string    `json:"operator_identifier,omitempty" db:"operator_identifier"`
	// LEI is a 20-char [A-Z0-9] legal entity identifier when present.
	LEI *string `json:"lei,omitempty" db:"lei"`
	// GS1CompanyPrefix is 6-12 digits when present.
	GS1CompanyPrefix *string    `json:"gs1_company_prefix,omitempty" db:"gs1_company_prefix"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// UpdateSupplierRequest is the request body for a supplier updating its own profile
type UpdateSupplierRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Location           *string `json:"location,omitempty"`
	FacilityRegistry   *string `json:"facility_registry,omitempty"`
	FacilityIdentifier *string `json:"facility_identifier,omitempty"`
	OperatorRegistry   *string `json:"operator_registry,omitempty"`
	OperatorIdentifier *string `json:"operator_identifier,omitempty"`
	LEI                *string `json:"lei,omitempty" validate:"omitempty,lei"`
	GS1CompanyPrefix   *string `json:"gs1_company_prefix,omitempty" validate:"omitempty,gs1prefix"`
}

// SupplierResponse is the API response for supplier operations
type SupplierResponse struct {
	Supplier
}

// SupplierListResponse is the API response for listing suppliers
type SupplierListResponse struct {
	Items []Supplier `json:"items"`
}
