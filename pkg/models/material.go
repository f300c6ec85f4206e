package models

import "time"

// MaterialType is the closed set of material categories
type MaterialType string

const (
	MaterialTypeTextile MaterialType = "textile"
	MaterialTypeLeather MaterialType = "leather"
	MaterialTypeTrim    MaterialType = "trim"
	MaterialTypeOther   MaterialType = "other"
)

// ProcessStep is the closed set of supply-chain process steps
type ProcessStep string

const (
	ProcessStepFiber          ProcessStep = "fiber"
	ProcessStepSpinning       ProcessStep = "spinning"
	ProcessStepWeavingKnitting ProcessStep = "weaving_knitting"
	ProcessStepDyeing         ProcessStep = "dyeing"
	ProcessStepFinishing      ProcessStep = "finishing"
)

// RecycledInputSource classifies where recycled content came from
type RecycledInputSource string

const (
	RecycledInputPreConsumer           RecycledInputSource = "pre_consumer"
	RecycledInputPostConsumer          RecycledInputSource = "post_consumer"
	RecycledInputPostConsumerPackaging RecycledInputSource = "post_consumer_packaging"
	RecycledInputOther                 RecycledInputSource = "other"
)

// Material belongs to exactly one supplier. Compositions, certifications and
// supply-chain steps hang off it and are removed with it.
type Material struct {
	ID           int64        `json:"id" db:"id"`
	SupplierID   int64        `json:"supplier_id" db:"supplier_id"`
	MaterialName string       `json:"material_name" db:"material_name"`
	MaterialType MaterialType `json:"material_type" db:"material_type"`
	Description  *string      `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// MaterialComposition is one fibre/content line of a material
type MaterialComposition struct {
	ID                  int64                `json:"id" db:"id"`
	MaterialID          int64                `json:"material_id" db:"material_id"`
	ContentName         string               `json:"content_name" db:"content_name"`
	ContentValue        float64              `json:"content_value" db:"content_value"`
	ContentSource       *string              `json:"content_source,omitempty" db:"content_source"`
	Recycled            bool                 `json:"recycled" db:"recycled"`
	RecycledPercentage  *float64             `json:"recycled_percentage,omitempty" db:"recycled_percentage"`
	RecycledInputSource *RecycledInputSource `json:"recycled_input_source,omitempty" db:"recycled_input_source"`
	CreatedAt           time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at" db:"updated_at"`
}

// MaterialCertification is a certification claim attached to a material
type MaterialCertification struct {
	ID              int64      `json:"id" db:"id"`
	MaterialID      int64      `json:"material_id" db:"material_id"`
	Certification   string     `json:"certification" db:"certification"`
	CertificationID *string    `json:"certification_id,omitempty" db:"certification_id"`
	ValidUntil      *time.Time `json:"valid_until,omitempty" db:"valid_until"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// SupplyChainStep is one production step of a material's supply chain
type SupplyChainStep struct {
	ID                 int64       `json:"id" db:"id"`
	MaterialID         int64       `json:"material_id" db:"material_id"`
	ProcessStep        ProcessStep `json:"process_step" db:"process_step"`
	Country            *string     `json:"country,omitempty" db:"country"`
	FacilityName       *string     `json:"facility_name,omitempty" db:"facility_name"`
	FacilityIdentifier *string     `json:"facility_identifier,omitempty" db:"facility_identifier"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateMaterialRequest is the request body for creating a material
type CreateMaterialRequest struct {
	MaterialName string       `json:"material_name" validate:"required,min=1"`
	MaterialType MaterialType `json:"material_type" validate:"required,oneof=textile leather trim other"`
	Description  *string      `json:"description,omitempty"`
}

// UpdateMaterialRequest is the request body for updating a material
type UpdateMaterialRequest struct {
	MaterialName *string       `json:"material_name,omitempty" validate:"omitempty,min=1"`
	MaterialType *MaterialType `json:"material_type,omitempty" validate:"omitempty,oneof=textile leather trim other"`
	Description  *string       `json:"description,omitempty"`
}

// CreateCompositionRequest is the request body for adding a composition line
type CreateCompositionRequest struct {
	ContentName         string               `json:"content_name" validate:"required,min=1"`
	ContentValue        float64              `json:"content_value" validate:"required,gte=0,lte=100"`
	ContentSource       *string              `json:"content_source,omitempty"`
	Recycled            bool                 `json:"recycled"`
	RecycledPercentage  *float64             `json:"recycled_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	RecycledInputSource *RecycledInputSource `json:"recycled_input_source,omitempty" validate:"omitempty,oneof=pre_consumer post_consumer post_consumer_packaging other"`
}

// UpdateCompositionRequest is the request body for updating a composition line
type UpdateCompositionRequest struct {
	ContentName         *string              `json:"content_name,omitempty" validate:"omitempty,min=1"`
	ContentValue        *float64             `json:"content_value,omitempty" validate:"omitempty,gte=0,lte=100"`
	ContentSource       *string              `json:"content_source,omitempty"`
	Recycled            *bool                `json:"recycled,omitempty"`
	RecycledPercentage  *float64             `json:"recycled_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	RecycledInputSource *RecycledInputSource `json:"recycled_input_source,omitempty" validate:"omitempty,oneof=pre_consumer post_consumer post_consumer_packaging other"`
}

// CreateCertificationRequest is the request body for adding a certification.
// ValidUntil is a date in 2006-01-02 form.
type CreateCertificationRequest struct {
	Certification   string  `json:"certification" validate:"required,min=1"`
	CertificationID *string `json:"certification_id,omitempty"`
	ValidUntil      *string `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateCertificationRequest is the request body for updating a certification
type UpdateCertificationRequest struct {
	Certification   *string `json:"certification,omitempty" validate:"omitempty,min=1"`
	CertificationID *string `json:"certification_id,omitempty"`
	ValidUntil      *string `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateSupplyChainStepRequest is the request body for adding a supply-chain step
type CreateSupplyChainStepRequest struct {
	ProcessStep        ProcessStep `json:"process_step" validate:"required,oneof=fiber spinning weaving_knitting dyeing finishing"`
	Country            *string     `json:"country,omitempty" validate:"omitempty,countrycode"`
	FacilityName       *string     `json:"facility_name,omitempty"`
	FacilityIdentifier *string     `json:"facility_identifier,omitempty"`
}

// UpdateSupplyChainStepRequest is the request body for updating a supply-chain step
type UpdateSupplyChainStepRequest struct {
	ProcessStep        *ProcessStep `json:"process_step,omitempty" validate:"omitempty,oneof=fiber spinning weaving_knitting dyeing finishing"`
	Country            *string      `json:"country,omitempty" validate:"omitempty,countrycode"`
	FacilityName       *string      `json:"facility_name,omitempty"`
	FacilityIdentifier *string      `json:"facility_identifier,omitempty"`
}

// MaterialResponse is the API response for material operations
type MaterialResponse struct {
	Material
}

// MaterialListResponse is the API response for listing materials
type MaterialListResponse struct {
	Items []Material `json:"items"`
}
