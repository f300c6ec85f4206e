package models

import "time"

// Variant is a sellable variation of a product. Its owner is the product's
// brand; ownership is resolved through the product, never stored on the row.
type Variant struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	ItemNumber      string    `json:"item_number" db:"item_number"`
	Size            *string   `json:"size,omitempty" db:"size"`
	SizeCountryCode *string   `json:"size_country_code,omitempty" db:"size_country_code"`
	ColorBrand      *string   `json:"color_brand,omitempty" db:"color_brand"`
	ColorGeneral    *string   `json:"color_general,omitempty" db:"color_general"`
	GTIN            *string   `json:"gtin,omitempty" db:"gtin"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateVariantRequest is the request body for creating a variant
type CreateVariantRequest struct {
	ItemNumber      string  `json:"item_number" validate:"required,min=1"`
	Size            *string `json:"size,omitempty"`
	SizeCountryCode *string `json:"size_country_code,omitempty" validate:"omitempty,countrycode"`
	ColorBrand      *string `json:"color_brand,omitempty"`
	ColorGeneral    *string `json:"color_general,omitempty"`
	GTIN            *string `json:"gtin,omitempty" validate:"omitempty,numeric,max=14"`
}

// VariantResponse is the API response for variant operations
type VariantResponse struct {
	Variant
}

// VariantListResponse is the API response for listing variants
type VariantListResponse struct {
	Items []Variant `json:"items"`
}
