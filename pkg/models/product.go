package models

import "time"

// Product belongs to exactly one brand.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	BrandID   int64     `json:"brand_id" db:"brand_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
}

// ProductResponse is the API response for product operations
type ProductResponse struct {
	Product
}

// ProductListResponse is the API response for listing products
type ProductListResponse struct {
	Items []Product `json:"items"`
}
