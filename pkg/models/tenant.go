package models

import "github.com/Ramsey-B/bramble/pkg/context"

// TenantKind mirrors the closed tenant-kind tag carried on the request context.
type TenantKind = context.TenantKind

const (
	TenantKindBrand    = context.TenantKindBrand
	TenantKindSupplier = context.TenantKindSupplier
)

// Tenant is the authenticated caller identity: a brand or a supplier.
type Tenant = context.Tenant

// Credential maps one opaque API key to exactly one tenant.
type Credential struct {
	APIKey     string     `json:"-" db:"api_key"`
	TenantKind TenantKind `json:"tenant_kind" db:"tenant_kind"`
	TenantID   int64      `json:"tenant_id" db:"tenant_id"`
}

func (c *Credential) Tenant() Tenant {
	return Tenant{Kind: c.TenantKind, ID: c.TenantID}
}
