// Package authz is the single place access decisions are made. Resource
// services never branch on tenant kind themselves; they ask the gate.
package authz

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/ownership"
	"github.com/Ramsey-B/bramble/pkg/tracing"
)

// Verb is the access being requested
type Verb string

const (
	VerbRead  Verb = "read"
	VerbWrite Verb = "write"
)

// Decision is the outcome of an access check. ReadOnly is set when the
// tenant may read but never write the resource.
type Decision struct {
	Allow    bool
	ReadOnly bool
	Reason   string
}

// OwnerResolver resolves a resource to its owning tenant
type OwnerResolver interface {
	OwnerTenant(ctx context.Context, kind ownership.Kind, id int64) (brcontext.Tenant, error)
}

// RelationReader answers whether a brand currently has an active relation to
// a supplier. Read on every decision; a deactivation is visible immediately.
type RelationReader interface {
	HasActiveRelation(ctx context.Context, brandID, supplierID int64) (bool, error)
}

// Gate decides access for a tenant on a resource. Rules are evaluated in
// order, first match wins:
//
//  1. the tenant owns the resource (directly or through the ownership
//     chain) -> read and write
//  2. the resource sits under a supplier and the tenant is a brand with an
//     active relation to that supplier -> read only
//  3. the resource sits under a brand and the tenant is a supplier -> deny
//  4. deny
//
// A deactivated relation is a full deny, not a downgrade to read-only.
type Gate struct {
	owners    OwnerResolver
	relations RelationReader
}

// NewGate creates a gate over the ownership graph and the relation ledger
func NewGate(owners OwnerResolver, relations RelationReader) *Gate {
	return &Gate{owners: owners, relations: relations}
}

// Authorize decides whether tenant may perform verb on the resource. A
// missing ownership-chain link surfaces as a NotFound error, never as a
// deny decision.
func (g *Gate) Authorize(ctx context.Context, tenant brcontext.Tenant, kind ownership.Kind, id int64, verb Verb) (Decision, error) {
	ctx, span := tracing.StartSpan(ctx, "Gate.Authorize")
	defer span.End()

	owner, err := g.owners.OwnerTenant(ctx, kind, id)
	if err != nil {
		return Decision{}, err
	}

	if owner == tenant {
		return Decision{Allow: true}, nil
	}

	if owner.IsSupplier() && tenant.IsBrand() {
		active, err := g.relations.HasActiveRelation(ctx, tenant.ID, owner.ID)
		if err != nil {
			return Decision{}, err
		}
		if !active {
			return Decision{Reason: "no active relation to this supplier"}, nil
		}
		if verb == VerbWrite {
			return Decision{Reason: "related supplier data is read-only"}, nil
		}
		return Decision{Allow: true, ReadOnly: true}, nil
	}

	if owner.IsBrand() && tenant.IsSupplier() {
		return Decision{Reason: "suppliers cannot access brand catalog data"}, nil
	}

	return Decision{Reason: "access denied"}, nil
}

// RequireRoot decides whether the tenant may create resources under a root
// of the given kind. A create has no resource id to walk yet, so the only
// input is the caller's own kind; the decision still lives here so resource
// services never branch on tenant kind themselves.
func (g *Gate) RequireRoot(tenant brcontext.Tenant, root ownership.Kind) error {
	switch root {
	case ownership.KindBrand:
		if tenant.IsBrand() {
			return nil
		}
		return httperror.NewHTTPError(http.StatusForbidden, "suppliers cannot access brand catalog data")
	case ownership.KindSupplier:
		if tenant.IsSupplier() {
			return nil
		}
		return httperror.NewHTTPError(http.StatusForbidden, "related supplier data is read-only")
	}
	return httperror.NewHTTPError(http.StatusForbidden, "access denied")
}

// Require is Authorize for callers that only need go/no-go: a denied
// decision becomes a Forbidden error carrying the reason.
func (g *Gate) Require(ctx context.Context, tenant brcontext.Tenant, kind ownership.Kind, id int64, verb Verb) error {
	decision, err := g.Authorize(ctx, tenant, kind, id, verb)
	if err != nil {
		return err
	}
	if !decision.Allow {
		return httperror.NewHTTPError(http.StatusForbidden, decision.Reason)
	}
	return nil
}
