package context

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	MethodKey    = ContextKey("X-Method")
	RouteKey     = ContextKey("X-Route")
	RemoteIPKey  = ContextKey("X-Remote-Ip")
	TenantKey    = ContextKey("X-Tenant")
)

// TenantKind is the closed set of tenant kinds. Every authenticated caller is
// exactly one of these.
type TenantKind string

const (
	TenantKindBrand    TenantKind = "brand"
	TenantKindSupplier TenantKind = "supplier"
)

// Tenant is the resolved identity of the caller. It is set once by the auth
// middleware and read by everything downstream.
type Tenant struct {
	Kind TenantKind
	ID   int64
}

func (t Tenant) IsBrand() bool {
	return t.Kind == TenantKindBrand
}

func (t Tenant) IsSupplier() bool {
	return t.Kind == TenantKindSupplier
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	value, ok := ctx.Value(MethodKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	value, ok := ctx.Value(RouteKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return context.WithValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	value, ok := ctx.Value(RemoteIPKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetTenant(ctx context.Context, tenant Tenant) context.Context {
	return context.WithValue(ctx, TenantKey, tenant)
}

// GetTenant returns the authenticated tenant. The second return is false when
// no credential was resolved for this request.
func GetTenant(ctx context.Context) (Tenant, bool) {
	value, ok := ctx.Value(TenantKey).(Tenant)
	if !ok || value.Kind == "" {
		return Tenant{}, false
	}
	return value, true
}
