package middleware

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
	"github.com/Ramsey-B/bramble/pkg/models"
)

// CredentialResolver maps an opaque API key to a tenant credential. Returns
// (nil, nil) when the key is unknown.
type CredentialResolver interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Credential, error)
}

// Auth authenticates every request from the API-key header and puts the
// resolved tenant on the request context. A missing or unknown key is a 401
// before any authorization logic runs.
func Auth(resolver CredentialResolver, header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			apiKey := req.Header.Get(header)
			if apiKey == "" {
				return httperror.NewHTTPError(http.StatusUnauthorized, "missing credential")
			}

			ctx := req.Context()
			cred, err := resolver.GetByAPIKey(ctx, apiKey)
			if err != nil {
				return err
			}
			if cred == nil {
				return httperror.NewHTTPError(http.StatusUnauthorized, "invalid credential")
			}

			ctx = brcontext.SetTenant(ctx, cred.Tenant())
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
