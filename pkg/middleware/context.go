package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	brcontext "github.com/Ramsey-B/bramble/pkg/context"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			// get request id from header
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = brcontext.SetRequestID(ctx, requestID)
			ctx = brcontext.SetMethod(ctx, req.Method)
			ctx = brcontext.SetRoute(ctx, req.URL.Path)
			ctx = brcontext.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
