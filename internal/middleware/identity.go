package middleware

// identity.go resolves who is making the request.  Two sources are
// supported: a Bearer JWT verified locally (see jwt.go) or trusted
// X-User-Email / X-User-Role headers injected by an upstream gateway
// that terminated authentication.  Either way the request context ends
// up with "email" and "role" set, which handlers read through the
// helpers below.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const (
	ctxEmailKey = "email"
	ctxRoleKey  = "role"

	headerEmail = "X-User-Email"
	headerRole  = "X-User-Role"
)

// GatewayIdentity returns a middleware that trusts identity headers set
// by an authenticating gateway.  Requests without both headers, or with
// an unknown role, are rejected.
func GatewayIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := c.Request().Header.Get(headerEmail)
			role := model.Role(c.Request().Header.Get(headerRole))
			if email == "" || !role.IsValid() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing identity headers"})
			}
			c.Set(ctxEmailKey, email)
			c.Set(ctxRoleKey, role)
			return next(c)
		}
	}
}

// RequesterEmail returns the authenticated caller's email, or "" when the
// identity middleware did not run.
func RequesterEmail(c echo.Context) string {
	if v, ok := c.Get(ctxEmailKey).(string); ok {
		return v
	}
	return ""
}

// RequesterRole returns the authenticated caller's role.  An absent or
// malformed value comes back as the empty Role, which fails every
// capability check.
func RequesterRole(c echo.Context) model.Role {
	if v, ok := c.Get(ctxRoleKey).(model.Role); ok {
		return v
	}
	return model.Role("")
}
