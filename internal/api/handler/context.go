package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/stockhub/auth-service/internal/core/domain"
)

// ContextKeyIdentity is the echo context key the Auth middleware stores the
// gated identity under.
const ContextKeyIdentity = "auth.identity"

// IdentityFrom returns the identity placed on c by the Auth middleware,
// falling back to the request context.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	if id, ok := c.Get(ContextKeyIdentity).(domain.Identity); ok && id.Subject != "" {
		return id, true
	}
	return domain.IdentityFromContext(c.Request().Context())
}

// identity fails fast when a protected handler is reached without the
// middleware having run.
func identity(c echo.Context) (domain.Identity, error) {
	id, ok := IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
