package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
)

// RequireRole returns a middleware that enforces that the authenticated
// principal holds one of the listed roles. It assumes JWTAuth has already
// populated the context; a missing or unknown role is treated the same as a
// disallowed one and yields 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return apperr.Forbidden("forbidden")
			}
			return next(c)
		}
	}
}
