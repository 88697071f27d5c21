package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
)

// SelfOrAdmin returns a middleware that admits admins unconditionally and
// everyone else only when the authenticated principal's id equals the :id
// path parameter. Used on "users may edit themselves" routes; runs after
// JWTAuth.
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "admin" {
				return next(c)
			}

			uid, ok := c.Get(CtxUserID).(uint64)
			if !ok {
				return apperr.Forbidden("forbidden")
			}
			target, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil || target != uid {
				return apperr.Forbidden("you can only edit your own profile")
			}
			return next(c)
		}
	}
}
