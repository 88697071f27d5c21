package middleware // middleware contains the request gates shared by protected routes

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/utils"
)

// Context keys under which the authenticated principal is stored. Handlers
// and downstream gates read these via c.Get().
const (
	CtxUserID    = "user_id"
	CtxUserName  = "user_name"
	CtxUserEmail = "user_email"
	CtxRole      = "role"
)

// JWTAuth returns a middleware that validates a Bearer access token and
// attaches the principal it encodes to the request context. Verification is
// purely cryptographic: this gate never touches the store, so it cannot
// block on I/O. A missing header, a bad signature, a tampered payload or a
// past expiry all fail closed with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.Unauthorized("missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				return apperr.Unauthorized("invalid or expired token")
			}

			// Principal is rebuilt fresh per request from the claims; the
			// store is never consulted during normal request handling.
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUserName, claims.Name)
			c.Set(CtxUserEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
