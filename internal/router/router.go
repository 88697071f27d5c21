// Package router wires handlers, gates and the error boundary onto an Echo
// instance. Routes are grouped by prefix; each group stacks the
// authentication gate and whatever authorization gate the routes need, so
// the pipeline per request is authenticate -> authorize -> handler, each
// step able to short-circuit with a terminal response.
package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/handler"
	"github.com/suseche/inventory-api/internal/middleware"
)

// ErrorHandler translates errors at the outermost boundary. Typed domain
// failures pass through verbatim with their status; anything unrecognized is
// logged in full server-side and reported as a generic 500. Outside dev the
// client never sees internal detail.
func ErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ae *apperr.Error
		if errors.As(err, &ae) {
			_ = c.JSON(ae.Status, echo.Map{"error": ae.Message})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, echo.Map{"error": fmt.Sprintf("%v", he.Message)})
			return
		}

		log.Printf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg := "internal server error"
		if dev {
			msg = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
}

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session lifecycle endpoints. The public ones
// take the rate limiter; /me sits behind the authentication gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/api/auth/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterUsers registers user administration. Listing and creation are
// staff operations; reading and editing a single account also admit the
// account's owner through the self-or-admin gate.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/api/users", middleware.JWTAuth(jwtSecret))

	g.GET("", u.List, middleware.RequireRole("admin", "seller"))
	g.GET("/paginated", u.Paginated, middleware.RequireRole("admin", "seller"))
	g.POST("", u.Create, middleware.RequireRole("admin"))
	g.GET("/:id", u.Get, middleware.SelfOrAdmin())
	g.PUT("/:id", u.Update, middleware.SelfOrAdmin())
	g.DELETE("/:id", u.Delete, middleware.RequireRole("admin"))
}

// RegisterCatalog registers category, product, variant, inventory and report
// endpoints. Reads are open to any authenticated role and sit behind the
// response cache; writes are restricted to staff roles.
func RegisterCatalog(e *echo.Echo,
	ch *handler.CategoryHandler,
	ph *handler.ProductHandler,
	vh *handler.VariantHandler,
	ih *handler.InventoryHandler,
	rh *handler.ReportHandler,
	jwtSecret string, cache echo.MiddlewareFunc) {

	auth := middleware.JWTAuth(jwtSecret)
	staff := middleware.RequireRole("admin", "seller")

	cats := e.Group("/api/categories", auth)
	cats.GET("", ch.List, cache)
	cats.GET("/:id", ch.Get, cache)
	cats.POST("", ch.Create, staff)
	cats.PUT("/:id", ch.Update, staff)
	cats.DELETE("/:id", ch.Delete, staff)

	prods := e.Group("/api/products", auth)
	prods.GET("", ph.List, cache)
	prods.GET("/:id", ph.Get, cache)
	prods.POST("", ph.Create, staff)

	vars := e.Group("/api/variants", auth)
	vars.GET("", vh.List, cache)
	vars.GET("/paginated", vh.Paginated, cache)
	vars.GET("/:id", vh.Get, cache)
	vars.POST("", vh.Create, staff)

	inv := e.Group("/api/inventory", auth, staff)
	inv.POST("/movements", ih.CreateMovement)
	inv.GET("/monthly", ih.Monthly)
	inv.GET("/stock/:id", ih.Stock)

	reports := e.Group("/api/reports", auth, staff)
	reports.GET("/inventory", rh.Inventory, cache)
	reports.GET("/inventory/pdf", rh.InventoryPDF)
}
