package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/utils"
)

const gateSecret = "middleware-test-secret"

func invokeGate(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func wantGateStatus(t *testing.T, err error, status int) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("got %v (%T), want *apperr.Error", err, err)
	}
	if ae.Status != status {
		t.Fatalf("status = %d (%q), want %d", ae.Status, ae.Message, status)
	}
}

func TestJWTAuthSetsPrincipal(t *testing.T) {
	tok, err := utils.NewAccessToken(gateSecret,
		utils.Claims{UserID: 9, Name: "Ada", Email: "ada@example.com", Role: "seller"}, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	c, err := invokeGate(t, JWTAuth(gateSecret), "Bearer "+tok.Token)
	if err != nil {
		t.Fatalf("gate rejected valid token: %v", err)
	}
	if got, _ := c.Get(CtxUserID).(uint64); got != 9 {
		t.Fatalf("user id = %v", c.Get(CtxUserID))
	}
	if got, _ := c.Get(CtxRole).(string); got != "seller" {
		t.Fatalf("role = %v", c.Get(CtxRole))
	}
	if got, _ := c.Get(CtxUserEmail).(string); got != "ada@example.com" {
		t.Fatalf("email = %v", c.Get(CtxUserEmail))
	}
}

func TestJWTAuthRejections(t *testing.T) {
	expired, err := utils.NewAccessToken(gateSecret, utils.Claims{UserID: 9, Role: "client"}, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	foreign, err := utils.NewAccessToken("someone-elses-secret", utils.Claims{UserID: 9, Role: "client"}, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	cases := []struct {
		name, header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired.Token},
		{"wrong secret", "Bearer " + foreign.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invokeGate(t, JWTAuth(gateSecret), tc.header)
			wantGateStatus(t, err, http.StatusUnauthorized)
		})
	}
}
