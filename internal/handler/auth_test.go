package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/handler"
	"github.com/suseche/inventory-api/internal/middleware"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/router"
	"github.com/suseche/inventory-api/internal/service"
	"github.com/suseche/inventory-api/internal/utils"
)

const apiSecret = "handler-test-secret"

// In-memory stores backing the service under test.

type memUsers struct {
	nextID uint64
	rows   map[string]*model.User
}

func (s *memUsers) Create(_ context.Context, name, email, hash string, roleID uint64) (uint64, error) {
	if _, ok := s.rows[email]; ok {
		return 0, repository.ErrEmailExists
	}
	id := s.nextID
	s.nextID++
	role := "client"
	if roleID == 1 {
		role = "admin"
	}
	s.rows[email] = &model.User{ID: id, Name: name, Email: email, PasswordHash: hash,
		Status: model.StatusActive, RoleID: roleID, RoleName: role}
	return id, nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := s.rows[email]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range s.rows {
		if u.ID == id {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type memRoles struct{}

func (memRoles) GetByName(_ context.Context, name string) (model.Role, error) {
	switch name {
	case "admin":
		return model.Role{ID: 1, Name: "admin"}, nil
	case "seller":
		return model.Role{ID: 2, Name: "seller"}, nil
	case "client":
		return model.Role{ID: 3, Name: "client"}, nil
	}
	return model.Role{}, repository.ErrNotFound
}

type memTokens struct {
	users *memUsers
	rows  map[uint64]model.RefreshToken
}

func (s *memTokens) Upsert(_ context.Context, userID uint64, hash string, exp time.Time) error {
	s.rows[userID] = model.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: exp}
	return nil
}

func (s *memTokens) FindByHash(_ context.Context, hash string) (model.RefreshSession, error) {
	for userID, tok := range s.rows {
		if tok.TokenHash != hash {
			continue
		}
		if time.Now().After(tok.ExpiresAt) {
			delete(s.rows, userID)
			return model.RefreshSession{}, repository.ErrTokenExpired
		}
		u, err := s.users.GetByID(context.Background(), userID)
		if err != nil {
			return model.RefreshSession{}, repository.ErrNotFound
		}
		return model.RefreshSession{Token: tok, User: u}, nil
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (s *memTokens) DeleteByHash(_ context.Context, hash string) error {
	for userID, tok := range s.rows {
		if tok.TokenHash == hash {
			delete(s.rows, userID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// newTestServer builds an Echo instance with the real error boundary, the
// session routes and one staff-only route for authorization checks.
func newTestServer() *echo.Echo {
	cfg := config.Config{JWTSecret: apiSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	users := &memUsers{nextID: 1, rows: map[string]*model.User{}}
	tokens := &memTokens{users: users, rows: map[uint64]model.RefreshToken{}}
	auth := service.NewAuthService(cfg, users, memRoles{}, tokens)

	e := echo.New()
	e.HTTPErrorHandler = router.ErrorHandler(false)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth), apiSecret, passthrough)

	e.GET("/api/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"users": []string{}})
	}, middleware.JWTAuth(apiSecret), middleware.RequireRole("admin", "seller"))

	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestHealthz(t *testing.T) {
	e := newTestServer()
	rec, body := doJSON(e, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: code=%d body=%v", rec.Code, body)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	e := newTestServer()

	rec, body := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"secret-1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["token"] == "" || body["token"] == nil {
		t.Fatal("no access token in response")
	}
	if _, ok := body["refreshToken"]; ok {
		t.Fatal("register must not return a refresh token")
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "ada@example.com" || user["role"] != "client" {
		t.Fatalf("user = %v", user)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("response leaks password material")
	}

	// Same email again is a conflict with the uniform error shape.
	rec, body = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Imposter","email":"ADA@example.com","password":"secret-2"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: code = %d", rec.Code)
	}
	if body["error"] == "" || body["error"] == nil {
		t.Fatalf("error body = %v", body)
	}
}

func TestRegisterRejectsMalformed(t *testing.T) {
	e := newTestServer()

	rec, _ := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"123"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short password: code = %d", rec.Code)
	}

	rec, _ = doJSON(e, http.MethodPost, "/api/auth/register", `{not json`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: code = %d", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestServer()

	rec, _ := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"secret-1","role":"admin"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec, body := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"secret-1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: code = %d body = %s", rec.Code, rec.Body.String())
	}
	access, _ := body["accessToken"].(string)
	refresh, _ := body["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login body = %v", body)
	}

	// The access token carries the principal.
	rec, body = doJSON(e, http.MethodGet, "/api/auth/me", "", access)
	if rec.Code != http.StatusOK || body["email"] != "ada@example.com" {
		t.Fatalf("me: code=%d body=%v", rec.Code, body)
	}

	// Exchange the refresh token for a fresh access token and use it.
	rec, body = doJSON(e, http.MethodPost, "/api/auth/refresh",
		`{"refreshToken":"`+refresh+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: code = %d body = %s", rec.Code, rec.Body.String())
	}
	newAccess, _ := body["accessToken"].(string)
	if newAccess == "" {
		t.Fatalf("refresh body = %v", body)
	}
	if rec, _ = doJSON(e, http.MethodGet, "/api/auth/me", "", newAccess); rec.Code != http.StatusOK {
		t.Fatalf("me with refreshed token: code = %d", rec.Code)
	}

	// Logout kills the session; further refreshes are forbidden and a
	// second logout reports the token as already gone.
	if rec, _ = doJSON(e, http.MethodPost, "/api/auth/logout",
		`{"refreshToken":"`+refresh+`"}`, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: code = %d", rec.Code)
	}
	if rec, _ = doJSON(e, http.MethodPost, "/api/auth/refresh",
		`{"refreshToken":"`+refresh+`"}`, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("refresh after logout: code = %d", rec.Code)
	}
	if rec, _ = doJSON(e, http.MethodPost, "/api/auth/logout",
		`{"refreshToken":"`+refresh+`"}`, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second logout: code = %d", rec.Code)
	}
}

func TestStaleAccessTokenRecovery(t *testing.T) {
	e := newTestServer()

	doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"secret-1","role":"admin"}`, "")
	_, body := doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"secret-1"}`, "")
	refresh, _ := body["refreshToken"].(string)

	stale, err := utils.NewAccessToken(apiSecret,
		utils.Claims{UserID: 1, Name: "Ada", Email: "ada@example.com", Role: "admin"}, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, _ := doJSON(e, http.MethodGet, "/api/users", "", stale.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token: code = %d", rec.Code)
	}

	rec, body = doJSON(e, http.MethodPost, "/api/auth/refresh",
		`{"refreshToken":"`+refresh+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: code = %d", rec.Code)
	}
	access, _ := body["accessToken"].(string)

	if rec, _ = doJSON(e, http.MethodGet, "/api/users", "", access); rec.Code != http.StatusOK {
		t.Fatalf("retry after refresh: code = %d", rec.Code)
	}
}

func TestRoleEnforcementOverHTTP(t *testing.T) {
	e := newTestServer()

	_, body := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Carl","email":"carl@example.com","password":"secret-1"}`, "")
	clientTok, _ := body["token"].(string)

	_, body = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"secret-1","role":"admin"}`, "")
	adminTok, _ := body["token"].(string)

	rec, _ := doJSON(e, http.MethodGet, "/api/users", "", clientTok)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client on staff route: code = %d", rec.Code)
	}
	rec, _ = doJSON(e, http.MethodGet, "/api/users", "", adminTok)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin on staff route: code = %d", rec.Code)
	}
	rec, _ = doJSON(e, http.MethodGet, "/api/users", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on staff route: code = %d", rec.Code)
	}
}
