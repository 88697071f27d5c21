package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/utils"
)

// In-memory stores implementing the repository interfaces. They mirror the
// MySQL contracts: unique email, unique user per refresh token, lazy expiry
// on read.

type fakeUserStore struct {
	nextID  uint64
	byEmail map[string]*model.User
	byID    map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, byEmail: map[string]*model.User{}, byID: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string, roleID uint64) (uint64, error) {
	if _, ok := s.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	u := &model.User{
		ID: s.nextID, Name: name, Email: email, PasswordHash: passwordHash,
		Status: model.StatusActive, RoleID: roleID, RoleName: roleNameFor(roleID),
	}
	s.nextID++
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u.ID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := s.byID[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

var testRoles = map[string]model.Role{
	"admin":  {ID: 1, Name: "admin"},
	"seller": {ID: 2, Name: "seller"},
	"client": {ID: 3, Name: "client"},
}

func roleNameFor(id uint64) string {
	for name, r := range testRoles {
		if r.ID == id {
			return name
		}
	}
	return ""
}

type fakeRoleStore struct{}

func (fakeRoleStore) GetByName(_ context.Context, name string) (model.Role, error) {
	if r, ok := testRoles[name]; ok {
		return r, nil
	}
	return model.Role{}, repository.ErrNotFound
}

type fakeTokenStore struct {
	users  *fakeUserStore
	byUser map[uint64]model.RefreshToken
}

func newFakeTokenStore(users *fakeUserStore) *fakeTokenStore {
	return &fakeTokenStore{users: users, byUser: map[uint64]model.RefreshToken{}}
}

func (s *fakeTokenStore) Upsert(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	s.byUser[userID] = model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	return nil
}

func (s *fakeTokenStore) FindByHash(_ context.Context, tokenHash string) (model.RefreshSession, error) {
	for userID, tok := range s.byUser {
		if tok.TokenHash != tokenHash {
			continue
		}
		if time.Now().After(tok.ExpiresAt) {
			delete(s.byUser, userID)
			return model.RefreshSession{}, repository.ErrTokenExpired
		}
		u, ok := s.users.byID[userID]
		if !ok {
			return model.RefreshSession{}, repository.ErrNotFound
		}
		return model.RefreshSession{Token: tok, User: *u}, nil
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (s *fakeTokenStore) DeleteByHash(_ context.Context, tokenHash string) error {
	for userID, tok := range s.byUser {
		if tok.TokenHash == tokenHash {
			delete(s.byUser, userID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "service-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the suite fast
	}
}

func newTestAuth() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore(users)
	return NewAuthService(testConfig(), users, fakeRoleStore{}, tokens), users, tokens
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("got %v (%T), want *apperr.Error", err, err)
	}
	if ae.Status != status {
		t.Fatalf("status = %d (%q), want %d", ae.Status, ae.Message, status)
	}
}

func TestRegisterIssuesAccessTokenOnly(t *testing.T) {
	auth, _, tokens := newTestAuth()
	ctx := context.Background()

	res, err := auth.Register(ctx, "Ada", "Ada@Example.com", "secret-1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", res.User.Email)
	}
	if res.User.RoleName != DefaultRole {
		t.Fatalf("role = %q, want %q", res.User.RoleName, DefaultRole)
	}

	cl, err := utils.VerifyAccessToken(testConfig().JWTSecret, res.Token.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if cl.UserID != res.User.ID || cl.Role != DefaultRole {
		t.Fatalf("claims mismatch: %+v", cl)
	}

	// Registration must not open a session.
	if len(tokens.byUser) != 0 {
		t.Fatalf("register stored %d refresh tokens, want 0", len(tokens.byUser))
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	cases := []struct {
		name, userName, email, password, role string
		status                                int
	}{
		{"missing name", "", "a@b.com", "secret-1", "", http.StatusBadRequest},
		{"missing email", "Ada", "", "secret-1", "", http.StatusBadRequest},
		{"short password", "Ada", "a@b.com", "12345", "", http.StatusBadRequest},
		{"unknown role", "Ada", "a@b.com", "secret-1", "superuser", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.userName, tc.email, tc.password, tc.role)
			wantStatus(t, err, tc.status)
		})
	}
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	// Same address with different casing must still collide.
	_, err := auth.Register(ctx, "Imposter", "ADA@example.com", "secret-2", "")
	wantStatus(t, err, http.StatusConflict)
}

func TestLoginIssuesBothTokens(t *testing.T) {
	auth, _, tokens := newTestAuth()
	ctx := context.Background()

	reg, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", "seller")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Access.Token == "" || res.Refresh.Raw == "" {
		t.Fatal("login must issue both tokens")
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("user id = %d, want %d", res.User.ID, reg.User.ID)
	}

	stored, ok := tokens.byUser[reg.User.ID]
	if !ok {
		t.Fatal("no refresh token stored")
	}
	if stored.TokenHash == res.Refresh.Raw {
		t.Fatal("store must hold the hash, not the raw token")
	}
	if stored.TokenHash != utils.HashRefreshRaw(res.Refresh.Raw) {
		t.Fatal("stored hash does not match the issued token")
	}
}

func TestLoginReplacesPriorSession(t *testing.T) {
	auth, _, tokens := newTestAuth()
	ctx := context.Background()

	reg, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	first, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	second, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}

	if len(tokens.byUser) != 1 {
		t.Fatalf("stored sessions = %d, want 1 per user", len(tokens.byUser))
	}
	if _, ok := tokens.byUser[reg.User.ID]; !ok {
		t.Fatal("session not keyed by user id")
	}

	// The first token was displaced and must no longer refresh.
	if _, err := auth.Refresh(ctx, first.Refresh.Raw); err == nil {
		t.Fatal("displaced refresh token still accepted")
	}
	if _, err := auth.Refresh(ctx, second.Refresh.Raw); err != nil {
		t.Fatalf("current refresh token rejected: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := auth.Login(ctx, "nobody@example.com", "secret-1")
	wantStatus(t, err, http.StatusNotFound)

	res, err := auth.Login(ctx, "ada@example.com", "wrong-pass")
	wantStatus(t, err, http.StatusUnauthorized)
	if res.Access.Token != "" || res.Refresh.Raw != "" {
		t.Fatal("failed login must not leak tokens")
	}
}

func TestRefreshDoesNotRotate(t *testing.T) {
	auth, _, tokens := newTestAuth()
	ctx := context.Background()

	reg, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	before := tokens.byUser[reg.User.ID]

	access, err := auth.Refresh(ctx, login.Refresh.Raw)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access.Token == "" {
		t.Fatal("refresh returned no access token")
	}
	cl, err := utils.VerifyAccessToken(testConfig().JWTSecret, access.Token)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if cl.UserID != reg.User.ID {
		t.Fatalf("claims user id = %d, want %d", cl.UserID, reg.User.ID)
	}

	// The stored row is untouched and the same raw token keeps working.
	after := tokens.byUser[reg.User.ID]
	if before != after {
		t.Fatal("refresh must not rotate the stored token")
	}
	if _, err := auth.Refresh(ctx, login.Refresh.Raw); err != nil {
		t.Fatalf("second refresh with same token failed: %v", err)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	auth, _, _ := newTestAuth()
	_, err := auth.Refresh(context.Background(), "never-issued")
	wantStatus(t, err, http.StatusForbidden)

	_, err = auth.Refresh(context.Background(), "  ")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestRefreshExpiredTokenReclaimsRow(t *testing.T) {
	auth, _, tokens := newTestAuth()
	ctx := context.Background()

	reg, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Age the stored row past its expiry.
	row := tokens.byUser[reg.User.ID]
	row.ExpiresAt = time.Now().Add(-time.Minute)
	tokens.byUser[reg.User.ID] = row

	_, err = auth.Refresh(ctx, login.Refresh.Raw)
	wantStatus(t, err, http.StatusForbidden)
	if _, ok := tokens.byUser[reg.User.ID]; ok {
		t.Fatal("expired row must be deleted on read")
	}

	// Gone means gone: the second attempt is an unknown token, still 403.
	_, err = auth.Refresh(ctx, login.Refresh.Raw)
	wantStatus(t, err, http.StatusForbidden)
}

func TestLogoutDestroysSession(t *testing.T) {
	auth, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Ada", "ada@example.com", "secret-1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	login, err := auth.Login(ctx, "ada@example.com", "secret-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := auth.Logout(ctx, login.Refresh.Raw); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// The session is gone: refresh is forbidden, a repeat logout is 404.
	_, err = auth.Refresh(ctx, login.Refresh.Raw)
	wantStatus(t, err, http.StatusForbidden)
	wantStatus(t, auth.Logout(ctx, login.Refresh.Raw), http.StatusNotFound)

	wantStatus(t, auth.Logout(ctx, ""), http.StatusBadRequest)
}
