// Package service holds the business logic between handlers and
// repositories. AuthService is the session lifecycle manager: it owns
// refresh tokens exclusively and orchestrates the credential store, the
// password hasher and the token codec for register, login, refresh and
// logout.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/utils"
)

// DefaultRole is assigned to registrations that do not name a role.
const DefaultRole = "client"

// MinPasswordLen matches the registration validation of the public API.
const MinPasswordLen = 6

// AuthService orchestrates credential verification and token issuance.
type AuthService struct {
	cfg    config.Config
	users  repository.UserStore
	roles  repository.RoleStore
	tokens repository.TokenStore
}

func NewAuthService(cfg config.Config, users repository.UserStore, roles repository.RoleStore, tokens repository.TokenStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, roles: roles, tokens: tokens}
}

// RegisterResult carries the created user and its access token. Registration
// deliberately issues no refresh token: clients log in to start a session.
type RegisterResult struct {
	User  model.User
	Token utils.AccessToken
}

// LoginResult carries the authenticated user and both tokens.
type LoginResult struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// NormalizeEmail applies the canonical form used everywhere emails are
// compared or stored: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns an access token minted from the new
// principal. Duplicate emails (case-insensitively) are a Conflict; an
// unknown role is a Validation failure. The role defaults to "client".
func (s *AuthService) Register(ctx context.Context, name, email, password, roleName string) (RegisterResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return RegisterResult{}, apperr.Validation("name, email and password are required")
	}
	if len(password) < MinPasswordLen {
		return RegisterResult{}, apperr.Validation("password must be at least 6 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return RegisterResult{}, apperr.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return RegisterResult{}, apperr.Internal("user lookup failed")
	}

	if roleName == "" {
		roleName = DefaultRole
	}
	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return RegisterResult{}, apperr.Validation("role '" + roleName + "' not found")
		}
		return RegisterResult{}, apperr.Internal("role lookup failed")
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return RegisterResult{}, apperr.Internal("password hashing failed")
	}

	id, err := s.users.Create(ctx, name, email, hash, role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost the race between the existence check and the insert.
			return RegisterResult{}, apperr.Conflict("email already registered")
		}
		return RegisterResult{}, apperr.Internal("create user failed")
	}

	user := model.User{ID: id, Name: name, Email: email, Status: model.StatusActive, RoleID: role.ID, RoleName: role.Name}
	token, err := utils.NewAccessToken(s.cfg.JWTSecret,
		utils.Claims{UserID: id, Name: name, Email: email, Role: role.Name}, s.cfg.AccessTTLMin)
	if err != nil {
		return RegisterResult{}, apperr.Internal("issue access token failed")
	}
	return RegisterResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues both tokens. The refresh token is
// upserted keyed by user id, so a new login on any device replaces the
// previous session.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, apperr.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, apperr.NotFound("user not found")
		}
		return LoginResult{}, apperr.Internal("user lookup failed")
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return LoginResult{}, apperr.Unauthorized("invalid credentials")
	}

	access, err := utils.NewAccessToken(s.cfg.JWTSecret,
		utils.Claims{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.RoleName}, s.cfg.AccessTTLMin)
	if err != nil {
		return LoginResult{}, apperr.Internal("issue access token failed")
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return LoginResult{}, apperr.Internal("issue refresh token failed")
	}
	if err := s.tokens.Upsert(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return LoginResult{}, apperr.Internal("save refresh token failed")
	}

	return LoginResult{User: user, Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is NOT rotated; it stays valid until its original expiry or
// an explicit logout. A captured token therefore remains replayable for its
// full lifetime, an accepted trade-off of the current security posture.
// Invalid and expired tokens both surface as 403 so clients know to log in
// again rather than retry.
func (s *AuthService) Refresh(ctx context.Context, raw string) (utils.AccessToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return utils.AccessToken{}, apperr.Validation("missing refresh token")
	}

	session, err := s.tokens.FindByHash(ctx, utils.HashRefreshRaw(raw))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return utils.AccessToken{}, apperr.Forbidden("invalid refresh token")
		case errors.Is(err, repository.ErrTokenExpired):
			// The store already reclaimed the row; the token is gone for good.
			return utils.AccessToken{}, apperr.Forbidden("expired refresh token")
		default:
			return utils.AccessToken{}, apperr.Internal("refresh token lookup failed")
		}
	}

	u := session.User
	access, err := utils.NewAccessToken(s.cfg.JWTSecret,
		utils.Claims{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.RoleName}, s.cfg.AccessTTLMin)
	if err != nil {
		return utils.AccessToken{}, apperr.Internal("issue access token failed")
	}
	return access, nil
}

// Logout destroys the stored refresh token. Presenting the same token twice
// reports NotFound the second time, which is accurate rather than a bug.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return apperr.Validation("missing refresh token")
	}
	if err := s.tokens.DeleteByHash(ctx, utils.HashRefreshRaw(raw)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("token not found or already removed")
		}
		return apperr.Internal("logout failed")
	}
	return nil
}
