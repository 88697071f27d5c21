package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/middleware"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/service"
)

// storeTimeout bounds every store round-trip triggered by a request, so a
// slow database surfaces as an error instead of a hung request.
const storeTimeout = 5 * time.Second

func boundCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// AuthHandler exposes the session lifecycle over HTTP.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional, defaults to client
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type userPart struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

func toUserPart(u model.User) userPart {
	// Redacted projection: the password hash never serializes outward.
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status, Role: u.RoleName}
}

// Register creates a user and returns an access token only. Obtaining a
// refresh token requires a subsequent login.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	res, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered",
		"user":    toUserPart(res.User),
		"token":   res.Token.Token,
	})
}

// Login verifies credentials and returns the user plus both tokens.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"user":         toUserPart(res.User),
		"accessToken":  res.Access.Token,
		"refreshToken": res.Refresh.Raw,
	})
}

// Refresh exchanges a live refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req) // empty token is reported by the service as 400

	ctx, cancel := boundCtx(c)
	defer cancel()

	access, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access.Token})
}

// Logout destroys the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)

	ctx, cancel := boundCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful, token deleted"})
}

// Me returns the principal attached by the authentication gate.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":    c.Get(middleware.CtxUserID),
		"name":  c.Get(middleware.CtxUserName),
		"email": c.Get(middleware.CtxUserEmail),
		"role":  c.Get(middleware.CtxRole),
	})
}
