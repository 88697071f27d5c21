package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/config"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
	"github.com/suseche/inventory-api/internal/service"
	"github.com/suseche/inventory-api/internal/utils"
)

// UserHandler exposes user administration. Session logic lives elsewhere;
// these endpoints only manage account records.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Roles *repository.RoleRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, roles *repository.RoleRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Roles: roles}
}

type upsertUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Status   string `json:"status"`
	Role     string `json:"role"`
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

// List returns all users, redacted.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return apperr.Internal("query failed")
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Paginated returns one page of users plus paging metadata.
func (h *UserHandler) Paginated(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	users, total, err := h.Users.ListPaginated(ctx, page, limit)
	if err != nil {
		return apperr.Internal("query failed")
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	totalPages := (total + limit - 1) / limit
	return c.JSON(http.StatusOK, echo.Map{
		"totalUsers":  total,
		"totalPages":  totalPages,
		"currentPage": page,
		"users":       out,
	})
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("query failed")
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// Create adds a user with an explicit role; admin only.
func (h *UserHandler) Create(c echo.Context) error {
	var req upsertUserReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = service.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperr.Validation("name, email and password are required")
	}
	if len(req.Password) < service.MinPasswordLen {
		return apperr.Validation("password must be at least 6 characters")
	}
	if req.Role == "" {
		req.Role = service.DefaultRole
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("role '" + req.Role + "' not found")
		}
		return apperr.Internal("role lookup failed")
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Internal("password hashing failed")
	}
	id, err := h.Users.Create(ctx, req.Name, req.Email, hash, role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.Conflict("email already in use")
		}
		return apperr.Internal("create user failed")
	}
	u := model.User{ID: id, Name: req.Name, Email: req.Email, Status: model.StatusActive, RoleID: role.ID, RoleName: role.Name}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// Update partially updates a user; omitted fields keep their value. The
// route sits behind the self-or-admin gate.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req upsertUserReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("query failed")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}
	if email := service.NormalizeEmail(req.Email); email != "" && email != u.Email {
		taken, err := h.Users.EmailTakenByOther(ctx, email, id)
		if err != nil {
			return apperr.Internal("query failed")
		}
		if taken {
			return apperr.Conflict("email already in use")
		}
		u.Email = email
	}
	if req.Status == model.StatusActive || req.Status == model.StatusInactive {
		u.Status = req.Status
	}
	if req.Role != "" {
		role, err := h.Roles.GetByName(ctx, req.Role)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("role not found")
			}
			return apperr.Internal("role lookup failed")
		}
		u.RoleID = role.ID
		u.RoleName = role.Name
	}
	if req.Password != "" {
		if len(req.Password) < service.MinPasswordLen {
			return apperr.Validation("password must be at least 6 characters")
		}
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return apperr.Internal("password hashing failed")
		}
		u.PasswordHash = hash
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.Conflict("email already in use")
		}
		return apperr.Internal("update failed")
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// Delete deactivates a user. The row stays; status flips to inactive.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("query failed")
	}
	if err := h.Users.Deactivate(ctx, id); err != nil {
		return apperr.Internal("delete failed")
	}
	u.Status = model.StatusInactive
	return c.JSON(http.StatusOK, toUserPart(u))
}
