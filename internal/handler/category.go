package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
)

// CategoryHandler exposes category CRUD.
type CategoryHandler struct {
	Categories repository.CategoryStore
}

func NewCategoryHandler(categories repository.CategoryStore) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return apperr.Internal("query failed")
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal("query failed")
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("name is required")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	cat, err := h.Categories.Create(ctx, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return apperr.Conflict("category already exists")
		}
		return apperr.Internal("create category failed")
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal("query failed")
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		cat.Name = name
	}
	if req.Description != "" {
		cat.Description = req.Description
	}
	if err := h.Categories.Update(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return apperr.Conflict("category name already exists")
		}
		return apperr.Internal("update failed")
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal("delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
