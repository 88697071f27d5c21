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

// defaultProductImage is used when a product is created without one.
const defaultProductImage = "/images/default_image.png"

// ProductHandler exposes product reads and creation.
type ProductHandler struct {
	Products   repository.ProductStore
	Categories repository.CategoryStore
}

func NewProductHandler(products repository.ProductStore, categories repository.CategoryStore) *ProductHandler {
	return &ProductHandler{Products: products, Categories: categories}
}

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	CategoryID  uint64  `json:"category_id"`
	Category    string  `json:"category"` // alternative to category_id
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		return apperr.Internal("query failed")
	}
	if products == nil {
		products = []model.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Internal("query failed")
	}
	return c.JSON(http.StatusOK, p)
}

// Create adds a product. The category resolves by id or by name; a missing
// category is 404 and a duplicate product name 409.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("name is required")
	}
	if req.Price < 0 {
		return apperr.Validation("price cannot be negative")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	var (
		cat model.Category
		err error
	)
	switch {
	case req.CategoryID != 0:
		cat, err = h.Categories.GetByID(ctx, req.CategoryID)
	case req.Category != "":
		cat, err = h.Categories.GetByName(ctx, req.Category)
	default:
		return apperr.Validation("category_id or category is required")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("category not found")
		}
		return apperr.Internal("category lookup failed")
	}

	image := req.Image
	if image == "" {
		image = defaultProductImage
	}
	p := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       image,
		Status:      model.StatusActive,
		CategoryID:  cat.ID,
	}
	id, err := h.Products.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return apperr.Conflict("product already exists")
		}
		return apperr.Internal("create product failed")
	}
	p.ID = id
	p.CategoryName = cat.Name
	return c.JSON(http.StatusCreated, p)
}
