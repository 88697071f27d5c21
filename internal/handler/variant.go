package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
)

// VariantHandler exposes variant reads and creation.
type VariantHandler struct {
	Variants repository.VariantStore
	Products repository.ProductStore
}

func NewVariantHandler(variants repository.VariantStore, products repository.ProductStore) *VariantHandler {
	return &VariantHandler{Variants: variants, Products: products}
}

type variantReq struct {
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	ProductID uint64  `json:"product_id"`
	Product   string  `json:"product"` // alternative to product_id
}

func (h *VariantHandler) List(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	variants, err := h.Variants.List(ctx)
	if err != nil {
		return apperr.Internal("query failed")
	}
	if variants == nil {
		variants = []model.Variant{}
	}
	return c.JSON(http.StatusOK, variants)
}

func (h *VariantHandler) Paginated(c echo.Context) error {
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

	variants, total, err := h.Variants.ListPaginated(ctx, page, limit)
	if err != nil {
		return apperr.Internal("query failed")
	}
	if variants == nil {
		variants = []model.Variant{}
	}
	totalPages := (total + limit - 1) / limit
	return c.JSON(http.StatusOK, echo.Map{
		"totalVariants": total,
		"totalPages":    totalPages,
		"currentPage":   page,
		"variants":      variants,
	})
}

func (h *VariantHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	v, err := h.Variants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("variant not found")
		}
		return apperr.Internal("query failed")
	}
	return c.JSON(http.StatusOK, v)
}

// Create adds a variant. The product resolves by id or name; a duplicate
// SKU is 409.
func (h *VariantHandler) Create(c echo.Context) error {
	var req variantReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	req.SKU = strings.TrimSpace(req.SKU)
	if req.SKU == "" {
		return apperr.Validation("sku is required")
	}
	if req.Price < 0 {
		return apperr.Validation("price cannot be negative")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	var (
		p   model.Product
		err error
	)
	switch {
	case req.ProductID != 0:
		p, err = h.Products.GetByID(ctx, req.ProductID)
	case req.Product != "":
		p, err = h.Products.GetByName(ctx, req.Product)
	default:
		return apperr.Validation("product_id or product is required")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Internal("product lookup failed")
	}

	v := model.Variant{
		Color:     req.Color,
		Size:      req.Size,
		SKU:       req.SKU,
		Price:     req.Price,
		Status:    model.StatusActive,
		ProductID: p.ID,
	}
	id, err := h.Variants.Create(ctx, v)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return apperr.Conflict("variant SKU already exists")
		}
		return apperr.Internal("create variant failed")
	}
	v.ID = id
	v.ProductName = p.Name
	v.ProductImage = p.Image
	return c.JSON(http.StatusCreated, v)
}
