package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/middleware"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/queue"
	"github.com/suseche/inventory-api/internal/repository"
)

// InventoryHandler records stock movements and serves the movement ledger.
type InventoryHandler struct {
	Inventory repository.InventoryStore
	Variants  repository.VariantStore
}

func NewInventoryHandler(inventory repository.InventoryStore, variants repository.VariantStore) *InventoryHandler {
	return &InventoryHandler{Inventory: inventory, Variants: variants}
}

type movementReq struct {
	VariantID uint64  `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	Value     float64 `json:"value"`
	Type      string  `json:"type"` // in | out
}

// CreateMovement appends a movement to the ledger and adjusts stock. On
// success an event is published to the movement queue; publish failures are
// logged inside the publisher and never fail the request.
func (h *InventoryHandler) CreateMovement(c echo.Context) error {
	var req movementReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if req.Type != model.MovementIn && req.Type != model.MovementOut {
		return apperr.Validation("type must be 'in' or 'out'")
	}
	if req.VariantID == 0 || req.Quantity <= 0 {
		return apperr.Validation("variant_id and a positive quantity are required")
	}
	if req.Value < 0 {
		return apperr.Validation("value cannot be negative")
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	v, err := h.Variants.GetByID(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("variant not found")
		}
		return apperr.Internal("variant lookup failed")
	}

	m := model.InventoryMovement{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Value:     req.Value,
		Type:      req.Type,
	}
	id, err := h.Inventory.RecordMovement(ctx, m)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return apperr.Conflict("insufficient stock for outbound movement")
		}
		return apperr.Internal("record movement failed")
	}
	m.ID = id
	m.CreatedAt = time.Now().UTC()

	actorID, _ := c.Get(middleware.CtxUserID).(uint64)
	// Fire and forget: the audit trail is best effort, the ledger row is
	// already committed.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue.PublishStockMovement(pubCtx, queue.StockMovementEvent{
			EventID:    uuid.New().String(),
			MovementID: m.ID,
			VariantID:  m.VariantID,
			SKU:        v.SKU,
			Quantity:   m.Quantity,
			Value:      m.Value,
			Type:       m.Type,
			ActorID:    actorID,
			OccurredAt: m.CreatedAt,
		})
	}()

	return c.JSON(http.StatusCreated, m)
}

// Monthly returns the per-month aggregate of inbound movements.
func (h *InventoryHandler) Monthly(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	months, err := h.Inventory.MonthlyHistory(ctx)
	if err != nil {
		return apperr.Internal("query failed")
	}
	if months == nil {
		months = []model.MonthlyInventory{}
	}
	return c.JSON(http.StatusOK, months)
}

// Stock returns the current stock row for a variant.
func (h *InventoryHandler) Stock(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := boundCtx(c)
	defer cancel()

	s, err := h.Inventory.StockForVariant(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("no stock recorded for variant")
		}
		return apperr.Internal("query failed")
	}
	return c.JSON(http.StatusOK, s)
}
