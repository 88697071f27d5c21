package repository

import (
	"context"
	"database/sql"

	"github.com/suseche/inventory-api/internal/model"
)

// InventoryRepo writes the append-only movement ledger and keeps the
// per-variant stock row in step with it.
type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

// RecordMovement appends a movement and adjusts the variant's stock inside
// one transaction. Outbound movements that would drive stock negative roll
// back with ErrInsufficientStock.
func (r *InventoryRepo) RecordMovement(ctx context.Context, m model.InventoryMovement) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var qty int
	err = tx.QueryRowContext(ctx,
		"SELECT quantity FROM stocks WHERE variant_id=? FOR UPDATE", m.VariantID).Scan(&qty)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}

	delta := m.Quantity
	if m.Type == model.MovementOut {
		delta = -delta
	}
	if qty+delta < 0 {
		return 0, ErrInsufficientStock
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stocks (variant_id, quantity) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		m.VariantID, delta); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO inventory_history (variant_id, quantity, value, type) VALUES (?,?,?,?)",
		m.VariantID, m.Quantity, m.Value, m.Type)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// MonthlyHistory aggregates inbound movements per calendar month.
func (r *InventoryRepo) MonthlyHistory(ctx context.Context) ([]model.MonthlyInventory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m') AS month,
		        SUM(quantity), SUM(value)
		 FROM inventory_history
		 WHERE type=?
		 GROUP BY month
		 ORDER BY month ASC`, model.MovementIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []model.MonthlyInventory
	for rows.Next() {
		var m model.MonthlyInventory
		if err := rows.Scan(&m.Month, &m.TotalQuantity, &m.TotalValue); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// StockForVariant returns the stock row for a variant, ErrNotFound when no
// movements have touched it yet.
func (r *InventoryRepo) StockForVariant(ctx context.Context, variantID uint64) (model.Stock, error) {
	var (
		s      model.Stock
		expiry sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, variant_id, quantity, expiry_date, COALESCE(lot_code,'') FROM stocks WHERE variant_id=? LIMIT 1",
		variantID).Scan(&s.ID, &s.VariantID, &s.Quantity, &expiry, &s.LotCode)
	if err == sql.ErrNoRows {
		return model.Stock{}, ErrNotFound
	}
	if expiry.Valid {
		t := expiry.Time
		s.ExpiryDate = &t
	}
	return s, err
}
