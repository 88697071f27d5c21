package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/suseche/inventory-api/internal/model"
)

// VariantRepo persists product variants. Reads join the owning product's
// name and image so list responses need no second query.
type VariantRepo struct{ DB *sql.DB }

func NewVariantRepo(db *sql.DB) *VariantRepo { return &VariantRepo{DB: db} }

const variantColumns = `v.id, COALESCE(v.color,''), COALESCE(v.size,''), v.sku, v.price, v.status, v.product_id, p.name, p.image`

func scanVariant(row interface{ Scan(...any) error }) (model.Variant, error) {
	var v model.Variant
	err := row.Scan(&v.ID, &v.Color, &v.Size, &v.SKU, &v.Price, &v.Status,
		&v.ProductID, &v.ProductName, &v.ProductImage)
	return v, err
}

// List returns all variants with product info joined.
func (r *VariantRepo) List(ctx context.Context) ([]model.Variant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+variantColumns+" FROM variants v JOIN products p ON p.id = v.product_id ORDER BY v.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []model.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ListPaginated returns one page of variants plus the total count.
func (r *VariantRepo) ListPaginated(ctx context.Context, page, limit int) ([]model.Variant, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM variants").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+variantColumns+" FROM variants v JOIN products p ON p.id = v.product_id ORDER BY v.id LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var variants []model.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, 0, err
		}
		variants = append(variants, v)
	}
	return variants, total, rows.Err()
}

// GetByID fetches a variant with product info joined.
func (r *VariantRepo) GetByID(ctx context.Context, id uint64) (model.Variant, error) {
	v, err := scanVariant(r.DB.QueryRowContext(ctx,
		"SELECT "+variantColumns+" FROM variants v JOIN products p ON p.id = v.product_id WHERE v.id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Variant{}, ErrNotFound
	}
	return v, err
}

// Create inserts a variant with status=active; a duplicate SKU surfaces as
// ErrDuplicateSKU.
func (r *VariantRepo) Create(ctx context.Context, v model.Variant) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO variants (color, size, sku, price, status, product_id) VALUES (?,?,?,?,?,?)",
		v.Color, v.Size, v.SKU, v.Price, model.StatusActive, v.ProductID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateSKU
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
