package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/suseche/inventory-api/internal/model"
)

// ProductRepo persists products. Reads join the category name.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = `p.id, p.name, COALESCE(p.description,''), p.price, p.image, p.status, p.category_id, c.name, p.created_at, p.updated_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Status,
		&p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns all products ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category_id ORDER BY p.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID fetches a product with its category name.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// GetByName fetches a product by its unique name.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p JOIN categories c ON c.id = p.category_id WHERE p.name=? LIMIT 1", name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Create inserts a product with status=active.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, price, image, status, category_id) VALUES (?,?,?,?,?,?)",
		p.Name, p.Description, p.Price, p.Image, model.StatusActive, p.CategoryID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateName
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListWithVariants loads all products with their variants attached, for the
// inventory report. Two queries, stitched in memory, to avoid a fan-out row
// per variant on products that have none.
func (r *ProductRepo) ListWithVariants(ctx context.Context) ([]model.Product, map[uint64][]model.Variant, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, COALESCE(color,''), COALESCE(size,''), sku, price, status, product_id FROM variants ORDER BY id")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byProduct := make(map[uint64][]model.Variant)
	for rows.Next() {
		var v model.Variant
		if err := rows.Scan(&v.ID, &v.Color, &v.Size, &v.SKU, &v.Price, &v.Status, &v.ProductID); err != nil {
			return nil, nil, err
		}
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	return products, byProduct, rows.Err()
}
