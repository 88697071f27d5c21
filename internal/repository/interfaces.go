package repository

import (
	"context"
	"time"

	"github.com/suseche/inventory-api/internal/model"
)

// Narrow store interfaces consumed by the service layer. The concrete MySQL
// repositories satisfy them; tests substitute in-memory fakes.

// UserStore is the slice of user persistence the session manager needs.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string, roleID uint64) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RoleStore resolves roles by name.
type RoleStore interface {
	GetByName(ctx context.Context, name string) (model.Role, error)
}

// TokenStore owns refresh-token rows. Only the session manager may touch it.
type TokenStore interface {
	// Upsert stores a token hash keyed by user id, replacing any prior
	// token for that user.
	Upsert(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	// FindByHash returns the session joined with its user and role.
	// Expired rows are deleted on read and reported as ErrTokenExpired.
	FindByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	// DeleteByHash removes the row, reporting ErrNotFound when absent.
	DeleteByHash(ctx context.Context, tokenHash string) error
}

// CategoryStore is the category persistence the catalog handlers need.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uint64) (model.Category, error)
	GetByName(ctx context.Context, name string) (model.Category, error)
	Create(ctx context.Context, name, description string) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id uint64) error
}

// ProductStore is the product persistence shared by the catalog handlers
// and the report builder.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id uint64) (model.Product, error)
	GetByName(ctx context.Context, name string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (uint64, error)
	ListWithVariants(ctx context.Context) ([]model.Product, map[uint64][]model.Variant, error)
}

// VariantStore is the variant persistence the catalog and inventory
// handlers need.
type VariantStore interface {
	List(ctx context.Context) ([]model.Variant, error)
	ListPaginated(ctx context.Context, page, limit int) ([]model.Variant, int, error)
	GetByID(ctx context.Context, id uint64) (model.Variant, error)
	Create(ctx context.Context, v model.Variant) (uint64, error)
}

// InventoryStore owns the movement ledger and the stock rows it adjusts.
type InventoryStore interface {
	// RecordMovement appends a ledger entry and adjusts stock atomically.
	// An out movement that would drive stock negative fails with
	// ErrInsufficientStock and leaves both tables untouched.
	RecordMovement(ctx context.Context, m model.InventoryMovement) (uint64, error)
	MonthlyHistory(ctx context.Context) ([]model.MonthlyInventory, error)
	StockForVariant(ctx context.Context, variantID uint64) (model.Stock, error)
}
