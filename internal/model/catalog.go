package model

import "time"

// Category groups products. Names are unique.
type Category struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product belongs to a category and may carry any number of variants.
type Product struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Image        string    `json:"image"`
	Status       string    `json:"status"`
	CategoryID   uint64    `json:"category_id"`
	CategoryName string    `json:"category,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Variant is a sellable variation of a product identified by a unique SKU.
type Variant struct {
	ID           uint64  `json:"id"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	SKU          string  `json:"sku"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	ProductID    uint64  `json:"product_id"`
	ProductName  string  `json:"product,omitempty"`
	ProductImage string  `json:"product_image,omitempty"`
}

// Stock is the current on-hand quantity for a variant, one row per variant.
type Stock struct {
	ID         uint64     `json:"id"`
	VariantID  uint64     `json:"variant_id"`
	Quantity   int        `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	LotCode    string     `json:"lot_code,omitempty"`
}

// Movement directions for inventory history rows.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// InventoryMovement is an append-only ledger entry adjusting a variant's stock.
type InventoryMovement struct {
	ID        uint64    `json:"id"`
	VariantID uint64    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Value     float64   `json:"value"`
	Type      string    `json:"type"` // in | out
	CreatedAt time.Time `json:"created_at"`
}

// MonthlyInventory is the per-month aggregate of inbound movements.
type MonthlyInventory struct {
	Month         string  `json:"month"` // YYYY-MM
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}
