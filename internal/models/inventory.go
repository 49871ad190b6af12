package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categories accepted for inventory items.
var ItemCategories = []string{
	"detergent",
	"softener",
	"bleach",
	"stain_remover",
	"supplies",
	"packaging",
	"other",
}

// Units accepted for inventory items.
var ItemUnits = []string{
	"kg",
	"liters",
	"pieces",
	"bottles",
	"boxes",
	"packs",
}

// InventorySearchFilter holds list criteria for inventory queries
type InventorySearchFilter struct {
	Query        string `json:"query,omitempty"`
	Category     string `json:"category,omitempty"`
	LowStockOnly bool   `json:"low_stock_only,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// InventoryItem is a stocked consumable. Quantity is owned by the ledger:
// it only changes through an InventoryTransaction applied by the repository.
type InventoryItem struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	Name         string              `json:"name" db:"name"`
	Category     string              `json:"category" db:"category"`
	Description  *string             `json:"description" db:"description"`
	Quantity     decimal.Decimal     `json:"quantity" db:"quantity"`
	Unit         string              `json:"unit" db:"unit"`
	ReorderLevel decimal.Decimal     `json:"reorder_level" db:"reorder_level"`
	CostPerUnit  decimal.NullDecimal `json:"cost_per_unit" db:"cost_per_unit"`
	Supplier     *string             `json:"supplier" db:"supplier"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the item is at or below its reorder level.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// StockPercentage is quantity as a percentage of the reorder level.
// It is nil when the reorder level is zero.
func (i *InventoryItem) StockPercentage() *float64 {
	if i.ReorderLevel.IsZero() {
		return nil
	}
	pct, _ := i.Quantity.Div(i.ReorderLevel).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return &pct
}

// jsonNumber renders d as a bare JSON number rather than decimal's default quoted string.
func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func nullJSONNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := jsonNumber(d.Decimal)
	return &n
}

// MarshalJSON adds the derived stock fields. The outer numeric fields shadow the
// embedded decimals of the same name.
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type item InventoryItem
	return json.Marshal(struct {
		item
		Quantity        json.Number  `json:"quantity"`
		ReorderLevel    json.Number  `json:"reorder_level"`
		CostPerUnit     *json.Number `json:"cost_per_unit"`
		IsLowStock      bool         `json:"is_low_stock"`
		StockPercentage *float64     `json:"stock_percentage"`
	}{
		item:            item(i),
		Quantity:        jsonNumber(i.Quantity),
		ReorderLevel:    jsonNumber(i.ReorderLevel),
		CostPerUnit:     nullJSONNumber(i.CostPerUnit),
		IsLowStock:      i.IsLowStock(),
		StockPercentage: i.StockPercentage(),
	})
}

// InventoryItemChanges is a partial edit. A Quantity that differs from the stored
// value is turned into an adjustment ledger entry, never written directly.
type InventoryItemChanges struct {
	Name         *string
	Category     *string
	Description  *string
	Unit         *string
	ReorderLevel *decimal.Decimal
	CostPerUnit  *decimal.Decimal
	Supplier     *string
	Quantity     *decimal.Decimal
	Notes        *string
}

// Apply copies every non-quantity change onto item.
func (c *InventoryItemChanges) Apply(item *InventoryItem) {
	if c.Name != nil {
		item.Name = *c.Name
	}
	if c.Category != nil {
		item.Category = *c.Category
	}
	if c.Description != nil {
		item.Description = c.Description
	}
	if c.Unit != nil {
		item.Unit = *c.Unit
	}
	if c.ReorderLevel != nil {
		item.ReorderLevel = *c.ReorderLevel
	}
	if c.CostPerUnit != nil {
		item.CostPerUnit = decimal.NewNullDecimal(*c.CostPerUnit)
	}
	if c.Supplier != nil {
		item.Supplier = c.Supplier
	}
}
