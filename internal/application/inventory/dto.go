package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/inventory"
)

// CreateStockItemInput carries a new tracked consumable
type CreateStockItemInput struct {
	ProductCode string          `json:"product_code"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`

	PaperType     string `json:"paper_type,omitempty"`
	PaperSize     string `json:"paper_size,omitempty"`
	SheetsPerPack int64  `json:"sheets_per_pack,omitempty"`

	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	MinQuantity  *decimal.Decimal `json:"min_quantity,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// UpdateStockItemInput edits descriptive fields; quantity moves only
// through AdjustQuantity.
type UpdateStockItemInput struct {
	Name          *string          `json:"name,omitempty"`
	PaperType     *string          `json:"paper_type,omitempty"`
	PaperSize     *string          `json:"paper_size,omitempty"`
	SheetsPerPack *int64           `json:"sheets_per_pack,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	MinQuantity   *decimal.Decimal `json:"min_quantity,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// AdjustQuantityInput moves stock in or out
type AdjustQuantityInput struct {
	ProductCode string          `json:"product_code"`
	Operation   string          `json:"operation"` // add or consume
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost,omitempty"` // for add, cost of the incoming batch
}

// BulkUpdateItem pairs a product code with the edit to apply to it
type BulkUpdateItem struct {
	ProductCode string               `json:"product_code" binding:"required"`
	Update      UpdateStockItemInput `json:"update"`
}

// BulkUpdateResult reports the outcome of one bulk entry
type BulkUpdateResult struct {
	ProductCode string         `json:"product_code"`
	Item        *StockItemView `json:"item,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// ListStockInput narrows stock listings
type ListStockInput struct {
	Category        string `json:"category,omitempty" form:"category"`
	LowStockOnly    bool   `json:"low_stock_only,omitempty" form:"low_stock_only"`
	IncludeInactive bool   `json:"include_inactive,omitempty" form:"include_inactive"`
	Search          string `json:"search,omitempty" form:"search"`
	Limit           int    `json:"limit,omitempty" form:"limit"`
	Offset          int    `json:"offset,omitempty" form:"offset"`
}

// ListStockResult is a page of items plus the unpaged total
type ListStockResult struct {
	Items []*inventory.StockItem `json:"items"`
	Total int64                  `json:"total"`
}

// StockItemView flattens an item with its derived projections for
// the API.
type StockItemView struct {
	Item          *inventory.StockItem  `json:"item"`
	Status        inventory.StockStatus `json:"status"`
	SheetsInStock decimal.Decimal       `json:"sheets_in_stock"`
	ProfitMargin  decimal.Decimal       `json:"profit_margin"`
	StockValue    decimal.Decimal       `json:"stock_value"`
}

func viewOf(item *inventory.StockItem) *StockItemView {
	return &StockItemView{
		Item:          item,
		Status:        item.Status(),
		SheetsInStock: item.SheetsInStock(),
		ProfitMargin:  item.ProfitMargin(),
		StockValue:    item.StockValue().Amount(),
	}
}
