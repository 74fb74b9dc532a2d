package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows stock listings
type Filter struct {
	Category        *StockCategory
	LowStockOnly    bool
	IncludeInactive bool
	Search          string
	Limit           int
	Offset          int
}

// Summary aggregates the stock position for reporting
type Summary struct {
	TotalItems    int64           `json:"total_items"`
	LowStockItems int64           `json:"low_stock_items"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// Repository persists stock items. ProductCode is unique;
// implementations surface shared.ErrAlreadyExists on collision.
type Repository interface {
	Save(ctx context.Context, item *StockItem) error
	Update(ctx context.Context, item *StockItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	FindByProductCode(ctx context.Context, code string) (*StockItem, error)
	FindByName(ctx context.Context, name string) (*StockItem, error)
	FindAll(ctx context.Context, filter Filter) ([]*StockItem, int64, error)
	Summary(ctx context.Context) (*Summary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
