package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// StockCategory groups the consumables the studio tracks
type StockCategory string

const (
	CategoryPaper   StockCategory = "paper"
	CategoryBag     StockCategory = "bag"
	CategoryBinding StockCategory = "binding"
	CategoryOther   StockCategory = "other"
)

// IsValid checks if the category is known
func (c StockCategory) IsValid() bool {
	switch c {
	case CategoryPaper, CategoryBag, CategoryBinding, CategoryOther:
		return true
	}
	return false
}

// StockStatus is the derived availability of an item
type StockStatus string

const (
	StockStatusIn  StockStatus = "in-stock"
	StockStatusLow StockStatus = "low-stock"
	StockStatusOut StockStatus = "out-of-stock"
)

// UnitPacks marks items counted in packs; SheetsPerPack converts
// their quantity to sheets for reporting.
const UnitPacks = "packs"

// StockItem is the aggregate root for a tracked consumable. Quantity
// moves only through AddStock and ConsumeStock so every movement has a
// direction and a reason.
type StockItem struct {
	shared.BaseAggregateRoot

	ProductCode string
	Name        string
	Category    StockCategory
	Unit        string // sheets, packs, pieces, rolls

	// PaperType and PaperSize are set for paper category items only
	PaperType string
	PaperSize string

	// SheetsPerPack converts pack quantities to sheets; zero for
	// items not counted in packs.
	SheetsPerPack int64

	Quantity     decimal.Decimal
	MinQuantity  decimal.Decimal // reorder threshold, zero disables the alert
	UnitCost     decimal.Decimal
	SellingPrice decimal.Decimal

	Notes  string
	Active bool
}

// NewStockItem creates a tracked consumable starting at the given quantity
func NewStockItem(productCode, name string, category StockCategory, unit string, quantity decimal.Decimal, unitCost valueobject.Money) (*StockItem, error) {
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Stock item name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown stock category")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure is required")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductCode:       productCode,
		Name:              name,
		Category:          category,
		Unit:              unit,
		Quantity:          quantity,
		MinQuantity:       decimal.Zero,
		UnitCost:          unitCost.Amount(),
		Active:            true,
	}, nil
}

// AddStock increases the quantity and recomputes the unit cost as a
// moving weighted average over the incoming batch.
func (s *StockItem) AddStock(quantity decimal.Decimal, unitCost valueobject.Money) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	if s.Quantity.IsZero() {
		s.UnitCost = unitCost.Amount()
	} else {
		totalValue := s.Quantity.Mul(s.UnitCost).Add(quantity.Mul(unitCost.Amount()))
		s.UnitCost = totalValue.Div(s.Quantity.Add(quantity)).Round(4)
	}
	s.Quantity = s.Quantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ConsumeStock decreases the quantity. Consumption past zero is
// rejected rather than clamped so miscounts surface immediately.
func (s *StockItem) ConsumeStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.Quantity.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock to consume")
	}
	s.Quantity = s.Quantity.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetMinQuantity sets the reorder threshold. Zero disables alerting.
func (s *StockItem) SetMinQuantity(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Threshold cannot be negative")
	}
	s.MinQuantity = min
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsLowStock reports whether the quantity is at or below the threshold
func (s *StockItem) IsLowStock() bool {
	if s.MinQuantity.IsZero() {
		return false
	}
	return s.Quantity.LessThanOrEqual(s.MinQuantity)
}

// SetPaperSpec records the paper attributes for paper category items
func (s *StockItem) SetPaperSpec(paperType, paperSize string, sheetsPerPack int64) error {
	if s.Category != CategoryPaper {
		return shared.NewDomainError("INVALID_CATEGORY", "Paper attributes only apply to paper items")
	}
	if sheetsPerPack < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Sheets per pack cannot be negative")
	}
	s.PaperType = paperType
	s.PaperSize = paperSize
	s.SheetsPerPack = sheetsPerPack
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetSellingPrice sets the per-unit selling price
func (s *StockItem) SetSellingPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Selling price cannot be negative")
	}
	s.SellingPrice = price.Amount()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Status derives the availability bucket from quantity and threshold
func (s *StockItem) Status() StockStatus {
	if s.Quantity.IsZero() {
		return StockStatusOut
	}
	if s.IsLowStock() {
		return StockStatusLow
	}
	return StockStatusIn
}

// SheetsInStock converts the quantity to sheets for pack-counted
// items; other units report the raw quantity.
func (s *StockItem) SheetsInStock() decimal.Decimal {
	if s.Unit == UnitPacks && s.SheetsPerPack > 0 {
		return s.Quantity.Mul(decimal.NewFromInt(s.SheetsPerPack))
	}
	return s.Quantity
}

// ProfitMargin returns selling price minus unit cost per unit
func (s *StockItem) ProfitMargin() decimal.Decimal {
	return s.SellingPrice.Sub(s.UnitCost)
}

// StockValue returns quantity times unit cost
func (s *StockItem) StockValue() valueobject.Money {
	return valueobject.NewMoneyINR(s.Quantity.Mul(s.UnitCost))
}

// Rename changes the item name
func (s *StockItem) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Stock item name cannot be empty")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate hides the item from active listings
func (s *StockItem) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("INVALID_STATE", "Stock item is already deactivated")
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
