package models

import (
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/inventory"
)

// StockItemModel is the persistence model for the StockItem aggregate.
type StockItemModel struct {
	AggregateModel
	ProductCode   string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string                  `gorm:"type:varchar(200);not null;index"`
	Category      inventory.StockCategory `gorm:"type:varchar(20);not null;index"`
	Unit          string                  `gorm:"type:varchar(20);not null"`
	PaperType     string                  `gorm:"type:varchar(50)"`
	PaperSize     string                  `gorm:"type:varchar(50)"`
	SheetsPerPack int64                   `gorm:"not null;default:0"`
	Quantity      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string                  `gorm:"type:text"`
	Active        bool                    `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	item := &inventory.StockItem{
		ProductCode:   m.ProductCode,
		Name:          m.Name,
		Category:      m.Category,
		Unit:          m.Unit,
		PaperType:     m.PaperType,
		PaperSize:     m.PaperSize,
		SheetsPerPack: m.SheetsPerPack,
		Quantity:      m.Quantity,
		MinQuantity:   m.MinQuantity,
		UnitCost:      m.UnitCost,
		SellingPrice:  m.SellingPrice,
		Notes:         m.Notes,
		Active:        m.Active,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain StockItem.
func (m *StockItemModel) FromDomain(item *inventory.StockItem) {
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	m.ProductCode = item.ProductCode
	m.Name = item.Name
	m.Category = item.Category
	m.Unit = item.Unit
	m.PaperType = item.PaperType
	m.PaperSize = item.PaperSize
	m.SheetsPerPack = item.SheetsPerPack
	m.Quantity = item.Quantity
	m.MinQuantity = item.MinQuantity
	m.UnitCost = item.UnitCost
	m.SellingPrice = item.SellingPrice
	m.Notes = item.Notes
	m.Active = item.Active
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem.
func StockItemModelFromDomain(item *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(item)
	return m
}
