package models

import (
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// RateCardModel is the persistence model for the RateCard aggregate.
// Monetary rates are stored as plain decimals; the currency is always
// INR so only the amount is persisted.
type RateCardModel struct {
	AggregateModel
	AlbumType      pricing.AlbumType `gorm:"type:varchar(30);not null;uniqueIndex:idx_rate_cards_key,priority:1"`
	UserType       pricing.UserType  `gorm:"type:varchar(20);not null;uniqueIndex:idx_rate_cards_key,priority:2"`
	PaperSize      string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_rate_cards_key,priority:3"`
	GlossyRate     decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	NTRRate        decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	BindingRate    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	BagRate        decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	BagType        string            `gorm:"type:varchar(100)"`
	TaxPercent     decimal.Decimal   `gorm:"type:decimal(8,4);not null;default:0"`
	DeliveryCharge decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`

	PremiumGlossyRate  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PremiumNTRRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PremiumBindingRate decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PremiumBagRate     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (RateCardModel) TableName() string {
	return "rate_cards"
}

// ToDomain converts the persistence model to a domain RateCard.
func (m *RateCardModel) ToDomain() *pricing.RateCard {
	rc := &pricing.RateCard{
		AlbumType:      m.AlbumType,
		UserType:       m.UserType,
		PaperSize:      m.PaperSize,
		GlossyRate:     valueobject.NewMoneyINR(m.GlossyRate),
		NTRRate:        valueobject.NewMoneyINR(m.NTRRate),
		BindingRate:    valueobject.NewMoneyINR(m.BindingRate),
		BagRate:        valueobject.NewMoneyINR(m.BagRate),
		BagType:        m.BagType,
		TaxPercent:     m.TaxPercent,
		DeliveryCharge: valueobject.NewMoneyINR(m.DeliveryCharge),

		PremiumGlossyRate:  valueobject.NewMoneyINR(m.PremiumGlossyRate),
		PremiumNTRRate:     valueobject.NewMoneyINR(m.PremiumNTRRate),
		PremiumBindingRate: valueobject.NewMoneyINR(m.PremiumBindingRate),
		PremiumBagRate:     valueobject.NewMoneyINR(m.PremiumBagRate),
	}
	m.PopulateAggregateRoot(&rc.BaseAggregateRoot)
	return rc
}

// FromDomain populates the persistence model from a domain RateCard.
func (m *RateCardModel) FromDomain(rc *pricing.RateCard) {
	m.FromDomainAggregateRoot(rc.BaseAggregateRoot)
	m.AlbumType = rc.AlbumType
	m.UserType = rc.UserType
	m.PaperSize = rc.PaperSize
	m.GlossyRate = rc.GlossyRate.Amount()
	m.NTRRate = rc.NTRRate.Amount()
	m.BindingRate = rc.BindingRate.Amount()
	m.BagRate = rc.BagRate.Amount()
	m.BagType = rc.BagType
	m.TaxPercent = rc.TaxPercent
	m.DeliveryCharge = rc.DeliveryCharge.Amount()
	m.PremiumGlossyRate = rc.PremiumGlossyRate.Amount()
	m.PremiumNTRRate = rc.PremiumNTRRate.Amount()
	m.PremiumBindingRate = rc.PremiumBindingRate.Amount()
	m.PremiumBagRate = rc.PremiumBagRate.Amount()
}

// RateCardModelFromDomain creates a new persistence model from a domain RateCard.
func RateCardModelFromDomain(rc *pricing.RateCard) *RateCardModel {
	m := &RateCardModel{}
	m.FromDomain(rc)
	return m
}
