package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/pricing"
)

// QuoteInput contains the input for pricing a prospective order
type QuoteInput struct {
	AlbumType string `json:"album_type"`
	UserType  string `json:"user_type"`
	PaperSize string `json:"paper_size"`
	PaperType string `json:"paper_type"`
	Premium   bool   `json:"premium"`

	Quantity        int64 `json:"quantity"`
	IncludeDelivery bool  `json:"include_delivery"`

	// At most one of the two may be set
	AdvanceAmount  *decimal.Decimal `json:"advance_amount"`
	AdvancePercent *decimal.Decimal `json:"advance_percent"`
}

// QuoteResult is the price breakdown returned to the caller
type QuoteResult struct {
	Quantity       int64           `json:"quantity"`
	PaperRate      decimal.Decimal `json:"paper_rate"`
	BindingRate    decimal.Decimal `json:"binding_rate"`
	BagRate        decimal.Decimal `json:"bag_rate"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Advance        decimal.Decimal `json:"advance"`
}

// CreateRateCardInput contains the input for creating a rate card
type CreateRateCardInput struct {
	AlbumType string `json:"album_type"`
	UserType  string `json:"user_type"`
	PaperSize string `json:"paper_size"`

	GlossyRate     decimal.Decimal `json:"glossy_rate"`
	NTRRate        decimal.Decimal `json:"ntr_rate"`
	BindingRate    decimal.Decimal `json:"binding_rate"`
	BagRate        decimal.Decimal `json:"bag_rate"`
	BagType        string          `json:"bag_type"`
	TaxPercent     decimal.Decimal `json:"tax_percent"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
}

// UpdateRateCardInput contains the allow-listed rate card changes.
// Nil fields are left unchanged.
type UpdateRateCardInput struct {
	ID uuid.UUID `json:"-"`

	GlossyRate     *decimal.Decimal `json:"glossy_rate"`
	NTRRate        *decimal.Decimal `json:"ntr_rate"`
	BindingRate    *decimal.Decimal `json:"binding_rate"`
	BagRate        *decimal.Decimal `json:"bag_rate"`
	BagType        *string          `json:"bag_type"`
	TaxPercent     *decimal.Decimal `json:"tax_percent"`
	DeliveryCharge *decimal.Decimal `json:"delivery_charge"`

	PremiumGlossyRate  *decimal.Decimal `json:"premium_glossy_rate"`
	PremiumNTRRate     *decimal.Decimal `json:"premium_ntr_rate"`
	PremiumBindingRate *decimal.Decimal `json:"premium_binding_rate"`
	PremiumBagRate     *decimal.Decimal `json:"premium_bag_rate"`
}

// RateCardFilterInput narrows rate card listings
type RateCardFilterInput struct {
	AlbumType string `json:"album_type" form:"album_type"`
	UserType  string `json:"user_type" form:"user_type"`
	PaperSize string `json:"paper_size" form:"paper_size"`
}

func (f RateCardFilterInput) toDomain() pricing.RateCardFilter {
	filter := pricing.RateCardFilter{}
	if f.AlbumType != "" {
		at := pricing.AlbumType(f.AlbumType)
		filter.AlbumType = &at
	}
	if f.UserType != "" {
		ut := pricing.UserType(f.UserType)
		filter.UserType = &ut
	}
	if f.PaperSize != "" {
		ps := f.PaperSize
		filter.PaperSize = &ps
	}
	return filter
}
