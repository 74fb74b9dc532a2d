package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// AlbumType represents the production mode priced by a rate card
type AlbumType string

const (
	AlbumTypePrintOnly      AlbumType = "Print only"
	AlbumTypeDesignOnly     AlbumType = "Design only"
	AlbumTypePrintAndDesign AlbumType = "Print and design both"
)

// IsValid checks if the album type is a valid AlbumType
func (t AlbumType) IsValid() bool {
	switch t {
	case AlbumTypePrintOnly, AlbumTypeDesignOnly, AlbumTypePrintAndDesign:
		return true
	}
	return false
}

// String returns the string representation of AlbumType
func (t AlbumType) String() string {
	return string(t)
}

// UserType represents the customer tier a rate card applies to
type UserType string

const (
	UserTypeUser         UserType = "user"
	UserTypeAdmin        UserType = "admin"
	UserTypeRetailer     UserType = "retailer"
	UserTypeProfessional UserType = "professional"
)

// IsValid checks if the user type is a valid UserType
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeUser, UserTypeAdmin, UserTypeRetailer, UserTypeProfessional:
		return true
	}
	return false
}

// PaperType represents the paper stock a rate resolves against
type PaperType string

const (
	PaperTypeGlossy PaperType = "glossy"
	PaperTypeNTR    PaperType = "ntr"
)

// IsValid checks if the paper type is priceable
func (t PaperType) IsValid() bool {
	return t == PaperTypeGlossy || t == PaperTypeNTR
}

// ComponentRates is a complete set of per-component rates resolved from
// a rate card. Every field is populated or the resolution fails.
type ComponentRates struct {
	PaperRate      valueobject.Money
	BindingRate    valueobject.Money
	BagRate        valueobject.Money
	TaxPercent     decimal.Decimal
	DeliveryCharge valueobject.Money
}

// RateCard maps (album type, user type, paper size) to per-component
// rates, with optional premium-tier overrides. It is reference data
// consumed read-only by the calculator.
type RateCard struct {
	shared.BaseAggregateRoot
	AlbumType      AlbumType         `json:"album_type"`
	UserType       UserType          `json:"user_type"`
	PaperSize      string            `json:"paper_size"`
	GlossyRate     valueobject.Money `json:"glossy_rate"`
	NTRRate        valueobject.Money `json:"ntr_rate"`
	BindingRate    valueobject.Money `json:"binding_rate"`
	BagRate        valueobject.Money `json:"bag_rate"`
	BagType        string            `json:"bag_type"`
	TaxPercent     decimal.Decimal   `json:"tax_percent"`
	DeliveryCharge valueobject.Money `json:"delivery_charge"`

	// Premium tier overrides; zero means "no override", the base rate applies.
	PremiumGlossyRate  valueobject.Money `json:"premium_glossy_rate"`
	PremiumNTRRate     valueobject.Money `json:"premium_ntr_rate"`
	PremiumBindingRate valueobject.Money `json:"premium_binding_rate"`
	PremiumBagRate     valueobject.Money `json:"premium_bag_rate"`
}

// DefaultDeliveryCharge is applied when a rate card does not specify one.
var DefaultDeliveryCharge = valueobject.NewMoneyINRFromFloat(110)

// NewRateCard creates a new rate card after validating the key tuple
// and that no rate is negative.
func NewRateCard(
	albumType AlbumType,
	userType UserType,
	paperSize string,
	glossyRate, ntrRate, bindingRate, bagRate valueobject.Money,
	bagType string,
	taxPercent decimal.Decimal,
	deliveryCharge valueobject.Money,
) (*RateCard, error) {
	if !albumType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALBUM_TYPE", "Album type is not valid")
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type is not valid")
	}
	if paperSize == "" {
		return nil, shared.NewDomainError("INVALID_PAPER_SIZE", "Paper size cannot be empty")
	}
	for _, rate := range []valueobject.Money{glossyRate, ntrRate, bindingRate, bagRate, deliveryCharge} {
		if rate.IsNegative() {
			return nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
		}
	}
	if taxPercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax percent cannot be negative")
	}

	if deliveryCharge.IsZero() {
		deliveryCharge = DefaultDeliveryCharge
	}

	return &RateCard{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AlbumType:         albumType,
		UserType:          userType,
		PaperSize:         paperSize,
		GlossyRate:        glossyRate,
		NTRRate:           ntrRate,
		BindingRate:       bindingRate,
		BagRate:           bagRate,
		BagType:           bagType,
		TaxPercent:        taxPercent,
		DeliveryCharge:    deliveryCharge,
	}, nil
}

// Resolve returns the complete component rate set for the given paper
// type and tier. It fails closed: an unknown paper type or a missing
// base paper rate is an error, never a zero-priced order.
func (rc *RateCard) Resolve(paperType PaperType, premium bool) (ComponentRates, error) {
	if !paperType.IsValid() {
		return ComponentRates{}, shared.NewDomainError("INVALID_PAPER_TYPE", "Paper type has no rate on this card")
	}

	var paperRate valueobject.Money
	switch paperType {
	case PaperTypeGlossy:
		paperRate = rc.GlossyRate
		if premium && rc.PremiumGlossyRate.IsPositive() {
			paperRate = rc.PremiumGlossyRate
		}
	case PaperTypeNTR:
		paperRate = rc.NTRRate
		if premium && rc.PremiumNTRRate.IsPositive() {
			paperRate = rc.PremiumNTRRate
		}
	}
	if !paperRate.IsPositive() {
		return ComponentRates{}, shared.NewDomainError("RATE_NOT_CONFIGURED", "No paper rate configured for this combination")
	}

	bindingRate := rc.BindingRate
	if premium && rc.PremiumBindingRate.IsPositive() {
		bindingRate = rc.PremiumBindingRate
	}
	bagRate := rc.BagRate
	if premium && rc.PremiumBagRate.IsPositive() {
		bagRate = rc.PremiumBagRate
	}

	return ComponentRates{
		PaperRate:      paperRate,
		BindingRate:    bindingRate,
		BagRate:        bagRate,
		TaxPercent:     rc.TaxPercent,
		DeliveryCharge: rc.DeliveryCharge,
	}, nil
}

// RateCardUpdate enumerates the fields that may be changed on an
// existing rate card. Unknown fields are rejected at the DTO boundary;
// nil means "leave unchanged".
type RateCardUpdate struct {
	GlossyRate     *valueobject.Money
	NTRRate        *valueobject.Money
	BindingRate    *valueobject.Money
	BagRate        *valueobject.Money
	BagType        *string
	TaxPercent     *decimal.Decimal
	DeliveryCharge *valueobject.Money

	PremiumGlossyRate  *valueobject.Money
	PremiumNTRRate     *valueobject.Money
	PremiumBindingRate *valueobject.Money
	PremiumBagRate     *valueobject.Money
}

// Apply applies an allow-listed update to the rate card.
// Any negative rate rejects the whole update with no partial change.
func (rc *RateCard) Apply(update RateCardUpdate) error {
	for _, rate := range []*valueobject.Money{
		update.GlossyRate, update.NTRRate, update.BindingRate, update.BagRate,
		update.DeliveryCharge, update.PremiumGlossyRate, update.PremiumNTRRate,
		update.PremiumBindingRate, update.PremiumBagRate,
	} {
		if rate != nil && rate.IsNegative() {
			return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
		}
	}
	if update.TaxPercent != nil && update.TaxPercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax percent cannot be negative")
	}

	if update.GlossyRate != nil {
		rc.GlossyRate = *update.GlossyRate
	}
	if update.NTRRate != nil {
		rc.NTRRate = *update.NTRRate
	}
	if update.BindingRate != nil {
		rc.BindingRate = *update.BindingRate
	}
	if update.BagRate != nil {
		rc.BagRate = *update.BagRate
	}
	if update.BagType != nil {
		rc.BagType = *update.BagType
	}
	if update.TaxPercent != nil {
		rc.TaxPercent = *update.TaxPercent
	}
	if update.DeliveryCharge != nil {
		rc.DeliveryCharge = *update.DeliveryCharge
	}
	if update.PremiumGlossyRate != nil {
		rc.PremiumGlossyRate = *update.PremiumGlossyRate
	}
	if update.PremiumNTRRate != nil {
		rc.PremiumNTRRate = *update.PremiumNTRRate
	}
	if update.PremiumBindingRate != nil {
		rc.PremiumBindingRate = *update.PremiumBindingRate
	}
	if update.PremiumBagRate != nil {
		rc.PremiumBagRate = *update.PremiumBagRate
	}

	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()
	return nil
}
