package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// QuoteInput carries everything the calculator needs to price an order.
// Exactly one of AdvanceAmount or AdvancePercent may be set; neither
// means no advance.
type QuoteInput struct {
	Quantity        int64
	Rates           ComponentRates
	IncludeDelivery bool

	AdvanceAmount  *valueobject.Money
	AdvancePercent *decimal.Decimal
}

// Breakdown is the immutable result of pricing an order. It is
// snapshotted into the order at creation and never recomputed from
// rates afterwards; payment activity only ever adjusts the paid side.
type Breakdown struct {
	Quantity       int64
	PaperRate      valueobject.Money
	BindingRate    valueobject.Money
	BagRate        valueobject.Money
	DeliveryCharge valueobject.Money
	Subtotal       valueobject.Money
	Tax            valueobject.Money
	Total          valueobject.Money
	Advance        valueobject.Money
}

// Quote derives the price breakdown for an order. It is a pure function
// of its inputs: subtotal = paperRate*qty + binding + bag [+ delivery],
// tax = subtotal * taxPercent/100, total = subtotal + tax, advance
// clamped to [0, total]. Any negative input fails the whole quote.
func Quote(in QuoteInput) (Breakdown, error) {
	if in.Quantity <= 0 {
		return Breakdown{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for _, m := range []valueobject.Money{in.Rates.PaperRate, in.Rates.BindingRate, in.Rates.BagRate, in.Rates.DeliveryCharge} {
		if m.IsNegative() {
			return Breakdown{}, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
		}
	}
	if in.Rates.TaxPercent.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_TAX", "Tax percent cannot be negative")
	}
	if in.AdvanceAmount != nil && in.AdvancePercent != nil {
		return Breakdown{}, shared.NewDomainError("INVALID_ADVANCE", "Advance amount and percent are mutually exclusive")
	}
	if in.AdvanceAmount != nil && in.AdvanceAmount.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_ADVANCE", "Advance amount cannot be negative")
	}
	if in.AdvancePercent != nil && in.AdvancePercent.IsNegative() {
		return Breakdown{}, shared.NewDomainError("INVALID_ADVANCE", "Advance percent cannot be negative")
	}

	subtotal := in.Rates.PaperRate.MultiplyByInt(in.Quantity).
		MustAdd(in.Rates.BindingRate).
		MustAdd(in.Rates.BagRate)

	delivery := valueobject.ZeroINR()
	if in.IncludeDelivery {
		delivery = in.Rates.DeliveryCharge
		subtotal = subtotal.MustAdd(delivery)
	}

	tax := subtotal.CalculatePercentage(in.Rates.TaxPercent).Round(2)
	total := subtotal.MustAdd(tax)

	advance := valueobject.ZeroINR()
	switch {
	case in.AdvanceAmount != nil:
		advance = *in.AdvanceAmount
	case in.AdvancePercent != nil:
		advance = total.CalculatePercentage(*in.AdvancePercent).Round(2)
	}

	// Clamp advance to [0, total].
	if advance.IsNegative() {
		advance = valueobject.ZeroINR()
	}
	if over, _ := advance.GreaterThanOrEqual(total); over {
		advance = total
	}

	return Breakdown{
		Quantity:       in.Quantity,
		PaperRate:      in.Rates.PaperRate,
		BindingRate:    in.Rates.BindingRate,
		BagRate:        in.Rates.BagRate,
		DeliveryCharge: delivery,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          total,
		Advance:        advance,
	}, nil
}
