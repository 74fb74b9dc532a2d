package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// PriceDetails is the price breakdown snapshotted into an order at
// creation. Total is the authoritative ceiling; it is never recomputed
// from rates after creation. The accumulator fields (AdvanceAmount,
// CashPayment, CounterUPIPayment) are the only parts that change, and
// only through payment recording.
type PriceDetails struct {
	Quantity       int64           `json:"quantity"`
	PaperRate      decimal.Decimal `json:"paper_rate"`
	BindingRate    decimal.Decimal `json:"binding_rate"`
	BagRate        decimal.Decimal `json:"bag_rate"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`

	AdvanceAmount     decimal.Decimal `json:"advance_amount"`
	CashPayment       decimal.Decimal `json:"cash_payment"`
	CounterUPIPayment decimal.Decimal `json:"counter_upi_payment"`
	PaymentDate       *time.Time      `json:"payment_date,omitempty"`
}

// GetTotalMoney returns the total as Money
func (p PriceDetails) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.Total)
}

// GetAdvanceMoney returns the advance amount as Money
func (p PriceDetails) GetAdvanceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.AdvanceAmount)
}

// ContributionsSum returns the itemized paid-side sum:
// advance + cash + counter-UPI.
func (p PriceDetails) ContributionsSum() decimal.Decimal {
	return p.AdvanceAmount.Add(p.CashPayment).Add(p.CounterUPIPayment)
}

// validate checks the snapshot invariants at creation time
func (p PriceDetails) validate() error {
	for _, amt := range []decimal.Decimal{
		p.PaperRate, p.BindingRate, p.BagRate, p.DeliveryCharge,
		p.Subtotal, p.Tax, p.Total, p.AdvanceAmount, p.CashPayment, p.CounterUPIPayment,
	} {
		if amt.IsNegative() {
			return errNegativeAmount
		}
	}
	if p.Quantity <= 0 {
		return errInvalidQuantity
	}
	if !p.Total.Equal(p.Subtotal.Add(p.Tax)) {
		return errTotalMismatch
	}
	if p.AdvanceAmount.GreaterThan(p.Total) {
		return errAdvanceExceedsTotal
	}
	return nil
}
