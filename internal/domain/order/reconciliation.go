package order

import (
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// PaymentChannel identifies how a manual payment arrived
type PaymentChannel string

const (
	ChannelCash       PaymentChannel = "cash"
	ChannelCounterUPI PaymentChannel = "counterUpi"
)

// IsValid checks if the channel is a known manual payment channel
func (c PaymentChannel) IsValid() bool {
	return c == ChannelCash || c == ChannelCounterUPI
}

// String returns the string representation of PaymentChannel
func (c PaymentChannel) String() string {
	return string(c)
}

// PaymentBreakdown is the canonical reconciliation view of an order:
// how much has been paid, how much is due, and whether the order counts
// as settled. It is a read-side projection and never mutates the order.
type PaymentBreakdown struct {
	Total     decimal.Decimal `json:"total"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Dues      decimal.Decimal `json:"dues"`
	FullyPaid bool            `json:"fully_paid"`
	Settled   bool            `json:"settled"` // PaymentStatus is Paid/Done
}

// GetDuesMoney returns the dues as Money
func (b PaymentBreakdown) GetDuesMoney() valueobject.Money {
	return valueobject.NewMoneyINR(b.Dues)
}

// GetTotalPaidMoney returns the total paid as Money
func (b PaymentBreakdown) GetTotalPaidMoney() valueobject.Money {
	return valueobject.NewMoneyINR(b.TotalPaid)
}

// PaymentBreakdown derives the reconciliation projection from the
// order's snapshot. A settled payment status (Paid/Done) is
// authoritative over the itemized contributions, covering out-of-band
// reconciliation; otherwise the contributions are summed and dues are
// clamped at zero. The function is pure and idempotent: identical
// snapshots always yield identical breakdowns.
func (o *Order) PaymentBreakdown() PaymentBreakdown {
	total := o.PriceDetails.Total

	if o.PaymentStatus.IsSettled() {
		return PaymentBreakdown{
			Total:     total,
			TotalPaid: total,
			Dues:      decimal.Zero,
			FullyPaid: true,
			Settled:   true,
		}
	}

	paid := o.PriceDetails.ContributionsSum()
	dues := total.Sub(paid)
	if dues.IsNegative() {
		dues = decimal.Zero
	}

	return PaymentBreakdown{
		Total:     total,
		TotalPaid: paid,
		Dues:      dues,
		FullyPaid: !dues.IsPositive(),
	}
}
