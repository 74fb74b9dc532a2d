package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

func testRates() ComponentRates {
	return ComponentRates{
		PaperRate:      valueobject.NewMoneyINRFromFloat(25),
		BindingRate:    valueobject.NewMoneyINRFromFloat(150),
		BagRate:        valueobject.NewMoneyINRFromFloat(50),
		TaxPercent:     decimal.NewFromInt(18),
		DeliveryCharge: valueobject.NewMoneyINRFromFloat(110),
	}
}

func TestQuote(t *testing.T) {
	t.Run("computes subtotal tax and total", func(t *testing.T) {
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates()})
		require.NoError(t, err)

		// 25*20 + 150 + 50 = 700
		assert.True(t, b.Subtotal.Amount().Equal(decimal.NewFromInt(700)))
		// 700 * 18% = 126
		assert.True(t, b.Tax.Amount().Equal(decimal.NewFromInt(126)))
		assert.True(t, b.Total.Amount().Equal(decimal.NewFromInt(826)))
		assert.True(t, b.Advance.IsZero())
	})

	t.Run("total equals subtotal plus tax exactly", func(t *testing.T) {
		b, err := Quote(QuoteInput{Quantity: 7, Rates: testRates()})
		require.NoError(t, err)
		assert.True(t, b.Total.Equals(b.Subtotal.MustAdd(b.Tax)))
	})

	t.Run("includes delivery charge in subtotal", func(t *testing.T) {
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates(), IncludeDelivery: true})
		require.NoError(t, err)
		assert.True(t, b.Subtotal.Amount().Equal(decimal.NewFromInt(810)))
		assert.True(t, b.DeliveryCharge.Amount().Equal(decimal.NewFromInt(110)))
	})

	t.Run("advance from percent", func(t *testing.T) {
		pct := decimal.NewFromInt(30)
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates(), AdvancePercent: &pct})
		require.NoError(t, err)
		// 826 * 30% = 247.80
		assert.True(t, b.Advance.Amount().Equal(decimal.NewFromFloat(247.80)))
	})

	t.Run("advance from absolute amount", func(t *testing.T) {
		amt := valueobject.NewMoneyINRFromFloat(300)
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates(), AdvanceAmount: &amt})
		require.NoError(t, err)
		assert.True(t, b.Advance.Amount().Equal(decimal.NewFromInt(300)))
	})

	t.Run("advance clamped to total", func(t *testing.T) {
		amt := valueobject.NewMoneyINRFromFloat(50000)
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates(), AdvanceAmount: &amt})
		require.NoError(t, err)
		assert.True(t, b.Advance.Equals(b.Total))
	})

	t.Run("advance never below zero", func(t *testing.T) {
		pct := decimal.Zero
		b, err := Quote(QuoteInput{Quantity: 20, Rates: testRates(), AdvancePercent: &pct})
		require.NoError(t, err)
		assert.True(t, b.Advance.IsZero())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := Quote(QuoteInput{Quantity: 0, Rates: testRates()})
		assert.Error(t, err)

		_, err = Quote(QuoteInput{Quantity: -5, Rates: testRates()})
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		rates := testRates()
		rates.BagRate = valueobject.NewMoneyINRFromFloat(-1)
		_, err := Quote(QuoteInput{Quantity: 1, Rates: rates})
		assert.Error(t, err)
	})

	t.Run("rejects negative advance", func(t *testing.T) {
		amt := valueobject.NewMoneyINRFromFloat(-10)
		_, err := Quote(QuoteInput{Quantity: 1, Rates: testRates(), AdvanceAmount: &amt})
		assert.Error(t, err)
	})

	t.Run("rejects advance amount and percent together", func(t *testing.T) {
		amt := valueobject.NewMoneyINRFromFloat(10)
		pct := decimal.NewFromInt(10)
		_, err := Quote(QuoteInput{Quantity: 1, Rates: testRates(), AdvanceAmount: &amt, AdvancePercent: &pct})
		assert.Error(t, err)
	})

	t.Run("is deterministic for identical input", func(t *testing.T) {
		in := QuoteInput{Quantity: 13, Rates: testRates(), IncludeDelivery: true}
		a, err := Quote(in)
		require.NoError(t, err)
		b, err := Quote(in)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
