package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

func newTestCard(t *testing.T) *RateCard {
	t.Helper()
	card, err := NewRateCard(
		AlbumTypePrintAndDesign,
		UserTypeRetailer,
		"12x36",
		valueobject.NewMoneyINRFromFloat(25),
		valueobject.NewMoneyINRFromFloat(20),
		valueobject.NewMoneyINRFromFloat(150),
		valueobject.NewMoneyINRFromFloat(50),
		"standard",
		decimal.NewFromInt(18),
		valueobject.NewMoneyINRFromFloat(110),
	)
	require.NoError(t, err)
	return card
}

func TestNewRateCard(t *testing.T) {
	t.Run("creates valid card", func(t *testing.T) {
		card := newTestCard(t)
		assert.Equal(t, AlbumTypePrintAndDesign, card.AlbumType)
		assert.Equal(t, "12x36", card.PaperSize)
		assert.Equal(t, 1, card.Version)
	})

	t.Run("defaults delivery charge when zero", func(t *testing.T) {
		card, err := NewRateCard(
			AlbumTypePrintOnly, UserTypeUser, "A4",
			valueobject.NewMoneyINRFromFloat(10),
			valueobject.NewMoneyINRFromFloat(8),
			valueobject.NewMoneyINRFromFloat(100),
			valueobject.NewMoneyINRFromFloat(30),
			"standard",
			decimal.NewFromInt(18),
			valueobject.ZeroINR(),
		)
		require.NoError(t, err)
		assert.True(t, card.DeliveryCharge.Equals(DefaultDeliveryCharge))
	})

	t.Run("rejects invalid album type", func(t *testing.T) {
		_, err := NewRateCard(
			AlbumType("Sticker book"), UserTypeUser, "A4",
			valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(),
			"", decimal.Zero, valueobject.ZeroINR(),
		)
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewRateCard(
			AlbumTypePrintOnly, UserTypeUser, "A4",
			valueobject.NewMoneyINRFromFloat(-1),
			valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(),
			"", decimal.Zero, valueobject.ZeroINR(),
		)
		assert.Error(t, err)
	})

	t.Run("rejects empty paper size", func(t *testing.T) {
		_, err := NewRateCard(
			AlbumTypePrintOnly, UserTypeUser, "",
			valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(), valueobject.ZeroINR(),
			"", decimal.Zero, valueobject.ZeroINR(),
		)
		assert.Error(t, err)
	})
}

func TestRateCard_Resolve(t *testing.T) {
	t.Run("resolves glossy base rates", func(t *testing.T) {
		card := newTestCard(t)
		rates, err := card.Resolve(PaperTypeGlossy, false)
		require.NoError(t, err)
		assert.True(t, rates.PaperRate.Amount().Equal(decimal.NewFromInt(25)))
		assert.True(t, rates.BindingRate.Amount().Equal(decimal.NewFromInt(150)))
		assert.True(t, rates.TaxPercent.Equal(decimal.NewFromInt(18)))
	})

	t.Run("premium override replaces base rate", func(t *testing.T) {
		card := newTestCard(t)
		card.PremiumGlossyRate = valueobject.NewMoneyINRFromFloat(35)
		card.PremiumBindingRate = valueobject.NewMoneyINRFromFloat(200)

		rates, err := card.Resolve(PaperTypeGlossy, true)
		require.NoError(t, err)
		assert.True(t, rates.PaperRate.Amount().Equal(decimal.NewFromInt(35)))
		assert.True(t, rates.BindingRate.Amount().Equal(decimal.NewFromInt(200)))
		// No bag override configured, base applies.
		assert.True(t, rates.BagRate.Amount().Equal(decimal.NewFromInt(50)))
	})

	t.Run("premium falls back to base when no override", func(t *testing.T) {
		card := newTestCard(t)
		rates, err := card.Resolve(PaperTypeNTR, true)
		require.NoError(t, err)
		assert.True(t, rates.PaperRate.Amount().Equal(decimal.NewFromInt(20)))
	})

	t.Run("fails closed on unknown paper type", func(t *testing.T) {
		card := newTestCard(t)
		_, err := card.Resolve(PaperType("canvas"), false)
		assert.Error(t, err)
	})

	t.Run("fails closed when paper rate not configured", func(t *testing.T) {
		card := newTestCard(t)
		card.NTRRate = valueobject.ZeroINR()
		_, err := card.Resolve(PaperTypeNTR, false)
		assert.Error(t, err)
	})
}

func TestRateCard_Apply(t *testing.T) {
	t.Run("applies allow-listed fields only when set", func(t *testing.T) {
		card := newTestCard(t)
		newGlossy := valueobject.NewMoneyINRFromFloat(28)
		newTax := decimal.NewFromFloat(12.5)

		err := card.Apply(RateCardUpdate{GlossyRate: &newGlossy, TaxPercent: &newTax})
		require.NoError(t, err)

		assert.True(t, card.GlossyRate.Amount().Equal(decimal.NewFromInt(28)))
		assert.True(t, card.TaxPercent.Equal(decimal.NewFromFloat(12.5)))
		// Untouched fields stay put.
		assert.True(t, card.NTRRate.Amount().Equal(decimal.NewFromInt(20)))
		assert.Equal(t, 2, card.Version)
	})

	t.Run("rejects negative rate without partial apply", func(t *testing.T) {
		card := newTestCard(t)
		good := valueobject.NewMoneyINRFromFloat(30)
		bad := valueobject.NewMoneyINRFromFloat(-5)

		err := card.Apply(RateCardUpdate{GlossyRate: &good, BagRate: &bad})
		assert.Error(t, err)
		// Nothing changed.
		assert.True(t, card.GlossyRate.Amount().Equal(decimal.NewFromInt(25)))
		assert.Equal(t, 1, card.Version)
	})

	t.Run("updates premium overrides", func(t *testing.T) {
		card := newTestCard(t)
		premium := valueobject.NewMoneyINRFromFloat(40)
		require.NoError(t, card.Apply(RateCardUpdate{PremiumGlossyRate: &premium}))

		rates, err := card.Resolve(PaperTypeGlossy, true)
		require.NoError(t, err)
		assert.True(t, rates.PaperRate.Amount().Equal(decimal.NewFromInt(40)))
	})
}
