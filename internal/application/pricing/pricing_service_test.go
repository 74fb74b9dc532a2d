package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// fakeRateCardRepo is an in-memory pricing.RateCardRepository
type fakeRateCardRepo struct {
	cards map[uuid.UUID]*pricing.RateCard
}

func newFakeRateCardRepo() *fakeRateCardRepo {
	return &fakeRateCardRepo{cards: make(map[uuid.UUID]*pricing.RateCard)}
}

func (r *fakeRateCardRepo) FindByID(ctx context.Context, id uuid.UUID) (*pricing.RateCard, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *card
	return &copied, nil
}

func (r *fakeRateCardRepo) FindByKey(ctx context.Context, albumType pricing.AlbumType, userType pricing.UserType, paperSize string) (*pricing.RateCard, error) {
	for _, card := range r.cards {
		if card.AlbumType == albumType && card.UserType == userType && card.PaperSize == paperSize {
			copied := *card
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRateCardRepo) FindAll(ctx context.Context, filter pricing.RateCardFilter) ([]pricing.RateCard, error) {
	var out []pricing.RateCard
	for _, card := range r.cards {
		if filter.AlbumType != nil && card.AlbumType != *filter.AlbumType {
			continue
		}
		if filter.UserType != nil && card.UserType != *filter.UserType {
			continue
		}
		if filter.PaperSize != nil && card.PaperSize != *filter.PaperSize {
			continue
		}
		out = append(out, *card)
	}
	return out, nil
}

func (r *fakeRateCardRepo) Save(ctx context.Context, card *pricing.RateCard) error {
	if _, exists := r.cards[card.ID]; !exists {
		for _, other := range r.cards {
			if other.AlbumType == card.AlbumType && other.UserType == card.UserType && other.PaperSize == card.PaperSize {
				return shared.ErrAlreadyExists
			}
		}
	}
	copied := *card
	r.cards[card.ID] = &copied
	return nil
}

func (r *fakeRateCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.cards[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.cards, id)
	return nil
}

func setupPricingService(t *testing.T) (*PricingService, *fakeRateCardRepo) {
	t.Helper()
	repo := newFakeRateCardRepo()
	return NewPricingService(repo, nil), repo
}

func seedRateCard(t *testing.T, svc *PricingService) *pricing.RateCard {
	t.Helper()
	card, err := svc.CreateRateCard(t.Context(), CreateRateCardInput{
		AlbumType:   "Print only",
		UserType:    "user",
		PaperSize:   "12x36",
		GlossyRate:  decimal.NewFromInt(30),
		NTRRate:     decimal.NewFromInt(25),
		BindingRate: decimal.NewFromInt(250),
		BagRate:     decimal.NewFromInt(40),
		BagType:     "standard",
		TaxPercent:  decimal.Zero,
	})
	require.NoError(t, err)
	return card
}

func TestPricingService_Quote(t *testing.T) {
	svc, _ := setupPricingService(t)
	seedRateCard(t, svc)

	t.Run("basic quote with delivery", func(t *testing.T) {
		result, err := svc.Quote(t.Context(), QuoteInput{
			AlbumType:       "Print only",
			UserType:        "user",
			PaperSize:       "12x36",
			PaperType:       "glossy",
			Quantity:        20,
			IncludeDelivery: true,
		})
		require.NoError(t, err)

		// 20*30 + 250 + 40 + 110 = 1000
		assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.Total.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.DeliveryCharge.Equal(decimal.NewFromInt(110)))
		assert.True(t, result.Advance.IsZero())
	})

	t.Run("advance percent", func(t *testing.T) {
		pct := decimal.NewFromInt(30)
		result, err := svc.Quote(t.Context(), QuoteInput{
			AlbumType:       "Print only",
			UserType:        "user",
			PaperSize:       "12x36",
			PaperType:       "glossy",
			Quantity:        20,
			IncludeDelivery: true,
			AdvancePercent:  &pct,
		})
		require.NoError(t, err)
		assert.True(t, result.Advance.Equal(decimal.NewFromInt(300)))
	})

	t.Run("missing rate card fails closed", func(t *testing.T) {
		_, err := svc.Quote(t.Context(), QuoteInput{
			AlbumType: "Print only",
			UserType:  "retailer",
			PaperSize: "12x36",
			PaperType: "glossy",
			Quantity:  1,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RATE_NOT_CONFIGURED", domainErr.Code)
	})

	t.Run("unknown album type", func(t *testing.T) {
		_, err := svc.Quote(t.Context(), QuoteInput{
			AlbumType: "Lamination",
			UserType:  "user",
			PaperSize: "12x36",
			PaperType: "glossy",
			Quantity:  1,
		})
		assert.Error(t, err)
	})
}

func TestPricingService_Quote_PremiumOverride(t *testing.T) {
	svc, _ := setupPricingService(t)
	card := seedRateCard(t, svc)

	premium := decimal.NewFromInt(45)
	_, err := svc.UpdateRateCard(t.Context(), UpdateRateCardInput{
		ID:                card.ID,
		PremiumGlossyRate: &premium,
	})
	require.NoError(t, err)

	result, err := svc.Quote(t.Context(), QuoteInput{
		AlbumType: "Print only",
		UserType:  "user",
		PaperSize: "12x36",
		PaperType: "glossy",
		Premium:   true,
		Quantity:  10,
	})
	require.NoError(t, err)
	assert.True(t, result.PaperRate.Equal(decimal.NewFromInt(45)))

	// Non-premium quotes keep the base rate
	result, err = svc.Quote(t.Context(), QuoteInput{
		AlbumType: "Print only",
		UserType:  "user",
		PaperSize: "12x36",
		PaperType: "glossy",
		Quantity:  10,
	})
	require.NoError(t, err)
	assert.True(t, result.PaperRate.Equal(decimal.NewFromInt(30)))
}

func TestPricingService_CreateRateCard_Duplicate(t *testing.T) {
	svc, _ := setupPricingService(t)
	seedRateCard(t, svc)

	_, err := svc.CreateRateCard(t.Context(), CreateRateCardInput{
		AlbumType:   "Print only",
		UserType:    "user",
		PaperSize:   "12x36",
		GlossyRate:  decimal.NewFromInt(99),
		NTRRate:     decimal.NewFromInt(99),
		BindingRate: decimal.NewFromInt(99),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestPricingService_UpdateRateCard_RejectsNegative(t *testing.T) {
	svc, _ := setupPricingService(t)
	card := seedRateCard(t, svc)

	negative := decimal.NewFromInt(-5)
	_, err := svc.UpdateRateCard(t.Context(), UpdateRateCardInput{
		ID:         card.ID,
		GlossyRate: &negative,
	})
	require.Error(t, err)

	// The stored card is unchanged
	stored, err := svc.GetRateCard(t.Context(), card.ID)
	require.NoError(t, err)
	assert.True(t, stored.GlossyRate.Amount().Equal(decimal.NewFromInt(30)))
}

func TestPricingService_ListAndDelete(t *testing.T) {
	svc, _ := setupPricingService(t)
	card := seedRateCard(t, svc)

	cards, err := svc.ListRateCards(t.Context(), RateCardFilterInput{AlbumType: "Print only"})
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	require.NoError(t, svc.DeleteRateCard(t.Context(), card.ID))

	cards, err = svc.ListRateCards(t.Context(), RateCardFilterInput{})
	require.NoError(t, err)
	assert.Empty(t, cards)

	assert.ErrorIs(t, svc.DeleteRateCard(t.Context(), card.ID), shared.ErrNotFound)
}

// Sanity: default delivery charge applies when none configured
func TestPricingService_DefaultDeliveryCharge(t *testing.T) {
	svc, _ := setupPricingService(t)
	card := seedRateCard(t, svc)
	assert.True(t, card.DeliveryCharge.Equals(valueobject.NewMoneyINRFromFloat(110)))
}
