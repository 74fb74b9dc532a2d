// Package pricing exposes quoting and rate card management.
package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// PricingService handles quoting and rate card CRUD
type PricingService struct {
	rateCardRepo pricing.RateCardRepository
	logger       *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(rateCardRepo pricing.RateCardRepository, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		rateCardRepo: rateCardRepo,
		logger:       logger,
	}
}

// Quote prices a prospective order against the configured rate cards.
// A missing card or an incomplete rate set fails the quote; orders are
// never priced at zero by fallback.
func (s *PricingService) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	albumType := pricing.AlbumType(input.AlbumType)
	if !albumType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALBUM_TYPE", "Album type is not valid")
	}
	userType := pricing.UserType(input.UserType)
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type is not valid")
	}

	card, err := s.rateCardRepo.FindByKey(ctx, albumType, userType, input.PaperSize)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("RATE_NOT_CONFIGURED",
				"No rate card covers this album type, user type and paper size")
		}
		return nil, err
	}

	rates, err := card.Resolve(pricing.PaperType(input.PaperType), input.Premium)
	if err != nil {
		return nil, err
	}

	quoteInput := pricing.QuoteInput{
		Quantity:        input.Quantity,
		Rates:           rates,
		IncludeDelivery: input.IncludeDelivery,
	}
	if input.AdvanceAmount != nil {
		m := valueobject.NewMoneyINR(*input.AdvanceAmount)
		quoteInput.AdvanceAmount = &m
	}
	if input.AdvancePercent != nil {
		quoteInput.AdvancePercent = input.AdvancePercent
	}

	breakdown, err := pricing.Quote(quoteInput)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		Quantity:       breakdown.Quantity,
		PaperRate:      breakdown.PaperRate.Amount(),
		BindingRate:    breakdown.BindingRate.Amount(),
		BagRate:        breakdown.BagRate.Amount(),
		DeliveryCharge: breakdown.DeliveryCharge.Amount(),
		Subtotal:       breakdown.Subtotal.Amount(),
		Tax:            breakdown.Tax.Amount(),
		Total:          breakdown.Total.Amount(),
		Advance:        breakdown.Advance.Amount(),
	}, nil
}

// CreateRateCard adds a rate card for a new key tuple
func (s *PricingService) CreateRateCard(ctx context.Context, input CreateRateCardInput) (*pricing.RateCard, error) {
	card, err := pricing.NewRateCard(
		pricing.AlbumType(input.AlbumType),
		pricing.UserType(input.UserType),
		input.PaperSize,
		valueobject.NewMoneyINR(input.GlossyRate),
		valueobject.NewMoneyINR(input.NTRRate),
		valueobject.NewMoneyINR(input.BindingRate),
		valueobject.NewMoneyINR(input.BagRate),
		input.BagType,
		input.TaxPercent,
		valueobject.NewMoneyINR(input.DeliveryCharge),
	)
	if err != nil {
		return nil, err
	}

	if err := s.rateCardRepo.Save(ctx, card); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				"A rate card already covers this album type, user type and paper size")
		}
		return nil, err
	}

	s.logger.Info("Rate card created",
		zap.String("album_type", input.AlbumType),
		zap.String("user_type", input.UserType),
		zap.String("paper_size", input.PaperSize))
	return card, nil
}

// UpdateRateCard applies an allow-listed update to an existing card
func (s *PricingService) UpdateRateCard(ctx context.Context, input UpdateRateCardInput) (*pricing.RateCard, error) {
	card, err := s.rateCardRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	update := pricing.RateCardUpdate{
		BagType:    input.BagType,
		TaxPercent: input.TaxPercent,
	}
	update.GlossyRate = toMoney(input.GlossyRate)
	update.NTRRate = toMoney(input.NTRRate)
	update.BindingRate = toMoney(input.BindingRate)
	update.BagRate = toMoney(input.BagRate)
	update.DeliveryCharge = toMoney(input.DeliveryCharge)
	update.PremiumGlossyRate = toMoney(input.PremiumGlossyRate)
	update.PremiumNTRRate = toMoney(input.PremiumNTRRate)
	update.PremiumBindingRate = toMoney(input.PremiumBindingRate)
	update.PremiumBagRate = toMoney(input.PremiumBagRate)

	if err := card.Apply(update); err != nil {
		return nil, err
	}
	if err := s.rateCardRepo.Save(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Rate card updated", zap.String("id", card.ID.String()))
	return card, nil
}

// GetRateCard fetches a single rate card
func (s *PricingService) GetRateCard(ctx context.Context, id uuid.UUID) (*pricing.RateCard, error) {
	return s.rateCardRepo.FindByID(ctx, id)
}

// ListRateCards lists rate cards matching the filter
func (s *PricingService) ListRateCards(ctx context.Context, filter RateCardFilterInput) ([]pricing.RateCard, error) {
	return s.rateCardRepo.FindAll(ctx, filter.toDomain())
}

// DeleteRateCard removes a rate card
func (s *PricingService) DeleteRateCard(ctx context.Context, id uuid.UUID) error {
	if err := s.rateCardRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Rate card deleted", zap.String("id", id.String()))
	return nil
}

func toMoney(d *decimal.Decimal) *valueobject.Money {
	if d == nil {
		return nil
	}
	m := valueobject.NewMoneyINR(*d)
	return &m
}
