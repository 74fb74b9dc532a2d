package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence/models"
)

// GormRateCardRepository implements pricing.RateCardRepository using GORM
type GormRateCardRepository struct {
	db *gorm.DB
}

// NewGormRateCardRepository creates a new GormRateCardRepository
func NewGormRateCardRepository(db *gorm.DB) *GormRateCardRepository {
	return &GormRateCardRepository{db: db}
}

// FindByID finds a rate card by its ID
func (r *GormRateCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.RateCard, error) {
	var model models.RateCardModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey resolves a rate card by its lookup tuple
func (r *GormRateCardRepository) FindByKey(ctx context.Context, albumType pricing.AlbumType, userType pricing.UserType, paperSize string) (*pricing.RateCard, error) {
	var model models.RateCardModel
	if err := r.db.WithContext(ctx).
		Where("album_type = ? AND user_type = ? AND paper_size = ?", albumType, userType, paperSize).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds rate cards matching the filter
func (r *GormRateCardRepository) FindAll(ctx context.Context, filter pricing.RateCardFilter) ([]pricing.RateCard, error) {
	query := r.db.WithContext(ctx).Model(&models.RateCardModel{})
	if filter.AlbumType != nil {
		query = query.Where("album_type = ?", *filter.AlbumType)
	}
	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.PaperSize != nil {
		query = query.Where("paper_size = ?", *filter.PaperSize)
	}

	var cardModels []models.RateCardModel
	if err := query.Order("album_type, user_type, paper_size").Find(&cardModels).Error; err != nil {
		return nil, err
	}
	cards := make([]pricing.RateCard, len(cardModels))
	for i := range cardModels {
		cards[i] = *cardModels[i].ToDomain()
	}
	return cards, nil
}

// Save creates or updates a rate card
func (r *GormRateCardRepository) Save(ctx context.Context, card *pricing.RateCard) error {
	model := models.RateCardModelFromDomain(card)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a rate card
func (r *GormRateCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RateCardModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
