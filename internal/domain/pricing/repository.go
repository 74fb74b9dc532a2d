package pricing

import (
	"context"

	"github.com/google/uuid"
)

// RateCardFilter carries optional filters for rate card listings
type RateCardFilter struct {
	AlbumType *AlbumType
	UserType  *UserType
	PaperSize *string
}

// RateCardRepository defines persistence operations for rate cards
type RateCardRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RateCard, error)
	// FindByKey resolves a rate card by its lookup tuple. Returns
	// shared.ErrNotFound when no card covers the combination; callers
	// must fail order creation in that case.
	FindByKey(ctx context.Context, albumType AlbumType, userType UserType, paperSize string) (*RateCard, error)
	FindAll(ctx context.Context, filter RateCardFilter) ([]RateCard, error)
	Save(ctx context.Context, card *RateCard) error
	Delete(ctx context.Context, id uuid.UUID) error
}
