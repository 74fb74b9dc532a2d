// Package inventory exposes stock management for the studio's
// consumables.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/inventory"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// StockService handles stock item CRUD, quantity movements and the
// reporting projections.
type StockService struct {
	stockRepo inventory.Repository
	logger    *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(stockRepo inventory.Repository, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{stockRepo: stockRepo, logger: logger}
}

// CreateStockItem registers a new tracked consumable
func (s *StockService) CreateStockItem(ctx context.Context, input CreateStockItemInput) (*StockItemView, error) {
	item, err := inventory.NewStockItem(
		input.ProductCode,
		input.Name,
		inventory.StockCategory(input.Category),
		input.Unit,
		input.Quantity,
		valueobject.NewMoneyINR(input.UnitCost),
	)
	if err != nil {
		return nil, err
	}

	if input.PaperType != "" || input.PaperSize != "" {
		if err := item.SetPaperSpec(input.PaperType, input.PaperSize, input.SheetsPerPack); err != nil {
			return nil, err
		}
	}
	if input.SellingPrice != nil {
		if err := item.SetSellingPrice(valueobject.NewMoneyINR(*input.SellingPrice)); err != nil {
			return nil, err
		}
	}
	if input.MinQuantity != nil {
		if err := item.SetMinQuantity(*input.MinQuantity); err != nil {
			return nil, err
		}
	}
	item.Notes = input.Notes

	if err := s.stockRepo.Save(ctx, item); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A stock item with this product code already exists")
		}
		return nil, err
	}

	s.logger.Info("stock item created",
		zap.String("product_code", item.ProductCode),
		zap.String("name", item.Name))
	return viewOf(item), nil
}

// GetStockItem fetches an item by id
func (s *StockService) GetStockItem(ctx context.Context, id uuid.UUID) (*StockItemView, error) {
	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(item), nil
}

// GetStockItemByProductCode fetches an item by its product code
func (s *StockService) GetStockItemByProductCode(ctx context.Context, code string) (*StockItemView, error) {
	item, err := s.stockRepo.FindByProductCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return viewOf(item), nil
}

// ListStock returns a filtered page of items
func (s *StockService) ListStock(ctx context.Context, input ListStockInput) (*ListStockResult, error) {
	filter := inventory.Filter{
		LowStockOnly:    input.LowStockOnly,
		IncludeInactive: input.IncludeInactive,
		Search:          input.Search,
		Limit:           input.Limit,
		Offset:          input.Offset,
	}
	if input.Category != "" {
		category := inventory.StockCategory(input.Category)
		if !category.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown stock category filter")
		}
		filter.Category = &category
	}

	items, total, err := s.stockRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListStockResult{Items: items, Total: total}, nil
}

// LowStockAlerts lists active items at or below their reorder threshold
func (s *StockService) LowStockAlerts(ctx context.Context) ([]*StockItemView, error) {
	items, _, err := s.stockRepo.FindAll(ctx, inventory.Filter{LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	views := make([]*StockItemView, 0, len(items))
	for _, item := range items {
		views = append(views, viewOf(item))
	}
	return views, nil
}

// UpdateStockItem edits descriptive fields
func (s *StockService) UpdateStockItem(ctx context.Context, id uuid.UUID, input UpdateStockItemInput) (*StockItemView, error) {
	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := item.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.PaperType != nil || input.PaperSize != nil || input.SheetsPerPack != nil {
		paperType := item.PaperType
		paperSize := item.PaperSize
		sheetsPerPack := item.SheetsPerPack
		if input.PaperType != nil {
			paperType = *input.PaperType
		}
		if input.PaperSize != nil {
			paperSize = *input.PaperSize
		}
		if input.SheetsPerPack != nil {
			sheetsPerPack = *input.SheetsPerPack
		}
		if err := item.SetPaperSpec(paperType, paperSize, sheetsPerPack); err != nil {
			return nil, err
		}
	}
	if input.SellingPrice != nil {
		if err := item.SetSellingPrice(valueobject.NewMoneyINR(*input.SellingPrice)); err != nil {
			return nil, err
		}
	}
	if input.MinQuantity != nil {
		if err := item.SetMinQuantity(*input.MinQuantity); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}

	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return viewOf(item), nil
}

// AdjustQuantity moves stock in or out by product code. Consuming past
// the available quantity is rejected, never clamped.
func (s *StockService) AdjustQuantity(ctx context.Context, input AdjustQuantityInput) (*StockItemView, error) {
	item, err := s.stockRepo.FindByProductCode(ctx, input.ProductCode)
	if err != nil {
		return nil, err
	}

	switch input.Operation {
	case "add":
		unitCost := valueobject.NewMoneyINR(input.UnitCost)
		if input.UnitCost.IsZero() {
			unitCost = valueobject.NewMoneyINR(item.UnitCost)
		}
		if err := item.AddStock(input.Quantity, unitCost); err != nil {
			return nil, err
		}
	case "consume":
		if err := item.ConsumeStock(input.Quantity); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("INVALID_OPERATION", "Operation must be add or consume")
	}

	if err := s.stockRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_code", item.ProductCode),
		zap.String("operation", input.Operation),
		zap.String("quantity", input.Quantity.String()))
	return viewOf(item), nil
}

// BulkUpdate applies descriptive edits to several items in one call.
// Each entry succeeds or fails on its own; one bad product code does
// not abort the rest.
func (s *StockService) BulkUpdate(ctx context.Context, items []BulkUpdateItem) ([]BulkUpdateResult, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_BULK_UPDATE", "No items to update")
	}

	results := make([]BulkUpdateResult, 0, len(items))
	for _, entry := range items {
		result := BulkUpdateResult{ProductCode: entry.ProductCode}
		item, err := s.stockRepo.FindByProductCode(ctx, entry.ProductCode)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		view, err := s.UpdateStockItem(ctx, item.ID, entry.Update)
		if err != nil {
			s.logger.Warn("bulk stock update entry failed",
				zap.String("product_code", entry.ProductCode),
				zap.Error(err))
			result.Error = err.Error()
		} else {
			result.Item = view
		}
		results = append(results, result)
	}
	return results, nil
}

// Summary aggregates the current stock position
func (s *StockService) Summary(ctx context.Context) (*inventory.Summary, error) {
	return s.stockRepo.Summary(ctx)
}

// DeactivateStockItem retires an item without losing its history
func (s *StockService) DeactivateStockItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.Deactivate(); err != nil {
		return err
	}
	return s.stockRepo.Update(ctx, item)
}

// DeleteStockItem permanently removes an item
func (s *StockService) DeleteStockItem(ctx context.Context, id uuid.UUID) error {
	return s.stockRepo.Delete(ctx, id)
}
