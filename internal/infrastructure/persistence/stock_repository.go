package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenithstudio/backend/internal/domain/inventory"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence/models"
)

// GormStockRepository implements inventory.Repository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Save creates a new stock item row
func (r *GormStockRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists the stock item with an optimistic lock on the version column
func (r *GormStockRepository) Update(ctx context.Context, item *inventory.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ? AND version < ?", item.ID, item.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a stock item by its ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProductCode finds a stock item by its unique product code
func (r *GormStockRepository) FindByProductCode(ctx context.Context, code string) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "product_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a stock item by name
func (r *GormStockRepository) FindByName(ctx context.Context, name string) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds stock items matching the filter
func (r *GormStockRepository) FindAll(ctx context.Context, filter inventory.Filter) ([]*inventory.StockItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{})
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.LowStockOnly {
		query = query.Where("min_quantity > 0 AND quantity <= min_quantity")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR product_code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var itemModels []models.StockItemModel
	if err := query.Order("name").Find(&itemModels).Error; err != nil {
		return nil, 0, err
	}
	items := make([]*inventory.StockItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, total, nil
}

// Summary aggregates the stock position across active items
func (r *GormStockRepository) Summary(ctx context.Context) (*inventory.Summary, error) {
	var row struct {
		TotalItems    int64
		LowStockItems int64
		TotalValue    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.StockItemModel{}).
		Where("active = ?", true).
		Select(`COUNT(*) AS total_items,
			COALESCE(SUM(CASE WHEN min_quantity > 0 AND quantity <= min_quantity THEN 1 ELSE 0 END), 0) AS low_stock_items,
			COALESCE(SUM(quantity * unit_cost), 0) AS total_value`).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &inventory.Summary{
		TotalItems:    row.TotalItems,
		LowStockItems: row.LowStockItems,
		TotalValue:    row.TotalValue,
	}, nil
}

// Delete removes a stock item
func (r *GormStockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
