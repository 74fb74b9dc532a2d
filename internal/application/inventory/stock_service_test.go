package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/inventory"
	"github.com/zenithstudio/backend/internal/domain/shared"
)

type fakeStockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.StockItem
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[uuid.UUID]*inventory.StockItem)}
}

func (r *fakeStockRepo) Save(_ context.Context, item *inventory.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ProductCode == item.ProductCode {
			return shared.ErrAlreadyExists
		}
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeStockRepo) Update(_ context.Context, item *inventory.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return shared.ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeStockRepo) FindByProductCode(_ context.Context, code string) (*inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProductCode == code {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindByName(_ context.Context, name string) (*inventory.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindAll(_ context.Context, filter inventory.Filter) ([]*inventory.StockItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*inventory.StockItem
	for _, item := range r.items {
		if !item.Active && !filter.IncludeInactive {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.LowStockOnly && !item.IsLowStock() {
			continue
		}
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeStockRepo) Summary(_ context.Context) (*inventory.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &inventory.Summary{}
	for _, item := range r.items {
		if !item.Active {
			continue
		}
		summary.TotalItems++
		if item.IsLowStock() {
			summary.LowStockItems++
		}
		summary.TotalValue = summary.TotalValue.Add(item.StockValue().Amount())
	}
	return summary, nil
}

func (r *fakeStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func setupStock(t *testing.T) (*StockService, *fakeStockRepo) {
	t.Helper()
	repo := newFakeStockRepo()
	return NewStockService(repo, nil), repo
}

func paperItemInput() CreateStockItemInput {
	min := decimal.NewFromInt(5)
	selling := decimal.NewFromInt(45)
	return CreateStockItemInput{
		ProductCode:   "PAP-G1236",
		Name:          "Glossy 12x36",
		Category:      "paper",
		Unit:          "packs",
		Quantity:      decimal.NewFromInt(10),
		UnitCost:      decimal.NewFromInt(30),
		PaperType:     "glossy",
		PaperSize:     "12x36",
		SheetsPerPack: 20,
		SellingPrice:  &selling,
		MinQuantity:   &min,
	}
}

func TestStockService_Create(t *testing.T) {
	svc, _ := setupStock(t)

	view, err := svc.CreateStockItem(t.Context(), paperItemInput())
	require.NoError(t, err)

	assert.Equal(t, inventory.StockStatusIn, view.Status)
	// 10 packs * 20 sheets
	assert.True(t, view.SheetsInStock.Equal(decimal.NewFromInt(200)))
	// selling 45 - cost 30
	assert.True(t, view.ProfitMargin.Equal(decimal.NewFromInt(15)))
	assert.True(t, view.StockValue.Equal(decimal.NewFromInt(300)))

	t.Run("duplicate product code", func(t *testing.T) {
		_, err := svc.CreateStockItem(t.Context(), paperItemInput())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("paper spec on non paper item", func(t *testing.T) {
		input := paperItemInput()
		input.ProductCode = "BAG-VEL"
		input.Category = "bag"
		_, err := svc.CreateStockItem(t.Context(), input)
		require.Error(t, err)
	})
}

func TestStockService_AdjustQuantity(t *testing.T) {
	svc, _ := setupStock(t)
	_, err := svc.CreateStockItem(t.Context(), paperItemInput())
	require.NoError(t, err)

	t.Run("add recomputes weighted cost", func(t *testing.T) {
		view, err := svc.AdjustQuantity(t.Context(), AdjustQuantityInput{
			ProductCode: "PAP-G1236",
			Operation:   "add",
			Quantity:    decimal.NewFromInt(10),
			UnitCost:    decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		assert.True(t, view.Item.Quantity.Equal(decimal.NewFromInt(20)))
		// (10*30 + 10*40) / 20 = 35
		assert.True(t, view.Item.UnitCost.Equal(decimal.NewFromInt(35)))
	})

	t.Run("consume past available rejected", func(t *testing.T) {
		_, err := svc.AdjustQuantity(t.Context(), AdjustQuantityInput{
			ProductCode: "PAP-G1236",
			Operation:   "consume",
			Quantity:    decimal.NewFromInt(100),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("consume to threshold flips status", func(t *testing.T) {
		view, err := svc.AdjustQuantity(t.Context(), AdjustQuantityInput{
			ProductCode: "PAP-G1236",
			Operation:   "consume",
			Quantity:    decimal.NewFromInt(15),
		})
		require.NoError(t, err)
		assert.True(t, view.Item.Quantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, inventory.StockStatusLow, view.Status)
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := svc.AdjustQuantity(t.Context(), AdjustQuantityInput{
			ProductCode: "PAP-G1236",
			Operation:   "set",
			Quantity:    decimal.NewFromInt(1),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	})
}

func TestStockService_AlertsAndSummary(t *testing.T) {
	svc, _ := setupStock(t)
	_, err := svc.CreateStockItem(t.Context(), paperItemInput())
	require.NoError(t, err)

	bag := CreateStockItemInput{
		ProductCode: "BAG-VEL",
		Name:        "Velvet Bag",
		Category:    "bag",
		Unit:        "pieces",
		Quantity:    decimal.NewFromInt(2),
		UnitCost:    decimal.NewFromInt(40),
	}
	minBags := decimal.NewFromInt(3)
	bag.MinQuantity = &minBags
	_, err = svc.CreateStockItem(t.Context(), bag)
	require.NoError(t, err)

	alerts, err := svc.LowStockAlerts(t.Context())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "BAG-VEL", alerts[0].Item.ProductCode)

	summary, err := svc.Summary(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalItems)
	assert.Equal(t, int64(1), summary.LowStockItems)
	// 10*30 + 2*40
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(380)))
}

func TestStockService_UpdateAndLifecycle(t *testing.T) {
	svc, repo := setupStock(t)
	view, err := svc.CreateStockItem(t.Context(), paperItemInput())
	require.NoError(t, err)
	id := view.Item.ID

	t.Run("descriptive edit", func(t *testing.T) {
		name := "Glossy 12x36 Premium"
		selling := decimal.NewFromInt(50)
		updated, err := svc.UpdateStockItem(t.Context(), id, UpdateStockItemInput{
			Name:         &name,
			SellingPrice: &selling,
		})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Item.Name)
		assert.True(t, updated.ProfitMargin.Equal(decimal.NewFromInt(20)))
	})

	t.Run("bulk update isolates failures", func(t *testing.T) {
		notes := "reorder from new supplier"
		results, err := svc.BulkUpdate(t.Context(), []BulkUpdateItem{
			{ProductCode: "PAP-G1236", Update: UpdateStockItemInput{Notes: &notes}},
			{ProductCode: "NO-SUCH-CODE", Update: UpdateStockItemInput{Notes: &notes}},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Empty(t, results[0].Error)
		assert.Equal(t, notes, results[0].Item.Item.Notes)
		assert.Nil(t, results[1].Item)
		assert.NotEmpty(t, results[1].Error)

		_, err = svc.BulkUpdate(t.Context(), nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BULK_UPDATE", domainErr.Code)
	})

	t.Run("deactivate drops from default listing", func(t *testing.T) {
		require.NoError(t, svc.DeactivateStockItem(t.Context(), id))
		result, err := svc.ListStock(t.Context(), ListStockInput{})
		require.NoError(t, err)
		assert.Empty(t, result.Items)

		result, err = svc.ListStock(t.Context(), ListStockInput{IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteStockItem(t.Context(), id))
		_, err := repo.FindByID(t.Context(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
