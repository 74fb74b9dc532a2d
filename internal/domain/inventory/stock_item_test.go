package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

func newTestItem(t *testing.T, qty float64) *StockItem {
	t.Helper()
	item, err := NewStockItem("PAP-G1236", "Glossy 12x36", CategoryPaper, "sheets",
		decimal.NewFromFloat(qty), valueobject.NewMoneyINRFromFloat(25))
	require.NoError(t, err)
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := newTestItem(t, 500)
		assert.Equal(t, "PAP-G1236", item.ProductCode)
		assert.Equal(t, "Glossy 12x36", item.Name)
		assert.Equal(t, CategoryPaper, item.Category)
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(500)))
		assert.True(t, item.Active)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			code     string
			itemName string
			category StockCategory
			unit     string
			qty      decimal.Decimal
			errCode  string
		}{
			{"empty product code", " ", "x", CategoryPaper, "sheets", decimal.Zero, "INVALID_PRODUCT_CODE"},
			{"empty name", "SKU-1", " ", CategoryPaper, "sheets", decimal.Zero, "INVALID_NAME"},
			{"unknown category", "SKU-1", "x", StockCategory("ink"), "ml", decimal.Zero, "INVALID_CATEGORY"},
			{"missing unit", "SKU-1", "x", CategoryBag, "", decimal.Zero, "INVALID_UNIT"},
			{"negative quantity", "SKU-1", "x", CategoryBag, "pieces", decimal.NewFromInt(-1), "INVALID_QUANTITY"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewStockItem(tt.code, tt.itemName, tt.category, tt.unit, tt.qty, valueobject.ZeroINR())
				require.Error(t, err)
				assert.Equal(t, tt.errCode, err.(*shared.DomainError).Code)
			})
		}
	})
}

func TestStockItem_AddStock(t *testing.T) {
	t.Run("weighted average cost", func(t *testing.T) {
		item := newTestItem(t, 100) // 100 @ 25
		require.NoError(t, item.AddStock(decimal.NewFromInt(100), valueobject.NewMoneyINRFromFloat(35)))

		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(200)))
		assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(30)))
	})

	t.Run("first batch sets the cost", func(t *testing.T) {
		item, err := NewStockItem("BAG-VEL", "Velvet Bag", CategoryBag, "pieces", decimal.Zero, valueobject.ZeroINR())
		require.NoError(t, err)
		require.NoError(t, item.AddStock(decimal.NewFromInt(50), valueobject.NewMoneyINRFromFloat(80)))

		assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(80)))
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		item := newTestItem(t, 100)
		assert.Error(t, item.AddStock(decimal.Zero, valueobject.ZeroINR()))
	})
}

func TestStockItem_ConsumeStock(t *testing.T) {
	item := newTestItem(t, 100)

	require.NoError(t, item.ConsumeStock(decimal.NewFromInt(60)))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(40)))

	err := item.ConsumeStock(decimal.NewFromInt(50))
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_STOCK", err.(*shared.DomainError).Code)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(40)))
}

func TestStockItem_LowStock(t *testing.T) {
	item := newTestItem(t, 100)

	// threshold unset, never low
	assert.False(t, item.IsLowStock())

	require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(40)))
	assert.False(t, item.IsLowStock())

	require.NoError(t, item.ConsumeStock(decimal.NewFromInt(60)))
	assert.True(t, item.IsLowStock())
}

func TestStockItem_StockValue(t *testing.T) {
	item := newTestItem(t, 100)
	assert.True(t, item.StockValue().Amount().Equal(decimal.NewFromInt(2500)))
}

func TestStockItem_Status(t *testing.T) {
	item := newTestItem(t, 100)
	assert.Equal(t, StockStatusIn, item.Status())

	require.NoError(t, item.SetMinQuantity(decimal.NewFromInt(50)))
	require.NoError(t, item.ConsumeStock(decimal.NewFromInt(60)))
	assert.Equal(t, StockStatusLow, item.Status())

	require.NoError(t, item.ConsumeStock(decimal.NewFromInt(40)))
	assert.Equal(t, StockStatusOut, item.Status())
}

func TestStockItem_PaperSpecAndSheets(t *testing.T) {
	item, err := NewStockItem("PAP-N1230", "NTR 12x30", CategoryPaper, UnitPacks,
		decimal.NewFromInt(10), valueobject.NewMoneyINRFromFloat(450))
	require.NoError(t, err)

	require.NoError(t, item.SetPaperSpec("ntr", "12x30", 20))
	assert.True(t, item.SheetsInStock().Equal(decimal.NewFromInt(200)))

	// Non-paper items reject paper attributes
	bag, err := NewStockItem("BAG-1", "Bag", CategoryBag, "pieces", decimal.Zero, valueobject.ZeroINR())
	require.NoError(t, err)
	assert.Error(t, bag.SetPaperSpec("ntr", "12x30", 20))
}

func TestStockItem_ProfitMargin(t *testing.T) {
	item := newTestItem(t, 100) // cost 25
	require.NoError(t, item.SetSellingPrice(valueobject.NewMoneyINRFromFloat(32)))
	assert.True(t, item.ProfitMargin().Equal(decimal.NewFromInt(7)))

	assert.Error(t, item.SetSellingPrice(valueobject.NewMoneyINRFromFloat(-1)))
}

func TestStockItem_Deactivate(t *testing.T) {
	item := newTestItem(t, 10)
	require.NoError(t, item.Deactivate())
	assert.Error(t, item.Deactivate())
}
