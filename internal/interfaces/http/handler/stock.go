package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/zenithstudio/backend/internal/application/inventory"
)

// StockHandler handles stock item management
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes implements RouteRegistrar
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("", h.Create)
		stock.GET("", h.List)
		stock.GET("/alerts", h.Alerts)
		stock.GET("/summary", h.Summary)
		stock.POST("/adjust", h.Adjust)
		stock.POST("/bulk", h.BulkUpdate)
		stock.GET("/code/:productCode", h.GetByProductCode)
		stock.GET("/:id", h.Get)
		stock.PUT("/:id", h.Update)
		stock.PUT("/:id/deactivate", h.Deactivate)
		stock.DELETE("/:id", h.Delete)
	}
}

// Create registers a new stock item
func (h *StockHandler) Create(c *gin.Context) {
	var input inventoryapp.CreateStockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.stockService.CreateStockItem(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// List lists stock items with filters and pagination
func (h *StockHandler) List(c *gin.Context) {
	var input inventoryapp.ListStockInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	result, err := h.stockService.ListStock(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, input.Limit, input.Offset)
}

// Alerts lists items at or below their minimum quantity
func (h *StockHandler) Alerts(c *gin.Context) {
	views, err := h.stockService.LowStockAlerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Summary aggregates stock counts and value
func (h *StockHandler) Summary(c *gin.Context) {
	summary, err := h.stockService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Adjust adds to or consumes from an item's quantity
func (h *StockHandler) Adjust(c *gin.Context) {
	var input inventoryapp.AdjustQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.stockService.AdjustQuantity(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

type bulkUpdateRequest struct {
	Items []inventoryapp.BulkUpdateItem `json:"items" binding:"required"`
}

// BulkUpdate applies edits to several items, reporting per-item outcomes
func (h *StockHandler) BulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	results, err := h.stockService.BulkUpdate(c.Request.Context(), req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Get fetches a stock item by id
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	view, err := h.stockService.GetStockItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// GetByProductCode fetches a stock item by product code
func (h *StockHandler) GetByProductCode(c *gin.Context) {
	view, err := h.stockService.GetStockItemByProductCode(c.Request.Context(), c.Param("productCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Update applies partial changes to a stock item
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	var input inventoryapp.UpdateStockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.stockService.UpdateStockItem(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Deactivate hides a stock item from active listings
func (h *StockHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.stockService.DeactivateStockItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deactivated": true})
}

// Delete removes a stock item
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.stockService.DeleteStockItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
