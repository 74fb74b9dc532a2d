package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderapp "github.com/zenithstudio/backend/internal/application/order"
	"github.com/zenithstudio/backend/internal/domain/order"
)

// maxUploadBytes caps a single album file part
const maxUploadBytes = 64 << 20

// OrderHandler handles order lifecycle and file endpoints. Orders are
// addressed by their client-facing order number.
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes implements RouteRegistrar
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/customer/:email", h.ListByEmail)
		orders.GET("/details/:orderNo", h.Get)
		orders.GET("/:orderNo", h.Get)
		orders.PUT("/:orderNo", h.Update)
		orders.PATCH("/:orderNo/status", h.ChangeStatus)
		orders.DELETE("/:orderNo", h.Delete)

		orders.POST("/:orderNo/files", h.UploadFiles)
		orders.GET("/:orderNo/files", h.ListFiles)
		orders.GET("/:orderNo/files/url", h.FileURL)
		orders.GET("/:orderNo/files/archive", h.ArchiveFiles)
	}
}

// Create prices and creates an order
func (h *OrderHandler) Create(c *gin.Context) {
	var input orderapp.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// List returns a filtered page of orders
func (h *OrderHandler) List(c *gin.Context) {
	var input orderapp.ListOrdersInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 20
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Orders, result.Total, input.Limit, input.Offset)
}

// Get fetches one order by its order number
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orderService.GetOrderByOrderNo(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Update applies an allow-listed edit
func (h *OrderHandler) Update(c *gin.Context) {
	var input orderapp.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.orderService.GetOrderByOrderNo(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	updated, err := h.orderService.UpdateOrder(c.Request.Context(), o.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus moves the production axis
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.orderService.GetOrderByOrderNo(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	updated, err := h.orderService.ChangeOrderStatus(c.Request.Context(), o.ID, order.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete soft-deletes an order; ?permanent=true removes the row and
// its stored files.
func (h *OrderHandler) Delete(c *gin.Context) {
	o, err := h.orderService.GetOrderByOrderNo(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("permanent") == "true" {
		err = h.orderService.HardDeleteOrder(c.Request.Context(), o.ID)
	} else {
		err = h.orderService.DeleteOrder(c.Request.Context(), o.ID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadFiles accepts multipart album files for an order
func (h *OrderHandler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form: "+err.Error())
		return
	}
	parts := form.File["files"]
	if len(parts) == 0 {
		h.BadRequest(c, "No files in form field 'files'")
		return
	}

	uploads := make([]orderapp.UploadedFile, 0, len(parts))
	for _, part := range parts {
		if part.Size > maxUploadBytes {
			h.BadRequest(c, fmt.Sprintf("File %s exceeds the size limit", part.Filename))
			return
		}
		f, err := part.Open()
		if err != nil {
			h.InternalError(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()
		uploads = append(uploads, orderapp.UploadedFile{
			Filename:    part.Filename,
			ContentType: part.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	o, err := h.orderService.UploadFiles(c.Request.Context(), c.Param("orderNo"), uploads)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o.UploadedFiles)
}

// ListByEmail returns every active order belonging to a customer
func (h *OrderHandler) ListByEmail(c *gin.Context) {
	result, err := h.orderService.ListOrdersByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// fileURLTTL is how long a signed download link stays valid
const fileURLTTL = 15 * time.Minute

// FileURL returns a time-limited download URL for one stored file
func (h *OrderHandler) FileURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Query parameter 'key' is required")
		return
	}

	url, expiresAt, err := h.orderService.FileDownloadURL(c.Request.Context(), c.Param("orderNo"), key, fileURLTTL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"url": url, "expires_at": expiresAt})
}

// ListFiles returns the stored file keys for an order
func (h *OrderHandler) ListFiles(c *gin.Context) {
	keys, err := h.orderService.ListFiles(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, keys)
}

// ArchiveFiles streams a zip of the order's files. A client disconnect
// cancels the request context and aborts the stream.
func (h *OrderHandler) ArchiveFiles(c *gin.Context) {
	orderNo := c.Param("orderNo")
	if _, err := h.orderService.GetOrderByOrderNo(c.Request.Context(), orderNo); err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orderNo+".zip"))
	c.Status(http.StatusOK)

	if err := h.orderService.ArchiveFiles(c.Request.Context(), orderNo, c.Writer); err != nil {
		// Headers may already be gone; nothing useful to send.
		_ = c.Error(err)
	}
}
