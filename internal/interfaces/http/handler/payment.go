package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderapp "github.com/zenithstudio/backend/internal/application/order"
)

// PaymentHandler handles payment intents, callbacks, manual entries
// and reconciliation views.
type PaymentHandler struct {
	BaseHandler
	paymentService *orderapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *orderapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterPublicRoutes mounts the payer-facing checkout endpoints.
// The customer completing a QR/UPI payment holds no staff token; for
// verify the HMAC signature is the authentication.
func (h *PaymentHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/intent", h.CreateIntent)
		payments.POST("/verify", h.Verify)
		payments.POST("/failed", h.MarkFailed)
		payments.GET("/receipt/:orderNo", h.Receipt)
	}
}

// RegisterRoutes implements RouteRegistrar with the staff-side
// reconciliation and reporting endpoints.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/manual", h.RecordManual)
		payments.POST("/bulk-reconcile", h.BulkReconcile)
		payments.GET("/statistics", h.Statistics)
		payments.GET("/transactions", h.Transactions)
		payments.POST("/remind", h.SendReminder)
	}
}

type orderNoRequest struct {
	OrderNo string `json:"order_no" binding:"required"`
}

// CreateIntent opens a gateway intent for the order's dues
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req orderNoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	intent, err := h.paymentService.CreateIntent(c.Request.Context(), req.OrderNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, intent)
}

// Verify handles the gateway success callback
func (h *PaymentHandler) Verify(c *gin.Context) {
	var input orderapp.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.paymentService.RecordGatewayPayment(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// MarkFailed records a failed gateway attempt
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	var req orderNoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.paymentService.MarkPaymentFailed(c.Request.Context(), req.OrderNo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// RecordManual records a cash or counter-UPI payment
func (h *PaymentHandler) RecordManual(c *gin.Context) {
	var input orderapp.ManualPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	o, err := h.paymentService.RecordManualPayment(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

type bulkReconcileRequest struct {
	Items []orderapp.ReconcileItem `json:"items" binding:"required"`
}

// BulkReconcile applies administrative payment-status overrides
func (h *PaymentHandler) BulkReconcile(c *gin.Context) {
	var req bulkReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.paymentService.BulkReconcile(c.Request.Context(), req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Statistics aggregates billed, collected and outstanding totals
func (h *PaymentHandler) Statistics(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = &parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		to = &parsed
	}

	stats, err := h.paymentService.Statistics(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Transactions lists orders with a verified gateway payment
func (h *PaymentHandler) Transactions(c *gin.Context) {
	orders, err := h.paymentService.Transactions(c.Request.Context(), 0, 0)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// SendReminder emails the customer their current dues
func (h *PaymentHandler) SendReminder(c *gin.Context) {
	var req orderNoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.paymentService.SendReminder(c.Request.Context(), req.OrderNo); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order_no": req.OrderNo, "reminded": true})
}

// Receipt renders the order's receipt document
func (h *PaymentHandler) Receipt(c *gin.Context) {
	html, err := h.paymentService.Receipt(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
