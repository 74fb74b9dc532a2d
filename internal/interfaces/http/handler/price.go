package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pricingapp "github.com/zenithstudio/backend/internal/application/pricing"
)

// PricingHandler handles quote and rate card requests
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricingapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// RegisterRoutes implements RouteRegistrar
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prices := rg.Group("/prices")
	{
		prices.POST("/quote", h.Quote)
		prices.POST("", h.CreateRateCard)
		prices.GET("", h.ListRateCards)
		prices.GET("/:id", h.GetRateCard)
		prices.PUT("/:id", h.UpdateRateCard)
		prices.PUT("/:id/premium", h.UpdatePremiumRates)
		prices.DELETE("/:id", h.DeleteRateCard)
	}
}

// Quote prices a prospective order without persisting anything
func (h *PricingHandler) Quote(c *gin.Context) {
	var input pricingapp.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// CreateRateCard registers a new rate card
func (h *PricingHandler) CreateRateCard(c *gin.Context) {
	var input pricingapp.CreateRateCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	card, err := h.pricingService.CreateRateCard(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, card)
}

// ListRateCards lists rate cards, optionally filtered
func (h *PricingHandler) ListRateCards(c *gin.Context) {
	var filter pricingapp.RateCardFilterInput
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	cards, err := h.pricingService.ListRateCards(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cards)
}

// GetRateCard fetches a rate card by id
func (h *PricingHandler) GetRateCard(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	card, err := h.pricingService.GetRateCard(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// UpdateRateCard applies rate changes to an existing card
func (h *PricingHandler) UpdateRateCard(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	var input pricingapp.UpdateRateCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ID = id

	card, err := h.pricingService.UpdateRateCard(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

type premiumRatesRequest struct {
	GlossyRate  *decimal.Decimal `json:"glossy_rate"`
	NTRRate     *decimal.Decimal `json:"ntr_rate"`
	BindingRate *decimal.Decimal `json:"binding_rate"`
	BagRate     *decimal.Decimal `json:"bag_rate"`
}

// UpdatePremiumRates changes only a card's premium-tier overrides
func (h *PricingHandler) UpdatePremiumRates(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req premiumRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := pricingapp.UpdateRateCardInput{
		ID:                 id,
		PremiumGlossyRate:  req.GlossyRate,
		PremiumNTRRate:     req.NTRRate,
		PremiumBindingRate: req.BindingRate,
		PremiumBagRate:     req.BagRate,
	}
	card, err := h.pricingService.UpdateRateCard(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, card)
}

// DeleteRateCard removes a rate card
func (h *PricingHandler) DeleteRateCard(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.pricingService.DeleteRateCard(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
