package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
)

// Stripe webhook payloads are small; cap reads well above any real event.
const maxWebhookBodyBytes = int64(1 << 16)

type BillingHandler struct {
	*BaseHandler
	billing services.BillingService
	authMW  gin.HandlerFunc
}

func NewBillingHandler(base *BaseHandler, billing services.BillingService, authMW gin.HandlerFunc) *BillingHandler {
	return &BillingHandler{BaseHandler: base, billing: billing, authMW: authMW}
}

func (h *BillingHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/billing")
	{
		// The webhook authenticates by signature, not bearer token.
		group.POST("/webhook", h.Webhook)

		authed := group.Group("")
		authed.Use(h.authMW)
		{
			authed.POST("/checkout", h.Checkout)
			authed.POST("/portal", h.Portal)
		}
	}
}

func (h *BillingHandler) Checkout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.billing.CreateCheckout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BillingHandler) Portal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.billing.CreatePortal(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook returns 400 only for unreadable bodies and signature failures.
// Verified events are always acknowledged with 200, even when processing
// fails, so Stripe does not retry permanently-broken events.
func (h *BillingHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "webhook body read failed", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := h.billing.HandleWebhook(c.Request.Context(), body, sigHeader); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
