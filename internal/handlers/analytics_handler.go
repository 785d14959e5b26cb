package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analytics services.AnalyticsService
	authMW    gin.HandlerFunc
}

func NewAnalyticsHandler(base *BaseHandler, analytics services.AnalyticsService, authMW gin.HandlerFunc) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: base, analytics: analytics, authMW: authMW}
}

func (h *AnalyticsHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/analytics")
	group.Use(h.authMW)
	{
		group.GET("", h.Overview)
	}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.analytics.Overview(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
