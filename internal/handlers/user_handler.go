package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/services"
)

type UserHandler struct {
	*BaseHandler
	users  services.UserService
	usage  services.UsageService
	authMW gin.HandlerFunc
}

func NewUserHandler(base *BaseHandler, users services.UserService, usage services.UsageService, authMW gin.HandlerFunc) *UserHandler {
	return &UserHandler{BaseHandler: base, users: users, usage: usage, authMW: authMW}
}

func (h *UserHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/me")
	group.Use(h.authMW)
	{
		group.GET("", h.Profile)
		group.POST("/onboarding", h.CompleteOnboarding)
		group.GET("/usage", h.Usage)
	}
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.users.CompleteOnboarding(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Usage returns the current-period ledger snapshot with the plan's limits.
func (h *UserHandler) Usage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.usage.Snapshot(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
