package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
)

type StudyHandler struct {
	*BaseHandler
	study  services.StudyService
	authMW gin.HandlerFunc
}

func NewStudyHandler(base *BaseHandler, study services.StudyService, authMW gin.HandlerFunc) *StudyHandler {
	return &StudyHandler{BaseHandler: base, study: study, authMW: authMW}
}

func (h *StudyHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/study-sessions")
	group.Use(h.authMW)
	{
		group.POST("", h.Record)
		group.GET("", h.List)
	}
}

func (h *StudyHandler) Record(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStudySessionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.study.Record(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StudyHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.study.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}
