package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
)

type SetHandler struct {
	*BaseHandler
	sets   services.SetService
	study  services.StudyService
	authMW gin.HandlerFunc
}

func NewSetHandler(base *BaseHandler, sets services.SetService, study services.StudyService, authMW gin.HandlerFunc) *SetHandler {
	return &SetHandler{BaseHandler: base, sets: sets, study: study, authMW: authMW}
}

func (h *SetHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/sets")
	group.Use(h.authMW)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Rename)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/export", h.Export)
		group.GET("/:id/sessions", h.Sessions)
	}
}

func (h *SetHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.sets.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": resp})
}

func (h *SetHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.sets.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetHandler) Rename(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RenameSetRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.sets.Rename(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.sets.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *SetHandler) Export(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	filename, data, err := h.sets.ExportCSV(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *SetHandler) Sessions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.study.ListBySet(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resp})
}
