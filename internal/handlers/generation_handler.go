package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/izzat2702/KognitDeck/internal/extractor"
	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

type GenerationHandler struct {
	*BaseHandler
	generation services.GenerationService
	extract    extractor.TextExtractor
	maxUpload  int64
	authMW     gin.HandlerFunc
}

func NewGenerationHandler(base *BaseHandler, generation services.GenerationService, extract extractor.TextExtractor, maxUpload int64, authMW gin.HandlerFunc) *GenerationHandler {
	return &GenerationHandler{
		BaseHandler: base,
		generation:  generation,
		extract:     extract,
		maxUpload:   maxUpload,
		authMW:      authMW,
	}
}

func (h *GenerationHandler) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/generate")
	group.Use(h.authMW)
	{
		group.POST("", h.Generate)
		group.POST("/extract", h.Extract)
	}
}

func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.generation.Generate(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Extract accepts a multipart upload under the "file" field and returns the
// extracted text for the client to review before generating.
func (h *GenerationHandler) Extract(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Missing file upload"))
		return
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		h.HandleServiceError(c, apperrors.ErrDocumentTooLarge)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Unreadable file upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Unreadable file upload"))
		return
	}

	result, err := h.extract.Extract(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExtractResponse{
		Text:      result.Text,
		PageCount: result.PageCount,
		WordCount: result.WordCount,
	})
}
