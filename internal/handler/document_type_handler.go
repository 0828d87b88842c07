package handler

import (
	"net/http"

	"barangay/internal/service"
	"barangay/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentTypeHandler struct {
	documentTypeService service.DocumentTypeService
}

func NewDocumentTypeHandler(documentTypeService service.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{documentTypeService: documentTypeService}
}

func (h *DocumentTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/document-types", h.ListDocumentTypes)
}

// ListDocumentTypes returns the active document catalog
// @Summary      List document types
// @Tags         document-types
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.DocumentTypeResponse}
// @Router       /api/document-types [get]
func (h *DocumentTypeHandler) ListDocumentTypes(c *gin.Context) {
	types, err := h.documentTypeService.ListDocumentTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, types))
}
