package handler

import (
	"net/http"
	"strconv"

	"barangay/internal/middleware"
	"barangay/internal/model"
	"barangay/internal/service"
	"barangay/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// RegisterRoutes binds the document-request endpoints to the router group
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/document-requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("/:id/resubmit", h.Resubmit)

		// Staff-only workflow operations
		requests.POST("/status", middleware.RequireRole(model.RoleSecretary, model.RoleAdmin), h.UpdateStatus)
		requests.DELETE("/:id", middleware.RequireRole(model.RoleSecretary, model.RoleAdmin), h.SoftDelete)
	}
}

// CreateRequest submits a new document request
// @Summary      Create document request
// @Description  Creates a document request for an approved resident resolved by normalized contact
// @Tags         document-requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequestDTO  true  "Request payload"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/document-requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests returns document requests, optionally filtered
// @Summary      List document requests
// @Tags         document-requests
// @Produce      json
// @Param        contact          query     string  false  "Filter by contact (any accepted format)"
// @Param        status           query     string  false  "Filter by status (case-insensitive)"
// @Param        include_deleted  query     bool    false  "Include soft-deleted requests"
// @Success      200  {object}  response.Response{data=[]service.RequestResponse}
// @Router       /api/document-requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))

	filter := service.RequestListFilter{
		Contact:        c.Query("contact"),
		Status:         c.Query("status"),
		IncludeDeleted: includeDeleted,
	}

	results, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}

// GetRequest returns a single document request by id
// @Summary      Get document request
// @Tags         document-requests
// @Produce      json
// @Param        id               path      int   true   "Request ID"
// @Param        include_deleted  query     bool  false  "Include soft-deleted requests"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/document-requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("include_deleted", "false"))

	result, err := h.requestService.GetRequest(c.Request.Context(), id, includeDeleted)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateStatus applies a workflow transition to a request
// @Summary      Update request status
// @Description  Validates and applies a status transition, then notifies the owner
// @Tags         document-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.StatusUpdateDTO  true  "Transition payload"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/document-requests/status [post]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var req service.StatusUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Resubmit lets a resident correct and resubmit a Returned request
// @Summary      Edit and resubmit a returned request
// @Tags         document-requests
// @Accept       json
// @Produce      json
// @Param        id       path      int                         true  "Request ID"
// @Param        payload  body      service.ResubmitRequestDTO  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/document-requests/{id}/resubmit [post]
func (h *RequestHandler) Resubmit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var req service.ResubmitRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Resubmit(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// SoftDelete cancels a request and hides it without physical deletion
// @Summary      Soft-delete a document request
// @Tags         document-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/document-requests/{id} [delete]
func (h *RequestHandler) SoftDelete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	if err := h.requestService.SoftDelete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message": "Request soft deleted successfully",
	}))
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
