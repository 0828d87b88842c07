package handler

import (
	"net/http"
	"strconv"

	"barangay/internal/middleware"
	"barangay/internal/model"
	"barangay/internal/service"
	"barangay/pkg/pagination"
	"barangay/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifs := router.Group("/api/notifications")
	{
		notifs.GET("", middleware.RequireRole(model.RoleSecretary, model.RoleAdmin), h.ListNotifications)
		notifs.PUT("/:id/read", h.MarkRead)
	}
}

// ListNotifications returns notifications, newest first
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     int  false  "Filter by owning user"
// @Param        page     query     int  false  "Page"
// @Param        limit    query     int  false  "Page size"
// @Success      200  {object}  response.Response{data=[]service.NotificationResponse}
// @Router       /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	params := pagination.Parse(c)

	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user_id"))
			return
		}
		id := uint(parsed)
		userID = &id
	}

	notifs, total, err := h.notificationService.ListNotifications(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   notifs,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// MarkRead flips a notification's is_read flag (one-way)
// @Summary      Mark notification as read
// @Tags         notifications
// @Produce      json
// @Param        id  path  int  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid notification id"))
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	}))
}
