package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"repairshop/internal/model"
	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

// NotificationHandler serves the staff inbox. Portal clients read theirs
// through PortalHandler.
type NotificationHandler struct {
	notificationService service.NotificationService
	guard               Guard
}

func NewNotificationHandler(notificationService service.NotificationService, guard Guard) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, guard: guard}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/notifications")
	group.Use(h.guard.Staff())
	{
		group.GET("", h.ListNotifications)
		group.GET("/unread-count", h.UnreadCount)
		group.POST("/:id/read", h.MarkRead)
		group.POST("/read-all", h.MarkAllRead)
	}
}

// ListNotifications
// @Summary      List staff notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        unread  query     bool  false  "Only unread"
// @Param        page    query     int   false  "Page number (default 1)"
// @Param        limit   query     int   false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page}
// @Router       /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	listNotifications(c, h.notificationService, model.AudienceAdmin, nil)
}

// UnreadCount
// @Summary      Count unread staff notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), model.AudienceAdmin, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"unread": count}))
}

// MarkRead
// @Summary      Mark a notification read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), model.AudienceAdmin, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Notification marked as read"))
}

// MarkAllRead
// @Summary      Mark every staff notification read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), model.AudienceAdmin, nil); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Notifications marked as read"))
}

func listNotifications(c *gin.Context, svc service.NotificationService, audience model.Audience, clientID *uuid.UUID) {
	p := pagination.Parse(c)
	unreadOnly := c.Query("unread") == "true"

	notes, total, err := svc.List(c.Request.Context(), audience, clientID, unreadOnly, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(notes, total)))
}
