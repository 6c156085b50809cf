package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop/internal/apperror"
	"repairshop/internal/model"
	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

// PortalScheduledServiceRequest is what a client sends to book a service;
// the client comes from the token.
type PortalScheduledServiceRequest struct {
	EquipmentType string     `json:"equipment_type"`
	Description   string     `json:"description" binding:"required,max=1000"`
	RequestedDate *time.Time `json:"requested_date"`
}

// PortalHandler exposes a client's own work orders, bookings and
// notifications.
type PortalHandler struct {
	workOrders    service.WorkOrderService
	scheduled     service.ScheduledServiceService
	notifications service.NotificationService
	guard         Guard
}

func NewPortalHandler(workOrders service.WorkOrderService, scheduled service.ScheduledServiceService, notifications service.NotificationService, guard Guard) *PortalHandler {
	return &PortalHandler{workOrders: workOrders, scheduled: scheduled, notifications: notifications, guard: guard}
}

func (h *PortalHandler) RegisterRoutes(router *gin.RouterGroup) {
	portal := router.Group("/api/portal")
	portal.Use(h.guard.Portal())
	{
		portal.GET("/work-orders", h.ListWorkOrders)
		portal.GET("/work-orders/:id", h.GetWorkOrder)
		portal.GET("/scheduled-services", h.ListScheduledServices)
		portal.POST("/scheduled-services", h.RequestService)
		portal.GET("/notifications", h.ListNotifications)
		portal.GET("/notifications/unread-count", h.UnreadCount)
		portal.POST("/notifications/:id/read", h.MarkRead)
		portal.POST("/notifications/read-all", h.MarkAllRead)
	}
}

// hidePrivate drops fields a client should not read back, such as the
// device unlock code they handed in.
func hidePrivate(order service.WorkOrderResponse) service.WorkOrderResponse {
	order.EquipmentPassword = ""
	return order
}

// ListWorkOrders
// @Summary      List my work orders
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/portal/work-orders [get]
func (h *PortalHandler) ListWorkOrders(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	orders, total, err := h.workOrders.ListWorkOrders(c.Request.Context(), service.WorkOrderListQuery{
		ClientID: &clientID,
		Status:   c.Query("status"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	for i := range orders {
		orders[i] = hidePrivate(orders[i])
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(orders, total)))
}

// GetWorkOrder
// @Summary      Get one of my work orders
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/portal/work-orders/{id} [get]
func (h *PortalHandler) GetWorkOrder(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}

	order, err := h.workOrders.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	// Other clients' orders look missing rather than forbidden.
	if order.ClientID != clientID {
		respondError(c, apperror.NotFound("work order", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, hidePrivate(order)))
}

// ListScheduledServices
// @Summary      List my scheduled services
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=response.Page}
// @Router       /api/portal/scheduled-services [get]
func (h *PortalHandler) ListScheduledServices(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	items, total, err := h.scheduled.ListScheduledServices(c.Request.Context(), c.Query("status"), &clientID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(items, total)))
}

// RequestService books a service from the portal
// @Summary      Request a service
// @Tags         portal
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      handler.PortalScheduledServiceRequest  true  "Booking"
// @Success      201      {object}  response.Response{data=model.ScheduledService}
// @Failure      400      {object}  response.Response
// @Router       /api/portal/scheduled-services [post]
func (h *PortalHandler) RequestService(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	var req PortalScheduledServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	svc, err := h.scheduled.CreateScheduledService(c.Request.Context(), currentUserID(c), model.SourcePortal, service.CreateScheduledServiceRequest{
		ClientID:      clientID.String(),
		EquipmentType: req.EquipmentType,
		Description:   req.Description,
		RequestedDate: req.RequestedDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, svc))
}

// ListNotifications
// @Summary      List my notifications
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        unread  query     bool  false  "Only unread"
// @Success      200     {object}  response.Response{data=response.Page}
// @Router       /api/portal/notifications [get]
func (h *PortalHandler) ListNotifications(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	listNotifications(c, h.notifications, model.AudienceClient, &clientID)
}

// UnreadCount
// @Summary      Count my unread notifications
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/portal/notifications/unread-count [get]
func (h *PortalHandler) UnreadCount(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), model.AudienceClient, &clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"unread": count}))
}

// MarkRead
// @Summary      Mark one of my notifications read
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/portal/notifications/{id}/read [post]
func (h *PortalHandler) MarkRead(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), model.AudienceClient, &clientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Notification marked as read"))
}

// MarkAllRead
// @Summary      Mark all my notifications read
// @Tags         portal
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/portal/notifications/read-all [post]
func (h *PortalHandler) MarkAllRead(c *gin.Context) {
	clientID, ok := portalClientID(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), model.AudienceClient, &clientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Notifications marked as read"))
}
