package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

type WorkOrderHandler struct {
	workOrderService service.WorkOrderService
	guard            Guard
}

func NewWorkOrderHandler(workOrderService service.WorkOrderService, guard Guard) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService, guard: guard}
}

func (h *WorkOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/work-orders")
	{
		orders.GET("", h.guard.Staff(), h.ListWorkOrders)
		orders.GET("/:id", h.guard.Staff(), h.GetWorkOrder)
		orders.POST("", h.guard.Staff(), h.CreateWorkOrder)
		orders.PUT("/:id", h.guard.Staff(), h.UpdateWorkOrder)
		orders.DELETE("/:id", h.guard.Admin(), h.DeleteWorkOrder)
	}
}

// ListWorkOrders returns the board, optionally narrowed to one area or status
// @Summary      List work orders
// @Description  Retrieves a paginated list of work orders newest first
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        area       query     string  false  "Area filter"
// @Param        status     query     string  false  "Status filter"
// @Param        client_id  query     string  false  "Client ID filter"
// @Param        search     query     string  false  "Search display id, serial or client name"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Failure      400        {object}  response.Response
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	p := pagination.Parse(c)
	clientID, err := optionalUUIDQuery(c, "client_id")
	if err != nil {
		respondError(c, err)
		return
	}

	orders, total, err := h.workOrderService.ListWorkOrders(c.Request.Context(), service.WorkOrderListQuery{
		Area:     c.Query("area"),
		Status:   c.Query("status"),
		ClientID: clientID,
		Search:   c.Query("search"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(orders, total)))
}

// GetWorkOrder returns one work order with its computed budget
// @Summary      Get work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	order, err := h.workOrderService.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// CreateWorkOrder registers equipment for repair, optionally converting a scheduled service
// @Summary      Create work order
// @Description  Assigns the next OT display id; with scheduled_service_id the service is converted in the same transaction
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWorkOrderRequest  true  "Create Work Order Payload"
// @Success      201      {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var req service.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// UpdateWorkOrder applies a partial update and its side effects
// @Summary      Update work order
// @Description  Moves the order between areas, edits the budget and triggers stock deduction, delivery and notifications
// @Tags         work-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Work order ID"
// @Param        payload  body      service.UpdateWorkOrderRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.WorkOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/work-orders/{id} [put]
func (h *WorkOrderHandler) UpdateWorkOrder(c *gin.Context) {
	var req service.UpdateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteWorkOrder removes a work order and releases its scheduled service
// @Summary      Delete work order
// @Tags         work-orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/work-orders/{id} [delete]
func (h *WorkOrderHandler) DeleteWorkOrder(c *gin.Context) {
	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Work order deleted successfully"))
}
