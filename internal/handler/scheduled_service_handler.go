package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/model"
	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

type ScheduledServiceHandler struct {
	scheduledService service.ScheduledServiceService
	guard            Guard
}

func NewScheduledServiceHandler(scheduledService service.ScheduledServiceService, guard Guard) *ScheduledServiceHandler {
	return &ScheduledServiceHandler{scheduledService: scheduledService, guard: guard}
}

func (h *ScheduledServiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/scheduled-services")
	group.Use(h.guard.Staff())
	{
		group.GET("", h.ListScheduledServices)
		group.GET("/:id", h.GetScheduledService)
		group.POST("", h.CreateScheduledService)
		group.PUT("/:id", h.UpdateScheduledService)
		group.DELETE("/:id", h.DeleteScheduledService)
	}
}

// ListScheduledServices
// @Summary      List scheduled services
// @Tags         scheduled-services
// @Security     BearerAuth
// @Produce      json
// @Param        status     query     string  false  "Status filter"
// @Param        client_id  query     string  false  "Client ID filter"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /api/scheduled-services [get]
func (h *ScheduledServiceHandler) ListScheduledServices(c *gin.Context) {
	p := pagination.Parse(c)
	clientID, err := optionalUUIDQuery(c, "client_id")
	if err != nil {
		respondError(c, err)
		return
	}

	items, total, err := h.scheduledService.ListScheduledServices(c.Request.Context(), c.Query("status"), clientID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(items, total)))
}

// GetScheduledService
// @Summary      Get scheduled service
// @Tags         scheduled-services
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Scheduled service ID"
// @Success      200  {object}  response.Response{data=model.ScheduledService}
// @Failure      404  {object}  response.Response
// @Router       /api/scheduled-services/{id} [get]
func (h *ScheduledServiceHandler) GetScheduledService(c *gin.Context) {
	svc, err := h.scheduledService.GetScheduledService(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}

// CreateScheduledService books a future service on behalf of a client
// @Summary      Create scheduled service
// @Tags         scheduled-services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateScheduledServiceRequest  true  "Scheduled Service Payload"
// @Success      201      {object}  response.Response{data=model.ScheduledService}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/scheduled-services [post]
func (h *ScheduledServiceHandler) CreateScheduledService(c *gin.Context) {
	var req service.CreateScheduledServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	svc, err := h.scheduledService.CreateScheduledService(c.Request.Context(), currentUserID(c), model.SourceStaff, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, svc))
}

// UpdateScheduledService edits a scheduled service or moves its status
// @Summary      Update scheduled service
// @Description  Conversion to a work order only happens through work order creation
// @Tags         scheduled-services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                                 true  "Scheduled service ID"
// @Param        payload  body      service.UpdateScheduledServiceRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.ScheduledService}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/scheduled-services/{id} [put]
func (h *ScheduledServiceHandler) UpdateScheduledService(c *gin.Context) {
	var req service.UpdateScheduledServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	svc, err := h.scheduledService.UpdateScheduledService(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}

// DeleteScheduledService
// @Summary      Delete scheduled service
// @Tags         scheduled-services
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Scheduled service ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/scheduled-services/{id} [delete]
func (h *ScheduledServiceHandler) DeleteScheduledService(c *gin.Context) {
	if err := h.scheduledService.DeleteScheduledService(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Scheduled service deleted successfully"))
}
