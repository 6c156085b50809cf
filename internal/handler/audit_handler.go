package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

type AuditHandler struct {
	auditService service.AuditService
	guard        Guard
}

func NewAuditHandler(auditService service.AuditService, guard Guard) *AuditHandler {
	return &AuditHandler{auditService: auditService, guard: guard}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.guard.Admin())
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs lists recorded changes newest first
// @Summary      Get audit logs
// @Description  Retrieves audit logs, optionally for one entity
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        entity_id  query     string  false  "Entity ID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), c.Query("entity_id"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(logs, total)))
}
