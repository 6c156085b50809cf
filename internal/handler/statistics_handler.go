package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/response"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	guard             Guard
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService service.StatisticsService, guard Guard) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, guard: guard, now: time.Now}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("/accounting", h.guard.Admin(), h.GetAccountingSummary)
	}
}

// @Summary      Get accounting summary
// @Description  Income, expense and net over a date range, with expense categories and work orders by status
// @Tags         statistics
// @Produce      json
// @Param        start_date query string false "Start Date (RFC3339), default first day of the month"
// @Param        end_date   query string false "End Date (RFC3339), default now"
// @Success      200 {object} response.Response{data=model.AccountingSummary}
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      401 {object} response.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /api/statistics/accounting [get]
func (h *StatisticsHandler) GetAccountingSummary(c *gin.Context) {
	// Default to current month if no dates are provided
	now := h.now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endDate := now

	start, err := optionalTimeQuery(c, "start_date")
	if err != nil {
		respondError(c, err)
		return
	}
	if start != nil {
		startDate = *start
	}
	end, err := optionalTimeQuery(c, "end_date")
	if err != nil {
		respondError(c, err)
		return
	}
	if end != nil {
		endDate = *end
	}

	summary, err := h.statisticsService.GetAccountingSummary(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
