package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/response"
)

type TaxonomyHandler struct {
	taxonomyService service.TaxonomyService
	guard           Guard
}

func NewTaxonomyHandler(taxonomyService service.TaxonomyService, guard Guard) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService, guard: guard}
}

func (h *TaxonomyHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/taxonomies")
	group.Use(h.guard.Staff())
	{
		group.GET("/:kind", h.ListValues)
		group.POST("/:kind", h.AddValue)
	}
}

// ListValues returns the vocabulary for brands, categories or equipment types
// @Summary      List taxonomy values
// @Tags         taxonomies
// @Security     BearerAuth
// @Produce      json
// @Param        kind  path      string  true  "brand, category or equipment_type"
// @Success      200   {object}  response.Response{data=[]model.TaxonomyValue}
// @Failure      400   {object}  response.Response
// @Router       /api/taxonomies/{kind} [get]
func (h *TaxonomyHandler) ListValues(c *gin.Context) {
	values, err := h.taxonomyService.ListValues(c.Request.Context(), c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, values))
}

// AddValue adds a value; an existing one (ignoring case) is returned unchanged
// @Summary      Add taxonomy value
// @Tags         taxonomies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        kind     path      string                           true  "brand, category or equipment_type"
// @Param        payload  body      service.AddTaxonomyValueRequest  true  "Value"
// @Success      200      {object}  response.Response{data=model.TaxonomyValue}
// @Failure      400      {object}  response.Response
// @Router       /api/taxonomies/{kind} [post]
func (h *TaxonomyHandler) AddValue(c *gin.Context) {
	var req service.AddTaxonomyValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	value, err := h.taxonomyService.AddValue(c.Request.Context(), c.Param("kind"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, value))
}
