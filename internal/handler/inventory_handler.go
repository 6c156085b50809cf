package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	guard            Guard
}

func NewInventoryHandler(inventoryService service.InventoryService, guard Guard) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, guard: guard}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	{
		inventory.GET("", h.guard.Staff(), h.GetItems)
		inventory.GET("/low-stock", h.guard.Staff(), h.LowStock)
		inventory.GET("/:id", h.guard.Staff(), h.GetItem)
		inventory.GET("/:id/movements", h.guard.Staff(), h.Movements)
		inventory.POST("", h.guard.Admin(), h.CreateItem)
		inventory.PUT("/:id", h.guard.Admin(), h.UpdateItem)
		inventory.DELETE("/:id", h.guard.Admin(), h.DeleteItem)
		inventory.POST("/:id/adjust", h.guard.Staff(), h.AdjustStock)
	}
}

// GetItems handles retrieving paginated inventory
// @Summary      Get inventory items
// @Description  Retrieves a paginated list of items with current stock
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by name or SKU"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      500     {object}  response.Response
// @Router       /api/inventory [get]
func (h *InventoryHandler) GetItems(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.inventoryService.GetItems(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(items, total)))
}

// GetItem returns one inventory item
// @Summary      Get inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	item, err := h.inventoryService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateItem creates a new inventory item
// @Summary      Create inventory item
// @Description  Opening stock is recorded as an adjustment and, when it has a cost, as a purchase expense
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInventoryItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req service.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateItem updates an item's catalogue fields; quantity changes go through adjust
// @Summary      Update inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Item ID"
// @Param        payload  body      service.UpdateInventoryItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem removes an item softly
// @Summary      Delete inventory item
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	if err := h.inventoryService.DeleteItem(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}

// AdjustStock changes the quantity on hand
// @Summary      Adjust stock
// @Description  Positive deltas restock (a purchase expense is recorded when the item has a cost); stock never goes negative
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Item ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Adjustment"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// LowStock lists items at or below their minimum level
// @Summary      Low stock items
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.InventoryItemResponse}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// Movements lists the stock history of one item
// @Summary      Item movements
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=[]model.InventoryMovement}
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	movements, err := h.inventoryService.Movements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}
