package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairshop/internal/service"
	"repairshop/pkg/pagination"
	"repairshop/pkg/response"
)

type TransactionHandler struct {
	transactionService service.TransactionService
	guard              Guard
}

func NewTransactionHandler(transactionService service.TransactionService, guard Guard) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, guard: guard}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/transactions")
	group.Use(h.guard.Staff())
	{
		group.GET("", h.ListTransactions)
		group.POST("", h.CreateTransaction)
	}
}

// CreateTransaction records income or expense; income tied to a work order updates its payment
// @Summary      Create transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTransactionRequest  true  "Transaction Payload"
// @Success      201      {object}  response.Response{data=model.Transaction}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// ListTransactions returns ledger entries newest first
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        type           query     string  false  "INGRESO or EGRESO"
// @Param        work_order_id  query     string  false  "Work order ID"
// @Param        from           query     string  false  "From (RFC3339)"
// @Param        to             query     string  false  "To (RFC3339)"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Number of items per page (default 20)"
// @Success      200            {object}  response.Response{data=response.Page}
// @Failure      400            {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	p := pagination.Parse(c)
	orderID, err := optionalUUIDQuery(c, "work_order_id")
	if err != nil {
		respondError(c, err)
		return
	}
	from, err := optionalTimeQuery(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := optionalTimeQuery(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}

	txs, total, err := h.transactionService.ListTransactions(c.Request.Context(), service.TransactionListQuery{
		Type:        c.Query("type"),
		WorkOrderID: orderID,
		From:        from,
		To:          to,
		Page:        p.Page,
		Limit:       p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(txs, total)))
}
