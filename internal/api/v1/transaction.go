package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	ledger      service.LedgerService
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewTransactionHandler(ledger service.LedgerService, coordinator service.Coordinator, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger:      ledger,
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Query transactions
// @Description Lists person transactions by person, type or date range, newest first
// @Tags Transactions
// @Produce json
// @Param filter query types.TransactionFilter false "Filter"
// @Param lenient query bool false "Skip malformed records instead of failing"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) QueryTransactions(c *gin.Context) {
	filter := types.NewTransactionFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if c.Query("lenient") == "true" {
		filter.Mode = types.ReadModeLenient
	}

	resp, err := h.coordinator.QueryTransactions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	resp, err := h.ledger.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a transaction status
// @Description Settles or cancels a transaction. PENDING may become COMPLETED or CANCELLED, COMPLETED may become CANCELLED.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param status body dto.UpdateTransactionStatusRequest true "Status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /transactions/{id}/status [put]
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.ledger.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
