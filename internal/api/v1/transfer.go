package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewTransferHandler(coordinator service.Coordinator, log *logger.Logger) *TransferHandler {
	return &TransferHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Transfer funds
// @Description Moves an amount between two capital accounts or persons
// @Tags Transfers
// @Accept json
// @Produce json
// @Param transfer body dto.TransferFundsRequest true "Transfer"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /transfers [post]
func (h *TransferHandler) TransferFunds(c *gin.Context) {
	var req dto.TransferFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.TransferFunds(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
