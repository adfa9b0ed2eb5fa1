package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewPurchaseHandler(coordinator service.Coordinator, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Record a purchase
// @Description Records a vehicle purchase: issues an order number, debits the paying accounts, takes the vehicle into stock and logs the transaction
// @Tags Purchases
// @Accept json
// @Produce json
// @Param purchase body dto.RecordPurchaseRequest true "Purchase"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /purchases [post]
func (h *PurchaseHandler) RecordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.RecordPurchase(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
