package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewSaleHandler(coordinator service.Coordinator, log *logger.Logger) *SaleHandler {
	return &SaleHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Record a sale
// @Description Sells an in-stock vehicle, paid in full or through installments
// @Tags Sales
// @Accept json
// @Produce json
// @Param sale body dto.RecordSaleRequest true "Sale"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sales [post]
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.RecordSale(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a sale
// @Description Get a sale with its installment schedule and overdue flag
// @Tags Sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("sale ID is required").
			WithHint("Sale ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.GetSale(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record an installment payment
// @Description Pays the next installment of an EMI sale and credits the receiving accounts
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param payment body dto.RecordEmiPaymentRequest true "Payment"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sales/{id}/emi-payments [post]
func (h *SaleHandler) RecordEmiPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("sale ID is required").
			WithHint("Sale ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.RecordEmiPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.RecordEmiPayment(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
