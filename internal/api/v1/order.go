package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewOrderHandler(coordinator service.Coordinator, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Latest order number
// @Description Returns the last order number issued to a purchase or sale, 0 when none
// @Tags Orders
// @Produce json
// @Success 200 {object} dto.OrderNumberResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /orders/next-number [get]
func (h *OrderHandler) GetNextOrderNumber(c *gin.Context) {
	resp, err := h.coordinator.NextOrderNumber(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
