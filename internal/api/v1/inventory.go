package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewInventoryHandler(coordinator service.Coordinator, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary Get an inventory summary
// @Description Stock counts per item for one brand and category
// @Tags Inventory
// @Produce json
// @Param id path string true "Summary ID"
// @Success 200 {object} dto.SummaryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /inventory/summaries/{id} [get]
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	resp, err := h.coordinator.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
