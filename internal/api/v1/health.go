package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db     database.IClient
	logger *logger.Logger
}

func NewHealthHandler(
	db database.IClient,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// @Summary Health check
// @Description Reports whether the store is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ierr.ErrorResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Errorw("health check failed", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
