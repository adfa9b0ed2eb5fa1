package v1

import (
	"net/http"
	"strconv"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	capital     service.CapitalService
	coordinator service.Coordinator
	log         *logger.Logger
}

func NewAccountHandler(capital service.CapitalService, coordinator service.Coordinator, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		capital:     capital,
		coordinator: coordinator,
		log:         log,
	}
}

// @Summary List capital accounts
// @Description Lists the Cash, Bank and Credit accounts with their balances
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	resp, err := h.capital.ListAccounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List account entries
// @Description Lists the entries of a capital account, newest first
// @Tags Accounts
// @Produce json
// @Param name path string true "Account name"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{name}/entries [get]
func (h *AccountHandler) ListEntries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.Error(ierr.NewError("invalid limit").
				WithHint("Limit must be a non-negative integer").
				Mark(ierr.ErrValidation))
			return
		}
		limit = parsed
	}

	resp, err := h.capital.ListEntries(c.Request.Context(), types.AccountName(c.Param("name")), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Set an account balance
// @Description Overrides the balance of a capital account; the difference is logged as an adjustment entry
// @Tags Accounts
// @Accept json
// @Produce json
// @Param name path string true "Account name"
// @Param balance body dto.SetAccountBalanceRequest true "Balance"
// @Success 200 {object} dto.SetAccountBalanceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /accounts/{name}/balance [put]
func (h *AccountHandler) SetAccountBalance(c *gin.Context) {
	var req dto.SetAccountBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.coordinator.SetAccountBalance(c.Request.Context(), types.AccountName(c.Param("name")), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
