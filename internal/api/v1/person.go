package v1

import (
	"net/http"

	"github.com/dealerbook/dealerbook/internal/api/dto"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/gin-gonic/gin"
)

type PersonHandler struct {
	service service.PersonService
	log     *logger.Logger
}

func NewPersonHandler(service service.PersonService, log *logger.Logger) *PersonHandler {
	return &PersonHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a person
// @Description Creates a customer or broker
// @Tags Persons
// @Accept json
// @Produce json
// @Param person body dto.CreatePersonRequest true "Person"
// @Success 201 {object} dto.PersonResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /persons [post]
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePerson(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a person
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} dto.PersonResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /persons/{id} [get]
func (h *PersonHandler) GetPerson(c *gin.Context) {
	resp, err := h.service.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
