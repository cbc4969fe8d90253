package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/investment-service/investment_service/internal/domain/entities"
	"github.com/investment-service/investment_service/internal/domain/services/investment"
	"github.com/investment-service/investment_service/pkg/logger"
)

// InvestmentHandlers serves the investment resource
type InvestmentHandlers struct {
	service *investment.Service
	logger  *logger.Logger
}

// NewInvestmentHandlers creates new investment handlers
func NewInvestmentHandlers(service *investment.Service, log *logger.Logger) *InvestmentHandlers {
	return &InvestmentHandlers{
		service: service,
		logger:  log,
	}
}

// ListInvestments returns every stored investment
// @Summary List investments
// @Description Returns all investments, an empty array when none exist
// @Tags investments
// @Produce json
// @Success 200 {array} entities.Investment
// @Failure 500 {object} entities.ErrorResponse
// @Router /investments [get]
func (h *InvestmentHandlers) ListInvestments(c *gin.Context) {
	investments, err := h.service.ListInvestments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, investments)
}

// GetInvestment returns one investment
// @Summary Get an investment
// @Tags investments
// @Produce json
// @Param id path int true "Investment ID"
// @Success 200 {object} entities.Investment
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /investments/{id} [get]
func (h *InvestmentHandlers) GetInvestment(c *gin.Context) {
	id, err := parseInvestmentID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	inv, err := h.service.GetInvestment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GetTVPI calculates the Total Value to Paid-In multiple of an investment
// @Summary Calculate TVPI
// @Description (current NAV + distributed capital) / committed capital
// @Tags investments
// @Produce json
// @Param id path int true "Investment ID"
// @Success 200 {object} entities.TVPIResult
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /investments/{id}/tvpi [get]
func (h *InvestmentHandlers) GetTVPI(c *gin.Context) {
	id, err := parseInvestmentID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.CalculateTVPI(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateInvestment stores a new investment
// @Summary Create an investment
// @Tags investments
// @Accept json
// @Produce json
// @Param investment body investment.CreateInvestmentInput true "Investment"
// @Success 201 {object} entities.Investment
// @Header 201 {string} Location "/api/investments/{id}"
// @Failure 400 {object} entities.ErrorResponse
// @Failure 413 {object} entities.ErrorResponse
// @Router /investments [post]
func (h *InvestmentHandlers) CreateInvestment(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.logger, entities.InvalidInvestment(
				fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit)))
			return
		}
		respondError(c, h.logger, entities.InvalidInvestment("Request body could not be read"))
		return
	}

	var input *investment.CreateInvestmentInput
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &input); err != nil {
			respondError(c, h.logger, entities.InvalidInvestment("Request body is not a valid investment"))
			return
		}
	}

	// input stays nil for an empty body or a JSON null
	inv, err := h.service.CreateInvestment(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/investments/%d", inv.ID))
	c.JSON(http.StatusCreated, inv)
}

// DeleteInvestment removes an investment
// @Summary Delete an investment
// @Tags investments
// @Param id path int true "Investment ID"
// @Success 204
// @Failure 400 {object} entities.ErrorResponse
// @Failure 404 {object} entities.ErrorResponse
// @Router /investments/{id} [delete]
func (h *InvestmentHandlers) DeleteInvestment(c *gin.Context) {
	id, err := parseInvestmentID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.service.DeleteInvestment(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
