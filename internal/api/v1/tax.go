package v1

import (
	"net/http"
	"time"

	"github.com/Bedotech/smartbook/internal/api/dto"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/service"
	"github.com/Bedotech/smartbook/internal/types"
	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	service service.TaxService
	logger  *logger.Logger
}

func NewTaxHandler(service service.TaxService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Create a tax rule
// @Description Create a city tax rule for a property
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param tax_rule body dto.CreateTaxRuleRequest true "Tax rule to create"
// @Success 201 {object} dto.TaxRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules [post]
func (h *TaxHandler) CreateTaxRule(c *gin.Context) {
	var req dto.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTaxRule(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a tax rule
// @Description Get a tax rule by ID
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param id path string true "Tax rule ID"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules/{id} [get]
func (h *TaxHandler) GetTaxRule(c *gin.Context) {
	resp, err := h.service.GetTaxRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List tax rules
// @Description List tax rules with optional filtering
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param filter query types.TaxRuleFilter true "Filter"
// @Success 200 {object} dto.ListTaxRulesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules [get]
func (h *TaxHandler) ListTaxRules(c *gin.Context) {
	var filter types.TaxRuleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTaxRules(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a tax rule
// @Description Update a tax rule
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param id path string true "Tax rule ID"
// @Param tax_rule body dto.UpdateTaxRuleRequest true "Tax rule fields to update"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules/{id} [put]
func (h *TaxHandler) UpdateTaxRule(c *gin.Context) {
	var req dto.UpdateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTaxRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a tax rule
// @Description Delete a tax rule
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param id path string true "Tax rule ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules/{id} [delete]
func (h *TaxHandler) DeleteTaxRule(c *gin.Context) {
	if err := h.service.DeleteTaxRule(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get the active tax rule
// @Description Get the tax rule valid on a date for a property
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param property_id query string false "Property ID"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules/active [get]
func (h *TaxHandler) GetActiveTaxRule(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Date must be in YYYY-MM-DD format").
				Mark(ierr.ErrValidation))
			return
		}
		date = parsed
	}

	propertyID := c.Query("property_id")
	if propertyID == "" {
		propertyID = types.GetPropertyID(c.Request.Context())
	}

	resp, err := h.service.GetActiveTaxRule(c.Request.Context(), propertyID, date)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Validate a tax rule configuration
// @Description Check a candidate tax rule for implausible values without storing it
// @Tags Tax Rules
// @Accept json
// @Produce json
// @Param tax_rule body dto.CreateTaxRuleRequest true "Tax rule to validate"
// @Success 200 {object} dto.ValidateTaxRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tax/rules/validate [post]
func (h *TaxHandler) ValidateTaxRule(c *gin.Context) {
	var req dto.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ValidateTaxRule(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate city tax for a booking
// @Description Compute the city tax owed by one booking using the rule valid at check-in
// @Tags Calculations
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CalculationResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/calculations/bookings/{id} [get]
func (h *TaxHandler) CalculateTaxForBooking(c *gin.Context) {
	resp, err := h.service.CalculateTaxForBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate city tax for a date range
// @Description Compute the city tax for every booking checking in within the range
// @Tags Calculations
// @Accept json
// @Produce json
// @Param range query dto.DateRangeRequest true "Date range"
// @Success 200 {object} dto.CalculationBatchResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/calculations [get]
func (h *TaxHandler) CalculateTaxForDateRange(c *gin.Context) {
	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateTaxForDateRange(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
