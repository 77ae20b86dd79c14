package v1

import (
	"net/http"

	"github.com/Bedotech/smartbook/internal/api/dto"
	"github.com/Bedotech/smartbook/internal/domain/report"
	ierr "github.com/Bedotech/smartbook/internal/errors"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service service.ReportingService
	logger  *logger.Logger
}

func NewReportHandler(service service.ReportingService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Monthly city tax report
// @Description Aggregate the month's calculations into the municipality report
// @Tags Reports
// @Accept json
// @Produce json
// @Param request query dto.MonthlyReportRequest true "Reporting period"
// @Param format query string false "Response format: json (default) or text"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/reports/monthly [get]
func (h *ReportHandler) MonthlyReport(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	r, err := h.service.MonthlyReport(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, r)
}

// @Summary Quarterly city tax report
// @Description Aggregate the quarter's calculations into the municipality report
// @Tags Reports
// @Accept json
// @Produce json
// @Param request query dto.QuarterlyReportRequest true "Reporting period"
// @Param format query string false "Response format: json (default) or text"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/reports/quarterly [get]
func (h *ReportHandler) QuarterlyReport(c *gin.Context) {
	var req dto.QuarterlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	r, err := h.service.QuarterlyReport(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, r)
}

// @Summary Booking detail report
// @Description One row per booking with the full exemption breakdown
// @Tags Reports
// @Accept json
// @Produce json
// @Param range query dto.DateRangeRequest true "Date range"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/reports/bookings [get]
func (h *ReportHandler) BookingDetailReport(c *gin.Context) {
	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	r, err := h.service.BookingDetailReport(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.respond(c, r)
}

// respond writes the report as JSON, or as the plain-text layout when
// format=text is requested
func (h *ReportHandler) respond(c *gin.Context, r *report.Report) {
	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.service.RenderText(r))
		return
	}
	c.JSON(http.StatusOK, &dto.ReportResponse{Report: r})
}
