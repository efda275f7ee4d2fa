package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the dashboard and revenue reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the dashboard and report routes
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/dashboard", h.getDashboard)
	rg.GET("/reports", h.getReports)
}

// getDashboard godoc
// @Summary Get dashboard statistics
// @Description Returns revenue, outstanding and overdue totals, invoice counts by status and the most recent invoices.
// @Tags reports
// @Produce  json
// @Success 200 {object} domain.DashboardStats
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to load dashboard"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	stats, err := h.reportingService.GetDashboardStats(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getReports godoc
// @Summary Get revenue reports
// @Description Returns paid revenue per month, the top clients by revenue and the invoice status breakdown.
// @Tags reports
// @Produce  json
// @Param   months query int false "Trailing months" default(6)
// @Param   top query int false "Number of clients" default(5)
// @Success 200 {object} dto.ReportsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to generate reports"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportingHandler) getReports(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Generating reports", slog.Int("months", params.Months), slog.Int("top", params.Top))

	report, err := h.reportingService.GetReport(c.Request.Context(), owner, params.Months, params.Top)
	if err != nil {
		respondError(c, err, "Failed to generate reports")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportsResponse(report))
}
