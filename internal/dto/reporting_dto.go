package dto

import (
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// ReportParams defines query parameters for the reports endpoint.
type ReportParams struct {
	Months int `form:"months,default=6" binding:"min=1,max=24"`
	Top    int `form:"top,default=5" binding:"min=1,max=50"`
}

// ReportsResponse represents the reports page: revenue over time, by client and the status breakdown.
type ReportsResponse struct {
	MonthlyRevenue  []domain.MonthlyRevenue `json:"monthlyRevenue"`
	RevenueByClient []domain.ClientRevenue  `json:"revenueByClient"`
	StatusBreakdown domain.StatusCounts     `json:"statusBreakdown"`
}

// ToReportsResponse flattens a dashboard report into the reports page shape.
func ToReportsResponse(r *domain.DashboardReport) ReportsResponse {
	return ReportsResponse{
		MonthlyRevenue:  r.MonthlyRevenue,
		RevenueByClient: r.RevenueByClient,
		StatusBreakdown: r.Stats.InvoiceCount,
	}
}
