package services

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// ReportingService defines operations for the dashboard and report views
type ReportingService interface {
	// GetDashboardStats returns the owner's revenue, outstanding and overdue totals.
	GetDashboardStats(ctx context.Context, ownerID string) (*domain.DashboardStats, error)

	// GetMonthlyRevenue returns paid revenue for the trailing months, oldest first.
	GetMonthlyRevenue(ctx context.Context, ownerID string, months int) ([]domain.MonthlyRevenue, error)

	// GetRevenueByClient returns the top clients by paid revenue.
	GetRevenueByClient(ctx context.Context, ownerID string, top int) ([]domain.ClientRevenue, error)

	// GetReport returns every aggregate at once.
	GetReport(ctx context.Context, ownerID string, months, top int) (*domain.DashboardReport, error)
}
