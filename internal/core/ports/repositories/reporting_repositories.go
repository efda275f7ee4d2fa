package repositories

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving report data
type ReportingRepository interface {
	// ListInvoicesForReport returns every invoice of an owner with its client snapshot,
	// without line items, payments or activities.
	ListInvoicesForReport(ctx context.Context, ownerID string) ([]domain.Invoice, error)
}
