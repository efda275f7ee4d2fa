package pgsql

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// ListInvoicesForReport returns every invoice of an owner with its client snapshot.
// Children are not loaded; the aggregates only need header fields.
func (r *PgxInvoiceRepository) ListInvoicesForReport(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, `SELECT `+invoiceColumns+invoiceFrom+`
		WHERE i.owner_id = $1
		ORDER BY i.created_at DESC;`, ownerID)
}
