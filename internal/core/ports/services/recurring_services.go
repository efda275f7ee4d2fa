package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// RecurringSvcFacade defines recurring invoice scheduling and generation.
type RecurringSvcFacade interface {
	// GenerateFromRecurring clones a recurring invoice into a new DRAFT and advances the schedule.
	GenerateFromRecurring(ctx context.Context, ownerID, sourceInvoiceID string) (*domain.Invoice, error)

	// SweepDueRecurring generates invoices for every due recurring invoice across owners.
	// Item failures are reported, never returned.
	SweepDueRecurring(ctx context.Context, now time.Time) (domain.SweepReport, error)

	// ToggleRecurring turns the recurring schedule of an invoice on or off.
	ToggleRecurring(ctx context.Context, ownerID, invoiceID string, isRecurring bool, interval *domain.RecurringInterval) (*domain.Invoice, error)

	// ListRecurring lists an owner's recurring invoices ordered by next recurring date.
	ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error)
}
