package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// InvoiceListFilter narrows an owner's invoice listing.
type InvoiceListFilter struct {
	Status   *domain.InvoiceStatus
	ClientID *string
}

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an owner's invoice with its client, line items, payments and activities.
	FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByViewToken retrieves an invoice through its public view token.
	FindInvoiceByViewToken(ctx context.Context, viewToken string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of an owner's invoices using token-based pagination,
	// newest first. It returns the invoices, a token for the next page, and an error.
	ListInvoices(ctx context.Context, ownerID string, filter InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// FindInvoiceOwnerID resolves the owner of an invoice. Used where only the invoice ID is known,
	// such as payment gateway webhooks.
	FindInvoiceOwnerID(ctx context.Context, invoiceID string) (string, error)

	// LastInvoiceNumber returns the most recently assigned invoice number of an owner, or "" if none.
	LastInvoiceNumber(ctx context.Context, ownerID string) (string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice with its line items and its creation activity.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error

	// UpdateInvoice replaces an invoice row and its line items, guarded by the version column.
	// The optional activity is appended in the same transaction. Returns ErrConflict when the version is stale.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, activity *domain.Activity) error

	// SaveTransition stores the status and lifecycle timestamps of an invoice together with the
	// transition's activity, guarded by the version column.
	SaveTransition(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error

	// ApplyPayment stores the invoice money and status fields, the payment and its activity
	// atomically, guarded by the version column.
	ApplyPayment(ctx context.Context, invoice domain.Invoice, payment domain.Payment, activity domain.Activity) error

	// AppendActivity adds an audit entry without touching the invoice row.
	AppendActivity(ctx context.Context, activity domain.Activity) error

	// DeleteInvoice removes an invoice and everything attached to it.
	DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error
}

// RecurringInvoiceStore defines the operations behind recurring invoice generation.
type RecurringInvoiceStore interface {
	// ListDueRecurring returns recurring invoices of every owner whose next recurring date is at or before now
	// and whose status is SENT or PAID.
	ListDueRecurring(ctx context.Context, now time.Time) ([]domain.Invoice, error)

	// ListRecurring returns an owner's recurring invoices ordered by next recurring date.
	ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error)

	// SaveGenerated inserts the generated invoice and clears the source's next recurring date
	// in one transaction. With requireScheduled set, the source must still have a next date
	// or ErrConflict is returned; the sweep uses it so a source is generated at most once.
	SaveGenerated(ctx context.Context, source domain.Invoice, generated domain.Invoice, activity domain.Activity, requireScheduled bool) error
}

// OverdueCandidateReader finds invoices that may have passed their due date.
type OverdueCandidateReader interface {
	// ListOverdueCandidates returns SENT, VIEWED and PARTIALLY_PAID invoices due before today.
	ListOverdueCandidates(ctx context.Context, today time.Time) ([]domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
// This is a facade for clients that need access to all operations
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	RecurringInvoiceStore
	OverdueCandidateReader
	ReportingRepository
}
