package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an owner's invoice with client, line items, payments and activities.
	GetInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of an owner's invoices.
	ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ListInvoicesForExport retrieves every invoice of an owner for the invoice register export.
	ListInvoicesForExport(ctx context.Context, ownerID string) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateInvoice computes totals, assigns the next number and persists a DRAFT invoice.
	CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)

	// UpdateInvoice edits a DRAFT invoice and recomputes its totals.
	UpdateInvoice(ctx context.Context, ownerID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)

	// DeleteInvoice removes a DRAFT invoice.
	DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error
}

// InvoiceLifecycleSvc defines the status transitions of an invoice
type InvoiceLifecycleSvc interface {
	// SendInvoice moves a DRAFT invoice to SENT and emails it. A delivery failure is returned
	// as emailErr alongside the persisted invoice.
	SendInvoice(ctx context.Context, ownerID, invoiceID string) (inv *domain.Invoice, emailErr error, err error)

	// ViewInvoice resolves a public view token and records the first view of a SENT invoice.
	ViewInvoice(ctx context.Context, viewToken string) (*domain.Invoice, *domain.User, error)

	// CancelInvoice moves a DRAFT or SENT invoice to CANCELLED.
	CancelInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)

	// RemindInvoice emails a payment reminder for an outstanding invoice.
	RemindInvoice(ctx context.Context, ownerID, invoiceID string, tone domain.ReminderTone) (*domain.Invoice, error)

	// MarkOverdue moves every outstanding invoice due before today to OVERDUE.
	// Item failures are reported, never returned.
	MarkOverdue(ctx context.Context, today time.Time) (domain.SweepReport, error)
}

// InvoicePaymentSvc defines payment recording on invoices
type InvoicePaymentSvc interface {
	// RecordPayment applies a payment to an invoice and returns the updated invoice.
	RecordPayment(ctx context.Context, ownerID, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
// This is a facade for clients that need access to all operations
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
	InvoicePaymentSvc
}
