package mapping

import (
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. Line items,
// payments and activities are mapped separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	var interval *string
	if d.RecurringInterval != nil {
		s := string(*d.RecurringInterval)
		interval = &s
	}
	return models.Invoice{
		InvoiceID:         d.InvoiceID,
		OwnerID:           d.OwnerID,
		InvoiceNumber:     d.InvoiceNumber,
		Status:            string(d.Status),
		ClientID:          d.ClientID,
		IssueDate:         d.IssueDate,
		DueDate:           d.DueDate,
		Subtotal:          d.Subtotal,
		TaxRate:           d.TaxRate,
		TaxAmount:         d.TaxAmount,
		DiscountAmount:    d.DiscountAmount,
		Total:             d.Total,
		AmountPaid:        d.AmountPaid,
		Currency:          d.Currency,
		Notes:             d.Notes,
		Terms:             d.Terms,
		SentAt:            d.SentAt,
		ViewedAt:          d.ViewedAt,
		PaidAt:            d.PaidAt,
		IsRecurring:       d.IsRecurring,
		RecurringInterval: interval,
		NextRecurringDate: d.NextRecurringDate,
		ViewToken:         d.ViewToken,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice without children.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	var interval *domain.RecurringInterval
	if m.RecurringInterval != nil {
		i := domain.RecurringInterval(*m.RecurringInterval)
		interval = &i
	}
	return domain.Invoice{
		InvoiceID:         m.InvoiceID,
		OwnerID:           m.OwnerID,
		InvoiceNumber:     m.InvoiceNumber,
		Status:            domain.InvoiceStatus(m.Status),
		ClientID:          m.ClientID,
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Subtotal:          m.Subtotal,
		TaxRate:           m.TaxRate,
		TaxAmount:         m.TaxAmount,
		DiscountAmount:    m.DiscountAmount,
		Total:             m.Total,
		AmountPaid:        m.AmountPaid,
		Currency:          m.Currency,
		Notes:             m.Notes,
		Terms:             m.Terms,
		SentAt:            m.SentAt,
		ViewedAt:          m.ViewedAt,
		PaidAt:            m.PaidAt,
		IsRecurring:       m.IsRecurring,
		RecurringInterval: interval,
		NextRecurringDate: m.NextRecurringDate,
		ViewToken:         m.ViewToken,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceWithClient converts a joined row, attaching a partial client snapshot.
func ToDomainInvoiceWithClient(m models.InvoiceWithClient) domain.Invoice {
	inv := ToDomainInvoice(m.Invoice)
	inv.Client = &domain.Client{
		ClientID: m.ClientID,
		OwnerID:  m.OwnerID,
		Name:     m.ClientName,
		Email:    m.ClientEmail,
		Company:  m.ClientCompany,
	}
	return inv
}

// ToDomainInvoiceSlice converts joined rows to domain invoices.
func ToDomainInvoiceSlice(ms []models.InvoiceWithClient) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceWithClient(m)
	}
	return ds
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:  d.LineItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
		SortOrder:   d.SortOrder,
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:  m.LineItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		SortOrder:   m.SortOrder,
	}
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		InvoiceID:     d.InvoiceID,
		Amount:        d.Amount,
		Method:        string(d.Method),
		TransactionID: d.TransactionID,
		Notes:         d.Notes,
		PaidAt:        d.PaidAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		InvoiceID:     m.InvoiceID,
		Amount:        m.Amount,
		Method:        domain.PaymentMethod(m.Method),
		TransactionID: m.TransactionID,
		Notes:         m.Notes,
		PaidAt:        m.PaidAt,
	}
}

// ToModelActivity converts a domain Activity to a model Activity
func ToModelActivity(d domain.Activity) models.Activity {
	return models.Activity{
		ActivityID:  d.ActivityID,
		InvoiceID:   d.InvoiceID,
		Action:      string(d.Action),
		Description: d.Description,
		Metadata:    d.Metadata,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainActivity converts a model Activity to a domain Activity
func ToDomainActivity(m models.Activity) domain.Activity {
	return domain.Activity{
		ActivityID:  m.ActivityID,
		InvoiceID:   m.InvoiceID,
		Action:      domain.ActivityAction(m.Action),
		Description: m.Description,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}
