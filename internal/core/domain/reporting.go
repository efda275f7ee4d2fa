package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCounts holds the number of invoices per lifecycle status.
type StatusCounts struct {
	Draft         int `json:"draft"`
	Sent          int `json:"sent"`
	Viewed        int `json:"viewed"`
	PartiallyPaid int `json:"partiallyPaid"`
	Paid          int `json:"paid"`
	Overdue       int `json:"overdue"`
	Cancelled     int `json:"cancelled"`
	Total         int `json:"total"`
}

// Add counts one invoice in status s.
func (c *StatusCounts) Add(s InvoiceStatus) {
	switch s {
	case StatusDraft:
		c.Draft++
	case StatusSent:
		c.Sent++
	case StatusViewed:
		c.Viewed++
	case StatusPartiallyPaid:
		c.PartiallyPaid++
	case StatusPaid:
		c.Paid++
	case StatusOverdue:
		c.Overdue++
	case StatusCancelled:
		c.Cancelled++
	}
	c.Total++
}

// InvoiceSummary is the compact row shown in recent invoice lists.
type InvoiceSummary struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientID      string          `json:"clientID"`
	ClientName    string          `json:"clientName,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DashboardStats summarises an owner's invoices.
type DashboardStats struct {
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	Outstanding    decimal.Decimal  `json:"outstanding"`
	Overdue        decimal.Decimal  `json:"overdue"`
	PaidThisMonth  decimal.Decimal  `json:"paidThisMonth"`
	InvoiceCount   StatusCounts     `json:"invoiceCount"`
	RecentInvoices []InvoiceSummary `json:"recentInvoices"`
}

// MonthlyRevenue is the paid revenue of one calendar month.
type MonthlyRevenue struct {
	Month    string          `json:"month"` // e.g. "Jan 2024"
	Start    time.Time       `json:"start"`
	Revenue  decimal.Decimal `json:"revenue"`
	Invoices int             `json:"invoices"`
}

// ClientRevenue is the paid revenue attributed to one client.
type ClientRevenue struct {
	ClientID string          `json:"clientID"`
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
	Invoices int             `json:"invoices"`
}

// DashboardReport bundles every read-side aggregate.
type DashboardReport struct {
	Stats           DashboardStats   `json:"stats"`
	MonthlyRevenue  []MonthlyRevenue `json:"monthlyRevenue"`
	RevenueByClient []ClientRevenue  `json:"revenueByClient"`
}

// SweepFailure records one invoice a batch sweep could not process.
type SweepFailure struct {
	InvoiceID     string `json:"invoiceID"`
	InvoiceNumber string `json:"invoiceNumber"`
	Error         string `json:"error"`
}

// SweepReport is the outcome of a best-effort batch over invoices.
type SweepReport struct {
	Processed int            `json:"processed"`
	Succeeded []string       `json:"succeeded"` // IDs of invoices created or updated
	Failures  []SweepFailure `json:"failures"`
}
