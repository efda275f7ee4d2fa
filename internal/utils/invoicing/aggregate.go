package invoicing

import (
	"sort"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultTrailingMonths = 6
	DefaultTopClients     = 5
	DefaultRecentInvoices = 5
)

// StartOfMonth returns the first instant of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Stats computes the dashboard summary over a snapshot of invoices.
func Stats(invoices []domain.Invoice, now time.Time, recent int) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalRevenue:  decimal.Zero,
		Outstanding:   decimal.Zero,
		Overdue:       decimal.Zero,
		PaidThisMonth: decimal.Zero,
	}
	monthStart := StartOfMonth(now)

	for i := range invoices {
		inv := &invoices[i]
		stats.InvoiceCount.Add(inv.Status)
		switch {
		case inv.Status == domain.StatusPaid:
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.Total)
			if inv.PaidAt != nil && !inv.PaidAt.Before(monthStart) {
				stats.PaidThisMonth = stats.PaidThisMonth.Add(inv.Total)
			}
		case inv.Status.IsOutstanding():
			stats.Outstanding = stats.Outstanding.Add(inv.Total)
		case inv.Status == domain.StatusOverdue:
			stats.Overdue = stats.Overdue.Add(inv.Total)
		}
	}
	stats.RecentInvoices = RecentInvoices(invoices, recent)
	return stats
}

// RecentInvoices returns up to limit invoice summaries, newest first by creation time.
func RecentInvoices(invoices []domain.Invoice, limit int) []domain.InvoiceSummary {
	sorted := make([]*domain.Invoice, 0, len(invoices))
	for i := range invoices {
		sorted = append(sorted, &invoices[i])
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]domain.InvoiceSummary, 0, len(sorted))
	for _, inv := range sorted {
		out = append(out, Summarize(inv))
	}
	return out
}

// Summarize projects an invoice onto its list row.
func Summarize(inv *domain.Invoice) domain.InvoiceSummary {
	s := domain.InvoiceSummary{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		Status:        inv.Status,
		Total:         inv.Total,
		Currency:      inv.Currency,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
	}
	if inv.Client != nil {
		s.ClientName = inv.Client.Name
	}
	return s
}

// MonthlyRevenue buckets paid invoices by the month of PaidAt over the
// trailing months ending with now's month, oldest first.
func MonthlyRevenue(invoices []domain.Invoice, now time.Time, months int) []domain.MonthlyRevenue {
	if months <= 0 {
		months = DefaultTrailingMonths
	}
	current := StartOfMonth(now)
	buckets := make([]domain.MonthlyRevenue, months)
	for i := 0; i < months; i++ {
		start := current.AddDate(0, i-(months-1), 0)
		buckets[i] = domain.MonthlyRevenue{
			Month:   start.Format("Jan 2006"),
			Start:   start,
			Revenue: decimal.Zero,
		}
	}
	first := buckets[0].Start
	end := current.AddDate(0, 1, 0)

	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != domain.StatusPaid || inv.PaidAt == nil {
			continue
		}
		paid := inv.PaidAt.In(now.Location())
		if paid.Before(first) || !paid.Before(end) {
			continue
		}
		idx := (paid.Year()-first.Year())*12 + int(paid.Month()) - int(first.Month())
		buckets[idx].Revenue = buckets[idx].Revenue.Add(inv.Total)
		buckets[idx].Invoices++
	}
	return buckets
}

// RevenueByClient ranks clients by paid revenue and keeps the top n.
// Ties are ordered by client ID.
func RevenueByClient(invoices []domain.Invoice, n int) []domain.ClientRevenue {
	if n <= 0 {
		n = DefaultTopClients
	}
	byClient := make(map[string]*domain.ClientRevenue)
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != domain.StatusPaid {
			continue
		}
		cr, ok := byClient[inv.ClientID]
		if !ok {
			cr = &domain.ClientRevenue{ClientID: inv.ClientID, Name: inv.ClientID, Revenue: decimal.Zero}
			if inv.Client != nil && inv.Client.Name != "" {
				cr.Name = inv.Client.Name
			}
			byClient[inv.ClientID] = cr
		}
		cr.Revenue = cr.Revenue.Add(inv.Total)
		cr.Invoices++
	}

	out := make([]domain.ClientRevenue, 0, len(byClient))
	for _, cr := range byClient {
		out = append(out, *cr)
	}
	sort.Slice(out, func(a, b int) bool {
		if cmp := out[a].Revenue.Cmp(out[b].Revenue); cmp != 0 {
			return cmp > 0
		}
		return out[a].ClientID < out[b].ClientID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Aggregate builds every dashboard aggregate in one pass over the snapshot.
func Aggregate(invoices []domain.Invoice, now time.Time, months, topClients int) domain.DashboardReport {
	return domain.DashboardReport{
		Stats:           Stats(invoices, now, DefaultRecentInvoices),
		MonthlyRevenue:  MonthlyRevenue(invoices, now, months),
		RevenueByClient: RevenueByClient(invoices, topClients),
	}
}
