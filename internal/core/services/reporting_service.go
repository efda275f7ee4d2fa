package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/utils/invoicing"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         portssvc.ReportCache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache sets the cache that memoizes aggregates per owner.
func WithReportCache(c portssvc.ReportCache) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = c
	}
}

// WithReportingClock replaces the wall clock, mostly for tests.
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// GetDashboardStats returns the owner's headline figures.
func (s *reportingService) GetDashboardStats(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	now := s.Now()
	var stats domain.DashboardStats
	err := s.fetch(ctx, ownerID, &stats, func(invoices []domain.Invoice) any {
		return invoicing.Stats(invoices, now, invoicing.DefaultRecentInvoices)
	}, "dashboard", now.Format("2006-01"))
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetMonthlyRevenue returns paid revenue for the trailing months.
func (s *reportingService) GetMonthlyRevenue(ctx context.Context, ownerID string, months int) ([]domain.MonthlyRevenue, error) {
	if months <= 0 {
		months = invoicing.DefaultTrailingMonths
	}
	now := s.Now()
	var out []domain.MonthlyRevenue
	err := s.fetch(ctx, ownerID, &out, func(invoices []domain.Invoice) any {
		return invoicing.MonthlyRevenue(invoices, now, months)
	}, "monthly", now.Format("2006-01"), strconv.Itoa(months))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetRevenueByClient returns the top clients by paid revenue.
func (s *reportingService) GetRevenueByClient(ctx context.Context, ownerID string, top int) ([]domain.ClientRevenue, error) {
	if top <= 0 {
		top = invoicing.DefaultTopClients
	}
	var out []domain.ClientRevenue
	err := s.fetch(ctx, ownerID, &out, func(invoices []domain.Invoice) any {
		return invoicing.RevenueByClient(invoices, top)
	}, "clients", strconv.Itoa(top))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetReport returns every aggregate, computing the three views concurrently.
func (s *reportingService) GetReport(ctx context.Context, ownerID string, months, top int) (*domain.DashboardReport, error) {
	report := &domain.DashboardReport{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.GetDashboardStats(gctx, ownerID)
		if err != nil {
			return err
		}
		report.Stats = *stats
		return nil
	})
	g.Go(func() error {
		monthly, err := s.GetMonthlyRevenue(gctx, ownerID, months)
		if err != nil {
			return err
		}
		report.MonthlyRevenue = monthly
		return nil
	})
	g.Go(func() error {
		clients, err := s.GetRevenueByClient(gctx, ownerID, top)
		if err != nil {
			return err
		}
		report.RevenueByClient = clients
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// fetch serves an aggregate from the cache, computing it from the owner's invoices on a miss.
func (s *reportingService) fetch(ctx context.Context, ownerID string, dest any, compute func([]domain.Invoice) any, parts ...string) error {
	loader := func(ctx context.Context) (any, error) {
		invoices, err := s.reportingRepo.ListInvoicesForReport(ctx, ownerID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load invoices for report", slog.String("owner_id", ownerID))
			return nil, err
		}
		return compute(invoices), nil
	}
	if s.cache == nil {
		return assignDirect(ctx, dest, loader)
	}

	key, err := s.cache.BuildKey(ctx, ownerID, parts...)
	if err != nil {
		s.LogError(ctx, err, "Report cache unavailable, computing directly", slog.String("owner_id", ownerID))
		return assignDirect(ctx, dest, loader)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

// assignDirect runs loader and stores its result in dest without a cache round trip.
func assignDirect(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	switch d := dest.(type) {
	case *domain.DashboardStats:
		*d = value.(domain.DashboardStats)
	case *[]domain.MonthlyRevenue:
		*d = value.([]domain.MonthlyRevenue)
	case *[]domain.ClientRevenue:
		*d = value.([]domain.ClientRevenue)
	}
	return nil
}
