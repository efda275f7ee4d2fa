package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/utils"
	"github.com/SscSPs/invoice_flow_app/internal/utils/invoicing"
)

// recurringService implements the RecurringSvcFacade interface
type recurringService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	cache        portssvc.ReportCache
	numberPrefix string
	concurrency  int
}

// RecurringServiceOption is a functional option for configuring the recurring service
type RecurringServiceOption func(*recurringService)

// WithRecurringReportCache sets the report cache bumped after generation.
func WithRecurringReportCache(c portssvc.ReportCache) RecurringServiceOption {
	return func(s *recurringService) {
		s.cache = c
	}
}

// WithRecurringNumberPrefix overrides the invoice number prefix of generated invoices.
func WithRecurringNumberPrefix(prefix string) RecurringServiceOption {
	return func(s *recurringService) {
		if prefix != "" {
			s.numberPrefix = prefix
		}
	}
}

// WithRecurringConcurrency bounds how many invoices a sweep generates at once.
func WithRecurringConcurrency(n int) RecurringServiceOption {
	return func(s *recurringService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRecurringClock replaces the wall clock, mostly for tests.
func WithRecurringClock(clock func() time.Time) RecurringServiceOption {
	return func(s *recurringService) {
		s.clock = clock
	}
}

// NewRecurringService creates a new recurring invoice service with the provided options
func NewRecurringService(invoiceRepo portsrepo.InvoiceRepositoryFacade, options ...RecurringServiceOption) portssvc.RecurringSvcFacade {
	svc := &recurringService{
		invoiceRepo:  invoiceRepo,
		numberPrefix: invoicing.DefaultInvoicePrefix,
		concurrency:  4,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// GenerateFromRecurring clones a recurring invoice into a new DRAFT.
func (s *recurringService) GenerateFromRecurring(ctx context.Context, ownerID, sourceInvoiceID string) (*domain.Invoice, error) {
	src, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, sourceInvoiceID)
	if err != nil {
		return nil, err
	}
	generated, err := s.generate(ctx, *src, s.Now(), false)
	if err != nil {
		return nil, err
	}
	s.bumpReports(ctx, ownerID)
	return generated, nil
}

// SweepDueRecurring generates the successor of every due recurring invoice. Each source is
// processed on its own; one failing source never stops the others.
func (s *recurringService) SweepDueRecurring(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	due, err := s.invoiceRepo.ListDueRecurring(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due recurring invoices")
		return domain.SweepReport{}, err
	}

	report := domain.SweepReport{Processed: len(due)}
	owners := make(map[string]struct{})
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i := range due {
		src := due[i]
		g.Go(func() error {
			generated, err := s.generate(ctx, src, now, true)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.LogError(ctx, err, "Failed to generate recurring invoice",
					slog.String("source_invoice_id", src.InvoiceID),
					slog.String("source_invoice_number", src.InvoiceNumber))
				report.Failures = append(report.Failures, domain.SweepFailure{
					InvoiceID: src.InvoiceID, InvoiceNumber: src.InvoiceNumber, Error: err.Error(),
				})
				return nil
			}
			report.Succeeded = append(report.Succeeded, generated.InvoiceID)
			owners[src.OwnerID] = struct{}{}
			return nil
		})
	}
	_ = g.Wait()

	for ownerID := range owners {
		s.bumpReports(ctx, ownerID)
	}
	sortReport(&report)
	s.LogInfo(ctx, "Recurring sweep finished",
		slog.Int("processed", report.Processed),
		slog.Int("generated", len(report.Succeeded)),
		slog.Int("failed", len(report.Failures)))
	return report, nil
}

// ToggleRecurring turns the recurring schedule of an invoice on or off. Turning it on schedules
// the next invoice one interval after the issue date.
func (s *recurringService) ToggleRecurring(ctx context.Context, ownerID, invoiceID string, isRecurring bool, interval *domain.RecurringInterval) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.StatusCancelled {
		return nil, apperrors.NewInvalidStateError("cancelled invoices cannot recur")
	}

	if isRecurring {
		if interval == nil {
			interval = inv.RecurringInterval
		}
		if interval == nil || !interval.IsValid() {
			return nil, apperrors.NewValidationFailedError("a valid recurring interval is required")
		}
		inv.IsRecurring = true
		inv.RecurringInterval = interval
		if err := scheduleFrom(inv, inv.IssueDate); err != nil {
			return nil, err
		}
	} else {
		inv.IsRecurring = false
		inv.RecurringInterval = nil
		inv.NextRecurringDate = nil
	}

	now := s.Now()
	inv.Touch(ownerID, now)
	activity := domain.NewActivity(inv.InvoiceID, domain.ActivityUpdated, recurringDescription(inv),
		map[string]any{"isRecurring": inv.IsRecurring}, now)
	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv, &activity); err != nil {
		s.LogError(ctx, err, "Failed to update recurring schedule", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	inv.Version++
	inv.Activities = append(inv.Activities, activity)
	return inv, nil
}

// ListRecurring lists an owner's recurring invoices.
func (s *recurringService) ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListRecurring(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring invoices", slog.String("owner_id", ownerID))
		return nil, err
	}
	return invoices, nil
}

// generate builds the successor of src and stores it together with the cleared source schedule.
// A manual generation works on any recurring source; the sweep only claims scheduled ones.
func (s *recurringService) generate(ctx context.Context, src domain.Invoice, now time.Time, requireScheduled bool) (*domain.Invoice, error) {
	if !src.IsRecurring || src.RecurringInterval == nil {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invoice %s is not recurring", src.InvoiceNumber))
	}
	next, err := invoicing.NextOccurrence(now, *src.RecurringInterval)
	if err != nil {
		return nil, err
	}

	gen := cloneForRecurrence(src, now)
	gen.NextRecurringDate = &next
	if gen.ViewToken, err = utils.NewViewToken(); err != nil {
		return nil, fmt.Errorf("failed to generate view token: %w", err)
	}

	source := src
	source.NextRecurringDate = nil
	source.LastUpdatedAt = now

	for attempt := 0; ; attempt++ {
		last, err := s.invoiceRepo.LastInvoiceNumber(ctx, src.OwnerID)
		if err != nil {
			return nil, err
		}
		gen.InvoiceNumber = invoicing.NextInvoiceNumber(s.numberPrefix, invoicing.ParseSequence(last), now)
		activity := domain.NewActivity(gen.InvoiceID, domain.ActivityCreated,
			fmt.Sprintf("Invoice %s generated from recurring invoice %s", gen.InvoiceNumber, src.InvoiceNumber),
			map[string]any{"generatedFrom": src.InvoiceNumber}, now)

		err = s.invoiceRepo.SaveGenerated(ctx, source, gen, activity, requireScheduled)
		if err == nil {
			gen.Activities = []domain.Activity{activity}
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) || attempt >= maxNumberRetries {
			return nil, err
		}
	}

	s.LogInfo(ctx, "Recurring invoice generated",
		slog.String("source_invoice_id", src.InvoiceID),
		slog.String("invoice_id", gen.InvoiceID),
		slog.String("invoice_number", gen.InvoiceNumber))
	return &gen, nil
}

// cloneForRecurrence copies the billable content of src into a fresh DRAFT issued at now.
// The due date keeps the source's payment window.
func cloneForRecurrence(src domain.Invoice, now time.Time) domain.Invoice {
	gen := domain.Invoice{
		InvoiceID:         uuid.NewString(),
		OwnerID:           src.OwnerID,
		Status:            domain.StatusDraft,
		ClientID:          src.ClientID,
		Client:            src.Client,
		IssueDate:         now,
		Subtotal:          src.Subtotal,
		TaxRate:           src.TaxRate,
		TaxAmount:         src.TaxAmount,
		DiscountAmount:    src.DiscountAmount,
		Total:             src.Total,
		AmountPaid:        decimal.Zero,
		Currency:          src.Currency,
		Notes:             src.Notes,
		Terms:             src.Terms,
		IsRecurring:       true,
		RecurringInterval: src.RecurringInterval,
		AuditFields:       domain.NewAuditFields(src.OwnerID, now),
	}
	if src.DueDate != nil {
		due := now.Add(src.DueDate.Sub(src.IssueDate))
		gen.DueDate = &due
	}
	gen.LineItems = make([]domain.LineItem, len(src.LineItems))
	for i, item := range src.LineItems {
		item.LineItemID = uuid.NewString()
		item.InvoiceID = gen.InvoiceID
		gen.LineItems[i] = item
	}
	return gen
}

func recurringDescription(inv *domain.Invoice) string {
	if !inv.IsRecurring {
		return "Recurring schedule turned off"
	}
	return fmt.Sprintf("Recurring schedule set to %s, next invoice on %s",
		*inv.RecurringInterval, inv.NextRecurringDate.Format("2006-01-02"))
}

func (s *recurringService) bumpReports(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, ownerID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache", slog.String("owner_id", ownerID))
	}
}
