package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/utils"
	"github.com/SscSPs/invoice_flow_app/internal/utils/invoicing"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	invoiceRepo      portsrepo.InvoiceRepositoryFacade
	clientRepo       portsrepo.ClientReader
	userRepo         portsrepo.UserReader
	notifier         portssvc.Notifier
	cache            portssvc.ReportCache
	numberPrefix     string
	sweepConcurrency int
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceNotifier sets the email notifier used for send, remind and payment confirmations.
func WithInvoiceNotifier(n portssvc.Notifier) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.notifier = n
	}
}

// WithInvoiceReportCache sets the report cache bumped on every invoice mutation.
func WithInvoiceReportCache(c portssvc.ReportCache) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.cache = c
	}
}

// WithInvoiceNumberPrefix overrides the invoice number prefix.
func WithInvoiceNumberPrefix(prefix string) InvoiceServiceOption {
	return func(s *invoiceService) {
		if prefix != "" {
			s.numberPrefix = prefix
		}
	}
}

// WithInvoiceSweepConcurrency bounds how many invoices the overdue sweep processes at once.
func WithInvoiceSweepConcurrency(n int) InvoiceServiceOption {
	return func(s *invoiceService) {
		if n > 0 {
			s.sweepConcurrency = n
		}
	}
}

// WithInvoiceClock replaces the wall clock, mostly for tests.
func WithInvoiceClock(clock func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.clock = clock
	}
}

// NewInvoiceService creates a new invoice service with the provided options
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, clientRepo portsrepo.ClientReader, userRepo portsrepo.UserReader, options ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo:      invoiceRepo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		numberPrefix:     invoicing.DefaultInvoicePrefix,
		sweepConcurrency: 4,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// GetInvoiceByID retrieves an owner's invoice.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return inv, nil
}

// ListInvoices retrieves a page of an owner's invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	filter := portsrepo.InvoiceListFilter{}
	if params.Status != "" {
		status := domain.InvoiceStatus(params.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationFailedError("unknown invoice status " + params.Status)
		}
		filter.Status = &status
	}
	if params.ClientID != "" {
		clientID := params.ClientID
		filter.ClientID = &clientID
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, ownerID, filter, params.Limit, token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("owner_id", ownerID))
		return nil, err
	}
	resp := dto.ToListInvoicesResponse(invoices, next)
	return &resp, nil
}

// ListInvoicesForExport retrieves every invoice of an owner.
func (s *invoiceService) ListInvoicesForExport(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoicesForReport(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for export", slog.String("owner_id", ownerID))
		return nil, err
	}
	return invoices, nil
}

// CreateInvoice computes totals, assigns the next invoice number and stores a DRAFT invoice.
func (s *invoiceService) CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	client, err := s.clientRepo.FindClientByID(ctx, ownerID, req.ClientID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	inv := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OwnerID:        ownerID,
		Status:         domain.StatusDraft,
		ClientID:       client.ClientID,
		Client:         client,
		IssueDate:      now,
		DueDate:        req.DueDate,
		TaxRate:        req.TaxRate,
		DiscountAmount: decimal.Zero,
		AmountPaid:     decimal.Zero,
		Notes:          req.Notes,
		Terms:          req.Terms,
		IsRecurring:    req.IsRecurring,
		AuditFields:    domain.NewAuditFields(ownerID, now),
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DiscountAmount != nil {
		inv.DiscountAmount = *req.DiscountAmount
	}

	inv.Currency, err = s.resolveCurrency(ctx, ownerID, req.Currency)
	if err != nil {
		return nil, err
	}
	if err := s.applyLineItems(&inv, req.LineItems); err != nil {
		return nil, err
	}
	if req.IsRecurring {
		inv.RecurringInterval = req.RecurringInterval
		if err := scheduleFrom(&inv, inv.IssueDate); err != nil {
			return nil, err
		}
	} else if req.RecurringInterval != nil {
		return nil, apperrors.NewValidationFailedError("recurring interval given for a non-recurring invoice")
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	inv.ViewToken, err = utils.NewViewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate view token: %w", err)
	}

	for attempt := 0; ; attempt++ {
		last, err := s.invoiceRepo.LastInvoiceNumber(ctx, ownerID)
		if err != nil {
			s.LogError(ctx, err, "Failed to read last invoice number", slog.String("owner_id", ownerID))
			return nil, err
		}
		inv.InvoiceNumber = invoicing.NextInvoiceNumber(s.numberPrefix, invoicing.ParseSequence(last), now)
		activity := domain.NewActivity(inv.InvoiceID, domain.ActivityCreated,
			fmt.Sprintf("Invoice %s created", inv.InvoiceNumber), nil, now)

		err = s.invoiceRepo.SaveInvoice(ctx, inv, activity)
		if err == nil {
			inv.Activities = []domain.Activity{activity}
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) || attempt >= maxNumberRetries {
			s.LogError(ctx, err, "Failed to save invoice", slog.String("owner_id", ownerID))
			return nil, err
		}
		s.LogDebug(ctx, "Invoice number taken, renumbering", slog.String("invoice_number", inv.InvoiceNumber))
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("total", inv.Total.StringFixed(2)))
	s.bumpReports(ctx, ownerID)
	return &inv, nil
}

// UpdateInvoice edits a DRAFT invoice and recomputes its totals.
func (s *invoiceService) UpdateInvoice(ctx context.Context, ownerID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.StatusDraft {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("only draft invoices can be edited, invoice %s is %s", inv.InvoiceNumber, inv.Status))
	}

	if req.ClientID != nil && *req.ClientID != inv.ClientID {
		client, err := s.clientRepo.FindClientByID(ctx, ownerID, *req.ClientID)
		if err != nil {
			return nil, err
		}
		inv.ClientID = client.ClientID
		inv.Client = client
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.TaxRate != nil {
		inv.TaxRate = req.TaxRate
	}
	if req.DiscountAmount != nil {
		inv.DiscountAmount = *req.DiscountAmount
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}
	if req.Terms != nil {
		inv.Terms = req.Terms
	}

	items := req.LineItems
	if items == nil {
		items = lineItemRequests(inv.LineItems)
	}
	if err := s.applyLineItems(inv, items); err != nil {
		return nil, err
	}

	if req.IsRecurring != nil {
		inv.IsRecurring = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		inv.RecurringInterval = req.RecurringInterval
	}
	if inv.IsRecurring {
		if err := scheduleFrom(inv, inv.IssueDate); err != nil {
			return nil, err
		}
	} else {
		inv.RecurringInterval = nil
		inv.NextRecurringDate = nil
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	inv.Touch(ownerID, now)
	activity := domain.NewActivity(inv.InvoiceID, domain.ActivityUpdated, "Invoice updated", nil, now)
	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv, &activity); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	inv.Version++
	inv.Activities = append(inv.Activities, activity)
	s.bumpReports(ctx, ownerID)
	return inv, nil
}

// DeleteInvoice removes a DRAFT invoice.
func (s *invoiceService) DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != domain.StatusDraft {
		return apperrors.NewInvalidStateError(fmt.Sprintf("only draft invoices can be deleted, invoice %s is %s", inv.InvoiceNumber, inv.Status))
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, ownerID, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", slog.String("invoice_id", invoiceID))
	s.bumpReports(ctx, ownerID)
	return nil
}

// SendInvoice moves a DRAFT invoice to SENT, then emails it to the client.
func (s *invoiceService) SendInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error, error) {
	res, err := s.transition(ctx, ownerID, invoiceID, domain.TransitionInput{Event: domain.EventSend, ActorID: ownerID}, s.Now())
	if err != nil {
		return nil, nil, err
	}
	inv := &res.Invoice

	emailErr := s.notify(ctx, inv, func(n portssvc.Notifier, sender domain.SenderInfo) error {
		return n.SendInvoice(ctx, inv, sender)
	})
	if emailErr != nil {
		s.LogError(ctx, emailErr, "Invoice sent but email delivery failed",
			slog.String("invoice_id", invoiceID), slog.String("invoice_number", inv.InvoiceNumber))
	} else {
		s.LogInfo(ctx, "Invoice sent", slog.String("invoice_id", invoiceID), slog.String("to", inv.ClientEmail()))
	}
	return inv, emailErr, nil
}

// ViewInvoice resolves a public view token. The first view of a SENT invoice moves it to VIEWED;
// other states are returned unchanged.
func (s *invoiceService) ViewInvoice(ctx context.Context, viewToken string) (*domain.Invoice, *domain.User, error) {
	inv, err := s.invoiceRepo.FindInvoiceByViewToken(ctx, viewToken)
	if err != nil {
		return nil, nil, err
	}
	if inv.Status == domain.StatusSent {
		res, err := s.transition(ctx, inv.OwnerID, inv.InvoiceID, domain.TransitionInput{Event: domain.EventView}, s.Now())
		switch {
		case err == nil:
			inv = &res.Invoice
			s.bumpReports(ctx, inv.OwnerID)
		case errors.Is(err, apperrors.ErrInvalidState):
			// Viewed or paid concurrently; show the current state.
			if inv, err = s.invoiceRepo.FindInvoiceByID(ctx, inv.OwnerID, inv.InvoiceID); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, err
		}
	}
	owner, err := s.userRepo.FindUserByID(ctx, inv.OwnerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load invoice owner", slog.String("owner_id", inv.OwnerID))
		owner = nil
	}
	return inv, owner, nil
}

// CancelInvoice moves a DRAFT or SENT invoice to CANCELLED.
func (s *invoiceService) CancelInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	res, err := s.transition(ctx, ownerID, invoiceID, domain.TransitionInput{Event: domain.EventCancel, ActorID: ownerID}, s.Now())
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice cancelled", slog.String("invoice_id", invoiceID), slog.String("from", string(res.From)))
	return &res.Invoice, nil
}

// RemindInvoice emails a payment reminder and records it on the invoice.
func (s *invoiceService) RemindInvoice(ctx context.Context, ownerID, invoiceID string, tone domain.ReminderTone) (*domain.Invoice, error) {
	if tone == "" {
		tone = domain.ToneFriendly
	}
	if !tone.IsValid() {
		return nil, apperrors.NewValidationFailedError("unknown reminder tone " + string(tone))
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanRemind() {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot send a reminder for an invoice in status %s", inv.Status))
	}

	if err := s.notify(ctx, inv, func(n portssvc.Notifier, sender domain.SenderInfo) error {
		return n.SendReminder(ctx, inv, sender, tone)
	}); err != nil {
		s.LogError(ctx, err, "Failed to send reminder", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	activity := domain.NewActivity(inv.InvoiceID, domain.ActivityReminderSent,
		fmt.Sprintf("Payment reminder sent to %s", inv.ClientEmail()),
		map[string]any{"tone": string(tone)}, s.Now())
	if err := s.invoiceRepo.AppendActivity(ctx, activity); err != nil {
		s.LogError(ctx, err, "Reminder sent but activity could not be recorded", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	inv.Activities = append(inv.Activities, activity)
	return inv, nil
}

// MarkOverdue moves every outstanding invoice due before today to OVERDUE. Each invoice is
// processed independently; failures are collected in the report.
func (s *invoiceService) MarkOverdue(ctx context.Context, today time.Time) (domain.SweepReport, error) {
	candidates, err := s.invoiceRepo.ListOverdueCandidates(ctx, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to list overdue candidates")
		return domain.SweepReport{}, err
	}

	report := domain.SweepReport{Processed: len(candidates)}
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.sweepConcurrency)
	for i := range candidates {
		cand := candidates[i]
		g.Go(func() error {
			_, err := s.transition(ctx, cand.OwnerID, cand.InvoiceID,
				domain.TransitionInput{Event: domain.EventMarkOverdue, AsOf: today}, s.Now())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.LogError(ctx, err, "Failed to mark invoice overdue", slog.String("invoice_id", cand.InvoiceID))
				report.Failures = append(report.Failures, domain.SweepFailure{
					InvoiceID: cand.InvoiceID, InvoiceNumber: cand.InvoiceNumber, Error: err.Error(),
				})
				return nil
			}
			report.Succeeded = append(report.Succeeded, cand.InvoiceID)
			return nil
		})
	}
	_ = g.Wait()

	sortReport(&report)
	s.LogInfo(ctx, "Overdue sweep finished",
		slog.Int("processed", report.Processed),
		slog.Int("marked", len(report.Succeeded)),
		slog.Int("failed", len(report.Failures)))
	return report, nil
}

// RecordPayment applies a payment to an invoice. Storage conflicts are retried against a fresh read.
func (s *invoiceService) RecordPayment(ctx context.Context, ownerID, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error) {
	res, err := s.transition(ctx, ownerID, invoiceID, domain.TransitionInput{
		Event:         domain.EventRecordPayment,
		ActorID:       ownerID,
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}, s.Now())
	if err != nil {
		return nil, err
	}
	inv := &res.Invoice
	s.LogInfo(ctx, "Payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", res.Payment.Amount.StringFixed(2)),
		slog.String("method", string(res.Payment.Method)),
		slog.String("status", string(inv.Status)))

	amount := res.Payment.Amount
	if err := s.notify(ctx, inv, func(n portssvc.Notifier, sender domain.SenderInfo) error {
		return n.SendPaymentConfirmation(ctx, inv, sender, amount)
	}); err != nil {
		s.LogError(ctx, err, "Payment recorded but confirmation email failed", slog.String("invoice_id", invoiceID))
	}
	return inv, nil
}

// transition applies a lifecycle event with optimistic concurrency: a stale version re-reads
// the invoice and re-applies the event, up to maxConflictRetries times. Business errors are never retried.
func (s *invoiceService) transition(ctx context.Context, ownerID, invoiceID string, in domain.TransitionInput, now time.Time) (*domain.TransitionResult, error) {
	for attempt := 0; ; attempt++ {
		inv, err := s.invoiceRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
		if err != nil {
			return nil, err
		}
		res, err := domain.Transition(*inv, in, now)
		if err != nil {
			return nil, err
		}

		if res.Payment != nil {
			err = s.invoiceRepo.ApplyPayment(ctx, res.Invoice, *res.Payment, res.Activity)
		} else {
			err = s.invoiceRepo.SaveTransition(ctx, res.Invoice, res.Activity)
		}
		if err == nil {
			res.Invoice.Version++
			res.Invoice.Activities = append(res.Invoice.Activities, res.Activity)
			if res.Payment != nil {
				res.Invoice.Payments = append(res.Invoice.Payments, *res.Payment)
			}
			s.bumpReports(ctx, ownerID)
			return res, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt >= maxConflictRetries {
			s.LogError(ctx, err, "Failed to persist invoice transition",
				slog.String("invoice_id", invoiceID), slog.String("event", string(in.Event)))
			return nil, err
		}
		s.LogDebug(ctx, "Invoice modified concurrently, retrying",
			slog.String("invoice_id", invoiceID), slog.Int("attempt", attempt+1))
	}
}

// notify resolves the sender profile and hands the invoice to the notifier.
func (s *invoiceService) notify(ctx context.Context, inv *domain.Invoice, send func(portssvc.Notifier, domain.SenderInfo) error) error {
	if s.notifier == nil {
		return apperrors.NewDependencyError("email delivery is not configured", nil)
	}
	return send(s.notifier, s.senderInfo(ctx, inv.OwnerID))
}

func (s *invoiceService) senderInfo(ctx context.Context, ownerID string) domain.SenderInfo {
	owner, err := s.userRepo.FindUserByID(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load sender profile", slog.String("owner_id", ownerID))
		return (*domain.User)(nil).ToSenderInfo()
	}
	return owner.ToSenderInfo()
}

func (s *invoiceService) resolveCurrency(ctx context.Context, ownerID string, requested *string) (string, error) {
	if requested != nil && *requested != "" {
		code := strings.ToUpper(*requested)
		if !domain.IsSupportedCurrency(code) {
			return "", apperrors.NewValidationFailedError("unsupported currency " + code)
		}
		return code, nil
	}
	owner, err := s.userRepo.FindUserByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if owner.Currency != "" {
		return owner.Currency, nil
	}
	return domain.DefaultInvoiceCurrency, nil
}

func (s *invoiceService) applyLineItems(inv *domain.Invoice, reqs []dto.LineItemRequest) error {
	items, totals, err := buildLineItems(inv.InvoiceID, reqs, inv.TaxRate, &inv.DiscountAmount)
	if err != nil {
		return err
	}
	inv.LineItems = items
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.DiscountAmount = totals.Discount
	inv.Total = totals.Total
	return nil
}

func (s *invoiceService) bumpReports(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx, ownerID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache", slog.String("owner_id", ownerID))
	}
}

// buildLineItems turns requested lines into line items with fresh IDs and computes the totals.
func buildLineItems(invoiceID string, reqs []dto.LineItemRequest, taxRate, discount *decimal.Decimal) ([]domain.LineItem, invoicing.Totals, error) {
	inputs := make([]invoicing.LineItemInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = invoicing.LineItemInput{Description: strings.TrimSpace(r.Description), Quantity: r.Quantity, UnitPrice: r.UnitPrice}
	}
	totals, err := invoicing.ComputeTotals(inputs, taxRate, discount)
	if err != nil {
		return nil, invoicing.Totals{}, err
	}
	items := make([]domain.LineItem, len(reqs))
	for i, in := range inputs {
		items[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      totals.LineAmounts[i],
			SortOrder:   i,
		}
	}
	return items, totals, nil
}

func lineItemRequests(items []domain.LineItem) []dto.LineItemRequest {
	sorted := make([]domain.LineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].SortOrder < sorted[b].SortOrder })
	reqs := make([]dto.LineItemRequest, len(sorted))
	for i, it := range sorted {
		reqs[i] = dto.LineItemRequest{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return reqs
}

// scheduleFrom sets the next recurring date one interval after from.
func scheduleFrom(inv *domain.Invoice, from time.Time) error {
	if inv.RecurringInterval == nil {
		return apperrors.NewValidationFailedError("recurring invoices require an interval")
	}
	next, err := invoicing.NextOccurrence(from, *inv.RecurringInterval)
	if err != nil {
		return err
	}
	inv.NextRecurringDate = &next
	return nil
}

func sortReport(r *domain.SweepReport) {
	sort.Strings(r.Succeeded)
	sort.Slice(r.Failures, func(a, b int) bool { return r.Failures[a].InvoiceID < r.Failures[b].InvoiceID })
}
