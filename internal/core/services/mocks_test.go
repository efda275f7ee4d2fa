package services_test

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
)

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service never mutates the fixture between attempts.
	inv := *args.Get(0).(*domain.Invoice)
	return &inv, args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByViewToken(ctx context.Context, viewToken string) (*domain.Invoice, error) {
	args := m.Called(ctx, viewToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	inv := *args.Get(0).(*domain.Invoice)
	return &inv, args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, ownerID string, filter portsrepo.InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, ownerID, filter, limit, nextToken)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return invoices, next, args.Error(2)
}

func (m *MockInvoiceRepository) FindInvoiceOwnerID(ctx context.Context, invoiceID string) (string, error) {
	args := m.Called(ctx, invoiceID)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) LastInvoiceNumber(ctx context.Context, ownerID string) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error {
	args := m.Called(ctx, invoice, activity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, activity *domain.Activity) error {
	args := m.Called(ctx, invoice, activity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveTransition(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error {
	args := m.Called(ctx, invoice, activity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ApplyPayment(ctx context.Context, invoice domain.Invoice, payment domain.Payment, activity domain.Activity) error {
	args := m.Called(ctx, invoice, payment, activity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) AppendActivity(ctx context.Context, activity domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error {
	args := m.Called(ctx, ownerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListDueRecurring(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveGenerated(ctx context.Context, source domain.Invoice, generated domain.Invoice, activity domain.Activity, requireScheduled bool) error {
	args := m.Called(ctx, source, generated, activity, requireScheduled)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListOverdueCandidates(ctx context.Context, today time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesForReport(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// --- Mock ClientRepository ---
type MockClientRepository struct {
	mock.Mock
}

var _ portsrepo.ClientRepositoryFacade = (*MockClientRepository)(nil)

func (m *MockClientRepository) FindClientByID(ctx context.Context, ownerID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, ownerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	c := *args.Get(0).(*domain.Client)
	return &c, args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, ownerID string, search string, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, ownerID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, ownerID, clientID string) error {
	args := m.Called(ctx, ownerID, clientID)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	u := *args.Get(0).(*domain.User)
	return &u, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	u := *args.Get(0).(*domain.User)
	return &u, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) error {
	args := m.Called(ctx, inv, sender)
	return args.Error(0)
}

func (m *MockNotifier) SendReminder(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, tone domain.ReminderTone) error {
	args := m.Called(ctx, inv, sender, tone)
	return args.Error(0)
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo, amount decimal.Decimal) error {
	args := m.Called(ctx, inv, sender, amount)
	return args.Error(0)
}

// --- Mock ReportCache ---
type MockReportCache struct {
	mock.Mock
}

var _ portssvc.ReportCache = (*MockReportCache)(nil)

func (m *MockReportCache) BuildKey(ctx context.Context, ownerID string, parts ...string) (string, error) {
	args := m.Called(ctx, ownerID, parts)
	return args.String(0), args.Error(1)
}

func (m *MockReportCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	args := m.Called(ctx, key, dest, loader)
	return args.Error(0)
}

func (m *MockReportCache) Bump(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// memoryReportCache is an in-process ReportCache with the same version-key semantics as the Redis one.
type memoryReportCache struct {
	mu       sync.Mutex
	versions map[string]int
	values   map[string][]byte
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{versions: map[string]int{}, values: map[string][]byte{}}
}

func (c *memoryReportCache) BuildKey(_ context.Context, ownerID string, parts ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := ownerID
	for _, p := range parts {
		key += ":" + p
	}
	return key + ":v" + strconv.Itoa(c.versions[ownerID]), nil
}

func (c *memoryReportCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	c.mu.Lock()
	raw, ok := c.values[key]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(raw, dest)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err = json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.values[key] = raw
	c.mu.Unlock()
	return json.Unmarshal(raw, dest)
}

func (c *memoryReportCache) Bump(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[ownerID]++
	return nil
}

// --- Mock PaymentGateway ---
type MockPaymentGateway struct {
	mock.Mock
}

var _ portssvc.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, inv *domain.Invoice) (string, error) {
	args := m.Called(ctx, inv)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) ParseWebhook(payload []byte) (*domain.GatewayEvent, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayEvent), args.Error(1)
}

// --- Mock InvoiceService (used by the payment service) ---
type MockInvoiceService struct {
	mock.Mock
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, ownerID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}

func (m *MockInvoiceService) ListInvoicesForExport(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, ownerID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error {
	args := m.Called(ctx, ownerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) SendInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1), args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1), args.Error(2)
}

func (m *MockInvoiceService) ViewInvoice(ctx context.Context, viewToken string) (*domain.Invoice, *domain.User, error) {
	args := m.Called(ctx, viewToken)
	var inv *domain.Invoice
	if args.Get(0) != nil {
		inv = args.Get(0).(*domain.Invoice)
	}
	var owner *domain.User
	if args.Get(1) != nil {
		owner = args.Get(1).(*domain.User)
	}
	return inv, owner, args.Error(2)
}

func (m *MockInvoiceService) CancelInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) RemindInvoice(ctx context.Context, ownerID, invoiceID string, tone domain.ReminderTone) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, tone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) MarkOverdue(ctx context.Context, today time.Time) (domain.SweepReport, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(domain.SweepReport), args.Error(1)
}

func (m *MockInvoiceService) RecordPayment(ctx context.Context, ownerID, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// --- fixtures ---

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func intervalPtr(i domain.RecurringInterval) *domain.RecurringInterval { return &i }

func testClient(ownerID string) *domain.Client {
	return &domain.Client{
		ClientID:    "client-1",
		OwnerID:     ownerID,
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Country:     "US",
		AuditFields: domain.NewAuditFields(ownerID, fixedNow.AddDate(0, -1, 0)),
	}
}

func testOwner(ownerID string) *domain.User {
	return &domain.User{
		UserID:           ownerID,
		Name:             "Grace Hopper",
		Email:            "grace@example.com",
		BusinessSettings: domain.BusinessSettings{CompanyName: strPtr("Hopper Consulting"), Currency: "EUR"},
		AuditFields:      domain.NewAuditFields(ownerID, fixedNow.AddDate(-1, 0, 0)),
	}
}

// testInvoice returns a SENT invoice over total with a client that has an email.
func testInvoice(ownerID, invoiceID string, total string) *domain.Invoice {
	issued := fixedNow.AddDate(0, 0, -10)
	return &domain.Invoice{
		InvoiceID:     invoiceID,
		OwnerID:       ownerID,
		InvoiceNumber: "INV-2024-0007",
		Status:        domain.StatusSent,
		ClientID:      "client-1",
		Client:        testClient(ownerID),
		IssueDate:     issued,
		DueDate:       timePtr(issued.AddDate(0, 0, 30)),
		LineItems: []domain.LineItem{{
			LineItemID: "li-1", InvoiceID: invoiceID, Description: "Consulting",
			Quantity: dec("1"), UnitPrice: dec(total), Amount: dec(total),
		}},
		Subtotal:       dec(total),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          dec(total),
		AmountPaid:     decimal.Zero,
		Currency:       "USD",
		SentAt:         timePtr(issued),
		ViewToken:      "view-" + invoiceID,
		AuditFields:    domain.NewAuditFields(ownerID, issued),
	}
}
