package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

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
	var inv *domain.Invoice
	if args.Get(0) != nil {
		inv = args.Get(0).(*domain.Invoice)
	}
	return inv, args.Error(1), args.Error(2)
}

func (m *MockInvoiceService) ViewInvoice(ctx context.Context, viewToken string) (*domain.Invoice, *domain.User, error) {
	args := m.Called(ctx, viewToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Get(1).(*domain.User), args.Error(2)
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

// Ensure mock implements the interface
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) GetClientByID(ctx context.Context, ownerID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, ownerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context, ownerID string, params dto.ListClientsParams) ([]domain.Client, error) {
	args := m.Called(ctx, ownerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) CreateClient(ctx context.Context, ownerID string, req dto.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, ownerID, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, ownerID, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, ownerID, clientID string) error {
	args := m.Called(ctx, ownerID, clientID)
	return args.Error(0)
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

// --- Mock RecurringService ---
type MockRecurringService struct {
	mock.Mock
}

func (m *MockRecurringService) GenerateFromRecurring(ctx context.Context, ownerID, sourceInvoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, sourceInvoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockRecurringService) SweepDueRecurring(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(domain.SweepReport), args.Error(1)
}

func (m *MockRecurringService) ToggleRecurring(ctx context.Context, ownerID, invoiceID string, isRecurring bool, interval *domain.RecurringInterval) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID, isRecurring, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockRecurringService) ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

var _ portssvc.RecurringSvcFacade = (*MockRecurringService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetDashboardStats(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockReportingService) GetMonthlyRevenue(ctx context.Context, ownerID string, months int) ([]domain.MonthlyRevenue, error) {
	args := m.Called(ctx, ownerID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyRevenue), args.Error(1)
}

func (m *MockReportingService) GetRevenueByClient(ctx context.Context, ownerID string, top int) ([]domain.ClientRevenue, error) {
	args := m.Called(ctx, ownerID, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientRevenue), args.Error(1)
}

func (m *MockReportingService) GetReport(ctx context.Context, ownerID string, months, top int) (*domain.DashboardReport, error) {
	args := m.Called(ctx, ownerID, months, top)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckoutSession(ctx context.Context, ownerID, invoiceID string) (string, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, payload []byte) (*domain.Invoice, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateSettingsRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) SignInWithIdentity(ctx context.Context, identity domain.GoogleIdentity) (*domain.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock GoogleIdentityVerifier ---
type MockGoogleVerifier struct {
	mock.Mock
}

func (m *MockGoogleVerifier) VerifyCode(ctx context.Context, code string) (*domain.GoogleIdentity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoogleIdentity), args.Error(1)
}

var _ portssvc.GoogleIdentityVerifier = (*MockGoogleVerifier)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock DocumentRenderer ---
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderInvoice(ctx context.Context, inv *domain.Invoice, sender domain.SenderInfo) ([]byte, error) {
	args := m.Called(ctx, inv, sender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.DocumentRenderer = (*MockRenderer)(nil)
