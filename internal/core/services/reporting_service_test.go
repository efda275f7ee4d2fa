package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	cache           *memoryReportCache
	service         portssvc.ReportingService
	ctx             context.Context
	ownerID         string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.cache = newMemoryReportCache()
	suite.service = services.NewReportingService(
		suite.mockInvoiceRepo,
		services.WithReportCache(suite.cache),
		services.WithReportingClock(fixedClock),
	)
	suite.ctx = context.Background()
	suite.ownerID = "owner-1"
}

func (suite *ReportingServiceTestSuite) invoices() []domain.Invoice {
	paid := testInvoice(suite.ownerID, "inv-paid", "100.00")
	paid.Status = domain.StatusPaid
	paid.AmountPaid = dec("100.00")
	paid.PaidAt = timePtr(fixedNow.AddDate(0, 0, -2))

	open := testInvoice(suite.ownerID, "inv-open", "40.00")

	late := testInvoice(suite.ownerID, "inv-late", "15.50")
	late.Status = domain.StatusOverdue

	return []domain.Invoice{*paid, *open, *late}
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_ServedFromCacheUntilBumped() {
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil)

	first, err := suite.service.GetDashboardStats(suite.ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(first.TotalRevenue.Equal(dec("100")))
	suite.True(first.Outstanding.Equal(dec("40")))
	suite.True(first.Overdue.Equal(dec("15.50")))
	suite.True(first.PaidThisMonth.Equal(dec("100")))
	suite.Equal(3, first.InvoiceCount.Total)
	suite.Len(first.RecentInvoices, 3)

	second, err := suite.service.GetDashboardStats(suite.ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(second.TotalRevenue.Equal(first.TotalRevenue))
	suite.mockInvoiceRepo.AssertNumberOfCalls(suite.T(), "ListInvoicesForReport", 1)

	suite.Require().NoError(suite.cache.Bump(suite.ctx, suite.ownerID))
	_, err = suite.service.GetDashboardStats(suite.ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertNumberOfCalls(suite.T(), "ListInvoicesForReport", 2)
}

func (suite *ReportingServiceTestSuite) TestGetMonthlyRevenue_DefaultsToSixMonths() {
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil).Once()

	months, err := suite.service.GetMonthlyRevenue(suite.ctx, suite.ownerID, 0)

	suite.Require().NoError(err)
	suite.Require().Len(months, 6)
	suite.Equal("Jan 2024", months[0].Month)
	suite.Equal("Jun 2024", months[5].Month)
	suite.True(months[5].Revenue.Equal(dec("100")))
	suite.True(months[0].Revenue.IsZero())
}

func (suite *ReportingServiceTestSuite) TestGetRevenueByClient() {
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil).Once()

	clients, err := suite.service.GetRevenueByClient(suite.ctx, suite.ownerID, 5)

	suite.Require().NoError(err)
	suite.Require().Len(clients, 1)
	suite.Equal("client-1", clients[0].ClientID)
	suite.True(clients[0].Revenue.Equal(dec("100")))
}

func (suite *ReportingServiceTestSuite) TestGetReport_CombinesViews() {
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil)

	report, err := suite.service.GetReport(suite.ctx, suite.ownerID, 3, 5)

	suite.Require().NoError(err)
	suite.Equal(3, report.Stats.InvoiceCount.Total)
	suite.Len(report.MonthlyRevenue, 3)
	suite.Len(report.RevenueByClient, 1)
}

func (suite *ReportingServiceTestSuite) TestGetReport_PropagatesLoadFailure() {
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).
		Return(nil, apperrors.NewAppError(500, "failed to list invoices", errors.New("timeout")))

	_, err := suite.service.GetReport(suite.ctx, suite.ownerID, 6, 5)

	suite.ErrorIs(err, apperrors.ErrDependency)
}

func (suite *ReportingServiceTestSuite) TestWithoutCache_ComputesDirectly() {
	svc := services.NewReportingService(suite.mockInvoiceRepo, services.WithReportingClock(fixedClock))
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil).Twice()

	_, err := svc.GetDashboardStats(suite.ctx, suite.ownerID)
	suite.Require().NoError(err)
	_, err = svc.GetDashboardStats(suite.ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCacheUnavailable_FallsBackToDirect() {
	brokenCache := new(MockReportCache)
	brokenCache.On("BuildKey", mock.Anything, suite.ownerID, mock.Anything).Return("", errors.New("redis: connection refused")).Once()
	svc := services.NewReportingService(suite.mockInvoiceRepo, services.WithReportCache(brokenCache), services.WithReportingClock(fixedClock))
	suite.mockInvoiceRepo.On("ListInvoicesForReport", mock.Anything, suite.ownerID).Return(suite.invoices(), nil).Once()

	stats, err := svc.GetDashboardStats(suite.ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.True(stats.TotalRevenue.Equal(dec("100")))
	brokenCache.AssertNotCalled(suite.T(), "FetchJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportingServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
