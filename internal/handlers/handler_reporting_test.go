package handlers_test

import (
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestDashboard() {
	suite.mockReporting.On("GetDashboardStats", mock.Anything, testOwnerID).
		Return(&domain.DashboardStats{TotalRevenue: decimal.NewFromInt(500), InvoiceCount: domain.StatusCounts{Paid: 2}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/dashboard", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	var stats domain.DashboardStats
	suite.decode(w, &stats)
	suite.True(stats.TotalRevenue.Equal(decimal.NewFromInt(500)))
	suite.Equal(2, stats.InvoiceCount.Paid)
}

func (suite *HandlerTestSuite) TestReports_ExplicitParams() {
	suite.mockReporting.On("GetReport", mock.Anything, testOwnerID, 3, 2).Return(&domain.DashboardReport{
		Stats:           domain.DashboardStats{InvoiceCount: domain.StatusCounts{Sent: 1}},
		MonthlyRevenue:  []domain.MonthlyRevenue{{}, {}, {}},
		RevenueByClient: []domain.ClientRevenue{{}},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports?months=3&top=2", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ReportsResponse
	suite.decode(w, &resp)
	suite.Len(resp.MonthlyRevenue, 3)
	suite.Len(resp.RevenueByClient, 1)
	suite.Equal(1, resp.StatusBreakdown.Sent)
}

func (suite *HandlerTestSuite) TestReports_Defaults() {
	suite.mockReporting.On("GetReport", mock.Anything, testOwnerID, 6, 5).Return(&domain.DashboardReport{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestReports_OutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/reports?months=99", nil, testOwnerID)
	suite.Equal(http.StatusBadRequest, w.Code)
}
