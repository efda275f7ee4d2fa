package handlers_test

import (
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateClient() {
	req := dto.CreateClientRequest{Name: "Acme", Email: "billing@acme.test"}
	suite.mockClient.On("CreateClient", mock.Anything, testOwnerID, req).
		Return(&domain.Client{ClientID: "client-1", OwnerID: testOwnerID, Name: "Acme", Email: "billing@acme.test"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/clients", req, testOwnerID)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.ClientResponse
	suite.decode(w, &resp)
	suite.Equal("client-1", resp.ClientID)
}

func (suite *HandlerTestSuite) TestCreateClient_InvalidEmail() {
	w := suite.do(http.MethodPost, "/api/v1/clients", map[string]string{"name": "Acme", "email": "nope"}, testOwnerID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateClient_DuplicateEmail() {
	req := dto.CreateClientRequest{Name: "Acme", Email: "billing@acme.test"}
	suite.mockClient.On("CreateClient", mock.Anything, testOwnerID, req).
		Return(nil, apperrors.NewDuplicateError("client with this email already exists")).Once()

	w := suite.do(http.MethodPost, "/api/v1/clients", req, testOwnerID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListClients_Defaults() {
	suite.mockClient.On("ListClients", mock.Anything, testOwnerID, dto.ListClientsParams{Search: "acme", Limit: 50}).
		Return([]domain.Client{{ClientID: "client-1", Name: "Acme"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/clients?search=acme", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListClientsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Clients, 1)
	suite.Equal(50, resp.Limit)
}

func (suite *HandlerTestSuite) TestDeleteClient_WithInvoicesConflict() {
	suite.mockClient.On("DeleteClient", mock.Anything, testOwnerID, "client-1").
		Return(apperrors.NewInvalidStateError("client has invoices")).Once()

	w := suite.do(http.MethodDelete, "/api/v1/clients/client-1", nil, testOwnerID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteClient_NoContent() {
	suite.mockClient.On("DeleteClient", mock.Anything, testOwnerID, "client-1").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/clients/client-1", nil, testOwnerID)

	suite.Equal(http.StatusNoContent, w.Code)
}
