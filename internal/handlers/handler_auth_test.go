package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestLogin_Success() {
	user := &domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test"}
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockUser.On("AuthenticateUser", mock.Anything, "jane@example.test", "s3cret-pass").Return(user, nil).Once()
	suite.mockToken.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", expires, nil).Once()

	w := suite.do(http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "jane@example.test", Password: "s3cret-pass"}, "")

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("signed-token", resp.Token)
	suite.True(resp.ExpiresAt.Equal(expires))
	suite.NotContains(w.Body.String(), "password")
}

func (suite *HandlerTestSuite) TestLogin_BadCredentials() {
	suite.mockUser.On("AuthenticateUser", mock.Anything, "jane@example.test", "wrong").
		Return(nil, &apperrors.AppError{Code: http.StatusUnauthorized, Message: "invalid credentials", Err: apperrors.ErrUnauthorized}).Once()

	w := suite.do(http.MethodPost, "/auth/login",
		dto.LoginRequest{Email: "jane@example.test", Password: "wrong"}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid email or password")
}

func (suite *HandlerTestSuite) TestRegister_Created() {
	req := dto.RegisterRequest{Name: "Jane", Email: "jane@example.test", Password: "long-enough"}
	user := &domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test"}
	suite.mockUser.On("RegisterUser", mock.Anything, req).Return(user, nil).Once()
	suite.mockToken.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", time.Now().Add(time.Hour), nil).Once()

	w := suite.do(http.MethodPost, "/auth/register", req, "")

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestRegister_ShortPassword() {
	w := suite.do(http.MethodPost, "/auth/register",
		dto.RegisterRequest{Name: "Jane", Email: "jane@example.test", Password: "short"}, "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestRegister_DuplicateEmail() {
	req := dto.RegisterRequest{Name: "Jane", Email: "jane@example.test", Password: "long-enough"}
	suite.mockUser.On("RegisterUser", mock.Anything, req).
		Return(nil, apperrors.NewDuplicateError("email already registered")).Once()

	w := suite.do(http.MethodPost, "/auth/register", req, "")

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGoogleExchange_IssuesToken() {
	identity := &domain.GoogleIdentity{Subject: "google-sub-1", Email: "jane@example.test", Name: "Jane", EmailVerified: true}
	user := &domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test"}
	suite.mockGoogle.On("VerifyCode", mock.Anything, "auth-code").Return(identity, nil).Once()
	suite.mockUser.On("SignInWithIdentity", mock.Anything, *identity).Return(user, nil).Once()
	suite.mockToken.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", time.Now().Add(time.Hour), nil).Once()

	w := suite.do(http.MethodPost, "/auth/google/exchange-code", dto.GoogleExchangeRequest{Code: "auth-code"}, "")

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("signed-token", resp.Token)
	suite.Equal(testOwnerID, resp.User.UserID)
}

func (suite *HandlerTestSuite) TestGoogleExchange_MissingCode() {
	w := suite.do(http.MethodPost, "/auth/google/exchange-code", `{}`, "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGoogleExchange_InvalidGrant() {
	suite.mockGoogle.On("VerifyCode", mock.Anything, "stale-code").
		Return(nil, apperrors.NewValidationFailedError("authorization code is invalid or has expired")).Once()

	w := suite.do(http.MethodPost, "/auth/google/exchange-code", dto.GoogleExchangeRequest{Code: "stale-code"}, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "invalid or has expired")
}

func (suite *HandlerTestSuite) TestGoogleExchange_GoogleUnavailable() {
	suite.mockGoogle.On("VerifyCode", mock.Anything, "auth-code").
		Return(nil, apperrors.NewDependencyError("google code exchange failed", nil)).Once()

	w := suite.do(http.MethodPost, "/auth/google/exchange-code", dto.GoogleExchangeRequest{Code: "auth-code"}, "")

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *HandlerTestSuite) TestGoogleExchange_UnverifiedEmail() {
	identity := &domain.GoogleIdentity{Subject: "google-sub-1", Email: "jane@example.test"}
	suite.mockGoogle.On("VerifyCode", mock.Anything, "auth-code").Return(identity, nil).Once()
	suite.mockUser.On("SignInWithIdentity", mock.Anything, *identity).
		Return(nil, &apperrors.AppError{Code: http.StatusUnauthorized, Message: "google account email is not verified", Err: apperrors.ErrUnauthorized}).Once()

	w := suite.do(http.MethodPost, "/auth/google/exchange-code", dto.GoogleExchangeRequest{Code: "auth-code"}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteUser_OtherAccountForbidden() {
	suite.mockUser.On("DeleteUser", mock.Anything, "someone-else", testOwnerID).
		Return(&apperrors.AppError{Code: http.StatusForbidden, Message: "cannot delete another user", Err: apperrors.ErrForbidden}).Once()

	w := suite.do(http.MethodDelete, "/api/v1/users/someone-else", nil, testOwnerID)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetSettings() {
	suite.mockUser.On("GetUserByID", mock.Anything, testOwnerID).
		Return(&domain.User{UserID: testOwnerID, Name: "Jane", Email: "jane@example.test"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/settings", nil, testOwnerID)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "jane@example.test")
}
