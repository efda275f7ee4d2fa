// Package oauth verifies Google sign-in codes for owner accounts.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
)

// TokenValidator checks an ID token against the expected audience.
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier exchanges authorization codes with Google and validates the returned ID token.
type GoogleVerifier struct {
	config   *oauth2.Config
	validate TokenValidator
	http     *http.Client
}

var _ portssvc.GoogleIdentityVerifier = (*GoogleVerifier)(nil)

// Option configures a GoogleVerifier.
type Option func(*GoogleVerifier)

// WithEndpoint points the code exchange at another token endpoint.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(v *GoogleVerifier) {
		v.config.Endpoint = endpoint
	}
}

// WithTokenValidator replaces idtoken.Validate.
func WithTokenValidator(validate TokenValidator) Option {
	return func(v *GoogleVerifier) {
		v.validate = validate
	}
}

// NewGoogleVerifier builds a verifier for the given OAuth client.
func NewGoogleVerifier(clientID, clientSecret, redirectURL string, timeout time.Duration, opts ...Option) *GoogleVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	v := &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		validate: idtoken.Validate,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyCode trades the code for tokens and returns the identity in the ID token.
func (v *GoogleVerifier) VerifyCode(ctx context.Context, code string) (*domain.GoogleIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.http)

	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return nil, apperrors.NewValidationFailedError("authorization code is invalid or has expired")
		}
		return nil, apperrors.NewDependencyError("google code exchange failed", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, apperrors.NewDependencyError("google response did not include an id_token", nil)
	}

	payload, err := v.validate(ctx, rawIDToken, v.config.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google id token: %v", apperrors.ErrUnauthorized, err)
	}

	identity := &domain.GoogleIdentity{Subject: payload.Subject}
	identity.Email, _ = payload.Claims["email"].(string)
	identity.Name, _ = payload.Claims["name"].(string)
	switch verified := payload.Claims["email_verified"].(type) {
	case bool:
		identity.EmailVerified = verified
	case string:
		identity.EmailVerified = strings.EqualFold(verified, "true")
	}
	return identity, nil
}
