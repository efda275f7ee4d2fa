package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT whose subject is the user ID.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleIdentityVerifier exchanges a Google authorization code and verifies the returned ID token.
type GoogleIdentityVerifier interface {
	VerifyCode(ctx context.Context, code string) (*domain.GoogleIdentity, error)
}
