package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/platform/config"
	"github.com/SscSPs/invoice_flow_app/internal/utils"
)

// tokenService implements the TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, utils.ErrMissingSubject
	}
	return utils.IssueAccessToken(user.UserID, s.cfg.JWTSecret, s.cfg.JWTIssuer, time.Now(), s.cfg.JWTExpiryDuration)
}
