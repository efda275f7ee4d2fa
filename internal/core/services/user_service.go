package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/utils"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithUserClock replaces the wall clock, mostly for tests.
func WithUserClock(clock func() time.Time) UserServiceOption {
	return func(s *userService) {
		s.clock = clock
	}
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates an owner account.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateError("an account with this email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing user")
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		PasswordHash:     hash,
		BusinessSettings: domain.BusinessSettings{Currency: domain.DefaultInvoiceCurrency},
		AuditFields:      domain.NewAuditFields(userID, now),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to create user")
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", userID))
	return &user, nil
}

// AuthenticateUser checks an email and password pair.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if user.DeletedAt != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// SignInWithIdentity maps a verified Google identity onto an owner, creating one on first sign-in.
// Accounts created here have no password, so only Google can sign them in.
func (s *userService) SignInWithIdentity(ctx context.Context, identity domain.GoogleIdentity) (*domain.User, error) {
	email := normalizeEmail(identity.Email)
	if email == "" || !identity.EmailVerified {
		return nil, fmt.Errorf("%w: google account email is not verified", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		if user.DeletedAt != nil {
			return nil, fmt.Errorf("%w: account has been deleted", apperrors.ErrUnauthorized)
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user for google sign-in")
		return nil, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	now := s.Now()
	userID := uuid.NewString()
	created := domain.User{
		UserID:           userID,
		Name:             name,
		Email:            email,
		BusinessSettings: domain.BusinessSettings{Currency: domain.DefaultInvoiceCurrency},
		AuditFields:      domain.NewAuditFields(userID, now),
	}
	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to create user from google identity")
		return nil, err
	}
	s.LogInfo(ctx, "User registered via google", slog.String("user_id", userID), slog.String("google_sub", identity.Subject))
	return &created, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdateSettings updates the owner's name and business settings.
func (s *userService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateSettingsRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !domain.IsSupportedCurrency(code) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("currency must be one of %s", strings.Join(domain.SupportedCurrencies, ", ")))
		}
		user.Currency = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name cannot be empty")
		}
		user.Name = name
	}
	setIfPresent(&user.CompanyName, req.CompanyName)
	setIfPresent(&user.Address, req.Address)
	setIfPresent(&user.City, req.City)
	setIfPresent(&user.State, req.State)
	setIfPresent(&user.ZipCode, req.ZipCode)
	setIfPresent(&user.Country, req.Country)
	setIfPresent(&user.Phone, req.Phone)
	setIfPresent(&user.TaxID, req.TaxID)
	user.Touch(userID, s.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update settings", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes an account. Users may only delete themselves.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return fmt.Errorf("%w: users can only delete their own account", apperrors.ErrForbidden)
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, s.Now(), requestingUserID)
}

// setIfPresent copies an optional update into a field. An empty string clears the field.
func setIfPresent(field **string, value *string) {
	if value == nil {
		return
	}
	if strings.TrimSpace(*value) == "" {
		*field = nil
		return
	}
	v := strings.TrimSpace(*value)
	*field = &v
}
