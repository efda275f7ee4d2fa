package services

import (
	"context"

	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new owner account with a hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// UpdateSettings updates the owner's name and business settings.
	UpdateSettings(ctx context.Context, userID string, req dto.UpdateSettingsRequest) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
	// SignInWithIdentity finds or creates the owner for a verified Google identity.
	SignInWithIdentity(ctx context.Context, identity domain.GoogleIdentity) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
