package services

import (
	"context"
	"fmt"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/utils"
)

// authService implements AuthSvcFacade on top of the user and token services.
type authService struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

// NewAuthService creates a new authService.
func NewAuthService(userService portssvc.UserSvcFacade, tokenService portssvc.TokenSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password produce the same error so registered emails cannot be
// probed.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: incorrect credentials", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("%w: incorrect credentials", apperrors.ErrUnauthorized)
	}

	signed, _, err := s.tokenService.MintToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// LoginWithVerifiedEmail mints a token for an externally verified identity.
// There is no self-registration path; unknown emails are rejected.
func (s *authService) LoginWithVerifiedEmail(ctx context.Context, email string) (*domain.User, string, error) {
	user, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no account for verified email", apperrors.ErrUnauthorized)
	}

	signed, _, err := s.tokenService.MintToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Logout revokes the caller's current token and returns their profile.
func (s *authService) Logout(ctx context.Context, userID, tokenID string) (*domain.User, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenService.RevokeToken(ctx, tokenID); err != nil {
		return nil, fmt.Errorf("failed to revoke token on logout: %w", err)
	}
	return user, nil
}

// Refresh mints a new bearer token and invalidates the prior one.
func (s *authService) Refresh(ctx context.Context, userID, tokenID string) (*domain.User, string, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	signed, _, err := s.tokenService.MintToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	// Revoke after minting so a mint failure leaves the session usable.
	if err := s.tokenService.RevokeToken(ctx, tokenID); err != nil {
		return nil, "", fmt.Errorf("failed to revoke previous token on refresh: %w", err)
	}

	return user, signed, nil
}
