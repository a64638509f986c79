package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portsrepo "github.com/fxdesk/fxrates_app/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/platform/config"
	"github.com/fxdesk/fxrates_app/internal/utils"
	"github.com/google/uuid"
)

// tokenService implements TokenSvcFacade. Access tokens are HS256 JWTs
// whose jti is persisted in the api_tokens table; a token is only accepted
// while its record exists un-revoked and un-expired.
type tokenService struct {
	cfg       *config.Config
	tokenRepo portsrepo.TokenRepositoryFacade
}

// NewTokenService creates a new tokenService.
func NewTokenService(cfg *config.Config, tokenRepo portsrepo.TokenRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:       cfg,
		tokenRepo: tokenRepo,
	}
}

// MintToken issues a signed bearer token for the user and records it.
func (s *tokenService) MintToken(ctx context.Context, user *domain.User) (string, *domain.APIToken, error) {
	now := time.Now()
	token := domain.APIToken{
		TokenID:   uuid.NewString(),
		UserID:    user.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.JWTExpiryDuration),
	}

	signed, err := utils.GenerateJWT(user.UserID, token.TokenID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	if err := s.tokenRepo.SaveToken(ctx, token); err != nil {
		return "", nil, fmt.Errorf("failed to record access token: %w", err)
	}

	return signed, &token, nil
}

// ValidateToken checks signature, expiry and the server-side record.
func (s *tokenService) ValidateToken(ctx context.Context, signedToken string) (string, string, error) {
	claims, err := utils.ParseAndValidateJWT(signedToken, s.cfg.JWTSecret)
	if err != nil {
		return "", "", err
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", fmt.Errorf("%w: token claims incomplete", apperrors.ErrUnauthorized)
	}

	record, err := s.tokenRepo.FindTokenByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", "", fmt.Errorf("%w: token not recognised", apperrors.ErrUnauthorized)
		}
		return "", "", fmt.Errorf("failed to look up token record: %w", err)
	}
	if record.RevokedAt != nil {
		return "", "", fmt.Errorf("%w: token has been revoked", apperrors.ErrUnauthorized)
	}
	if time.Now().After(record.ExpiresAt) {
		return "", "", fmt.Errorf("%w: token has expired", apperrors.ErrUnauthorized)
	}

	return claims.Subject, record.TokenID, nil
}

// RevokeToken invalidates a single token by jti.
func (s *tokenService) RevokeToken(ctx context.Context, tokenID string) error {
	return s.tokenRepo.RevokeToken(ctx, tokenID)
}

// RevokeAllForUser invalidates every active token of a user.
func (s *tokenService) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	return s.tokenRepo.RevokeTokensForUser(ctx, userID)
}
