package repositories

import (
	"context"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
)

// TokenRepositoryFacade persists issued bearer tokens so they can be
// revoked individually (logout, refresh) or in bulk (user deletion).
type TokenRepositoryFacade interface {
	// SaveToken persists a freshly minted token record.
	SaveToken(ctx context.Context, token domain.APIToken) error

	// FindTokenByID retrieves a token record by its jti.
	FindTokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error)

	// RevokeToken marks a single token as revoked.
	RevokeToken(ctx context.Context, tokenID string) error

	// RevokeTokensForUser marks every active token of a user as revoked and
	// returns the number of tokens affected.
	RevokeTokensForUser(ctx context.Context, userID string) (int, error)
}
