package services

import (
	"context"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthSvcFacade handles login, logout and token refresh against the token
// collaborator.
type AuthSvcFacade interface {
	// Login verifies credentials and mints a bearer token. Bad credentials
	// surface as apperrors.ErrUnauthorized without distinguishing unknown
	// email from wrong password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// LoginWithVerifiedEmail mints a bearer token for an identity already
	// verified by an external provider. Unknown emails are rejected.
	LoginWithVerifiedEmail(ctx context.Context, email string) (*domain.User, string, error)

	// Logout invalidates the caller's current token and returns their
	// profile as confirmation.
	Logout(ctx context.Context, userID, tokenID string) (*domain.User, error)

	// Refresh mints a new bearer token for the session and invalidates the
	// prior one.
	Refresh(ctx context.Context, userID, tokenID string) (*domain.User, string, error)
}

// TokenSvcFacade mints, validates and revokes bearer tokens. Tokens are
// JWTs whose jti is persisted so revocation is enforceable server-side.
type TokenSvcFacade interface {
	// MintToken issues a signed bearer token for the user and records it.
	MintToken(ctx context.Context, user *domain.User) (string, *domain.APIToken, error)

	// ValidateToken checks signature, expiry and the server-side record,
	// returning the token's user ID and jti.
	ValidateToken(ctx context.Context, signedToken string) (userID string, tokenID string, err error)

	// RevokeToken invalidates a single token by jti.
	RevokeToken(ctx context.Context, tokenID string) error

	// RevokeAllForUser invalidates every active token of a user and
	// returns the number revoked.
	RevokeAllForUser(ctx context.Context, userID string) (int, error)
}

// GoogleOAuthSvcFacade is the boundary to Google's OAuth endpoints for the
// alternative sign-in flow.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates the CSRF state for the redirect flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the consent-screen URL for a state.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForToken exchanges an authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)

	// ValidateGoogleIDToken verifies an ID token and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}
