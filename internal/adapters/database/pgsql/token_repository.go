package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portsrepo "github.com/fxdesk/fxrates_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTokenRepository implements the token repository port using pgxpool.
type PgxTokenRepository struct {
	db *pgxpool.Pool
}

// NewPgxTokenRepository creates a new PgxTokenRepository.
func NewPgxTokenRepository(db *pgxpool.Pool) *PgxTokenRepository {
	return &PgxTokenRepository{db: db}
}

var _ portsrepo.TokenRepositoryFacade = (*PgxTokenRepository)(nil)

// SaveToken persists a freshly minted token record.
func (r *PgxTokenRepository) SaveToken(ctx context.Context, token domain.APIToken) error {
	query := `
        INSERT INTO api_tokens (token_id, user_id, created_at, expires_at, revoked_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := r.db.Exec(ctx, query,
		token.TokenID, token.UserID, token.CreatedAt, token.ExpiresAt, token.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save api token: %w", err)
	}
	return nil
}

// FindTokenByID retrieves a token record by its jti.
func (r *PgxTokenRepository) FindTokenByID(ctx context.Context, tokenID string) (*domain.APIToken, error) {
	query := `SELECT token_id, user_id, created_at, expires_at, revoked_at FROM api_tokens WHERE token_id = $1;`
	var token domain.APIToken
	err := r.db.QueryRow(ctx, query, tokenID).Scan(
		&token.TokenID, &token.UserID, &token.CreatedAt, &token.ExpiresAt, &token.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find api token: %w", err)
	}
	return &token, nil
}

// RevokeToken marks a single token as revoked.
func (r *PgxTokenRepository) RevokeToken(ctx context.Context, tokenID string) error {
	query := `UPDATE api_tokens SET revoked_at = $2 WHERE token_id = $1 AND revoked_at IS NULL;`
	tag, err := r.db.Exec(ctx, query, tokenID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke api token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RevokeTokensForUser marks every active token of a user as revoked.
func (r *PgxTokenRepository) RevokeTokensForUser(ctx context.Context, userID string) (int, error) {
	query := `UPDATE api_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL;`
	tag, err := r.db.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke api tokens for user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
