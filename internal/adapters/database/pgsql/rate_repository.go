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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxRateRepository implements the rate repository ports using pgxpool.
type PgxRateRepository struct {
	db *pgxpool.Pool
}

// NewPgxRateRepository creates a new PgxRateRepository.
func NewPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{db: db}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

const rateColumns = `code, rate_date, amount, created_at, created_by, last_updated_at, last_updated_by`

func scanRate(row pgx.Row) (*domain.CurrencyRate, error) {
	var rate domain.CurrencyRate
	err := row.Scan(
		&rate.Code, &rate.Date, &rate.Amount,
		&rate.CreatedAt, &rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan currency rate: %w", err)
	}
	return &rate, nil
}

// FindRate retrieves the rate record for a (code, date) key.
func (r *PgxRateRepository) FindRate(ctx context.Context, code string, date time.Time) (*domain.CurrencyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM currency_rates WHERE code = $1 AND rate_date = $2;`
	return scanRate(r.db.QueryRow(ctx, query, code, date))
}

// FindRatesByDate retrieves all rate records for a calendar date in fixed
// currency priority order (EUR, USD, GBP).
func (r *PgxRateRepository) FindRatesByDate(ctx context.Context, date time.Time) ([]domain.CurrencyRate, error) {
	query := `
        SELECT ` + rateColumns + `
        FROM currency_rates
        WHERE rate_date = $1
        ORDER BY array_position(ARRAY['EUR','USD','GBP'], code);
    `
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.CurrencyRate
	for rows.Next() {
		var rate domain.CurrencyRate
		err := rows.Scan(
			&rate.Code, &rate.Date, &rate.Amount,
			&rate.CreatedAt, &rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rates: %w", err)
	}
	return rates, nil
}

// SaveRate inserts a new rate record. The unique constraint on
// (code, rate_date) is authoritative against concurrent duplicate inserts;
// a violation surfaces as apperrors.ErrDuplicate.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.CurrencyRate) error {
	query := `
        INSERT INTO currency_rates (code, rate_date, amount, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.db.Exec(ctx, query,
		rate.Code, rate.Date, rate.Amount,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: rate for %s on %s", apperrors.ErrDuplicate, rate.Code, rate.Date.Format(domain.RateDateLayout))
		}
		return fmt.Errorf("failed to save currency rate: %w", err)
	}
	return nil
}

// UpdateRateAmount overwrites the amount of an existing record.
func (r *PgxRateRepository) UpdateRateAmount(ctx context.Context, code string, date time.Time, amount decimal.Decimal, updaterUserID string) error {
	query := `
        UPDATE currency_rates
        SET amount = $3, last_updated_at = $4, last_updated_by = $5
        WHERE code = $1 AND rate_date = $2;
    `
	tag, err := r.db.Exec(ctx, query, code, date, amount, time.Now(), updaterUserID)
	if err != nil {
		return fmt.Errorf("failed to update currency rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRate permanently removes a rate record.
func (r *PgxRateRepository) DeleteRate(ctx context.Context, code string, date time.Time) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM currency_rates WHERE code = $1 AND rate_date = $2;`, code, date)
	if err != nil {
		return fmt.Errorf("failed to delete currency rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
