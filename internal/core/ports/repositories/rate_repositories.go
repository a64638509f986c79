package repositories

import (
	"context"
	"time"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReader defines read operations for currency rate data
type RateReader interface {
	// FindRate retrieves the rate record for a (code, date) key.
	FindRate(ctx context.Context, code string, date time.Time) (*domain.CurrencyRate, error)

	// FindRatesByDate retrieves all rate records for a calendar date,
	// ordered by the fixed currency priority (EUR, USD, GBP).
	FindRatesByDate(ctx context.Context, date time.Time) ([]domain.CurrencyRate, error)
}

// RateWriter defines write operations for currency rate data
type RateWriter interface {
	// SaveRate inserts a new rate record. A duplicate (code, date) key
	// surfaces as apperrors.ErrDuplicate via the unique constraint.
	SaveRate(ctx context.Context, rate domain.CurrencyRate) error

	// UpdateRateAmount overwrites the amount of an existing record.
	UpdateRateAmount(ctx context.Context, code string, date time.Time, amount decimal.Decimal, updaterUserID string) error

	// DeleteRate permanently removes a rate record.
	DeleteRate(ctx context.Context, code string, date time.Time) error
}

// RateRepositoryFacade combines all rate-related repository interfaces.
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
