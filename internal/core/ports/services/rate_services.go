package services

import (
	"context"

	"github.com/fxdesk/fxrates_app/internal/core/domain"
	"github.com/fxdesk/fxrates_app/internal/dto"
)

// RateSvcFacade provides the business logic for daily exchange rates.
// Code and date arguments arrive as raw request strings; the service owns
// format validation and canonicalization.
type RateSvcFacade interface {
	// AddRate persists a new rate record. A duplicate (code, date) key
	// returns the existing record together with apperrors.ErrDuplicate so
	// the handler can include it in the conflict response. Future dates
	// are rejected as validation errors.
	AddRate(ctx context.Context, req dto.AddRateRequest, creatorUserID string) (*domain.CurrencyRate, error)

	// UpdateRate overwrites the amount of an existing record.
	UpdateRate(ctx context.Context, code, date string, req dto.UpdateRateRequest, updaterUserID string) (*domain.CurrencyRate, error)

	// DeleteRate removes a record and returns its prior state.
	DeleteRate(ctx context.Context, code, date string) (*domain.CurrencyRate, error)

	// ListRates returns all records for a calendar date in fixed currency
	// priority order, or apperrors.ErrNotFound when none exist.
	ListRates(ctx context.Context, date string) ([]domain.CurrencyRate, error)

	// GetRate returns the single record for a (code, date) key.
	GetRate(ctx context.Context, code, date string) (*domain.CurrencyRate, error)
}
