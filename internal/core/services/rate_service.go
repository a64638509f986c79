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
	"github.com/fxdesk/fxrates_app/internal/dto"
)

// rateService implements RateSvcFacade for daily exchange-rate records.
type rateService struct {
	rateRepo portsrepo.RateRepositoryFacade
}

// NewRateService creates a new rateService.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) portssvc.RateSvcFacade {
	return &rateService{rateRepo: rateRepo}
}

// parseKey validates and canonicalizes the raw (code, date) request strings.
func parseKey(code, date string) (string, time.Time, error) {
	fieldErrs := apperrors.FieldErrors{}

	canonical, ok := domain.ParseCurrencyCode(code)
	if !ok {
		fieldErrs.Add("code", "The selected code is invalid.")
	}

	day, err := time.Parse(domain.RateDateLayout, date)
	if err != nil {
		fieldErrs.Add("date", "The date does not match the format Y-m-d.")
	}

	if len(fieldErrs) > 0 {
		return "", time.Time{}, fieldErrs
	}
	return canonical, day, nil
}

// parseDate validates a raw date string on its own.
func parseDate(date string) (time.Time, error) {
	day, err := time.Parse(domain.RateDateLayout, date)
	if err != nil {
		return time.Time{}, apperrors.FieldErrors{"date": {"The date does not match the format Y-m-d."}}
	}
	return day, nil
}

// AddRate persists a new rate record. Duplicate keys return the existing
// record alongside apperrors.ErrDuplicate; the unique constraint on
// (code, rate_date) closes the window between the pre-check and the insert.
func (s *rateService) AddRate(ctx context.Context, req dto.AddRateRequest, creatorUserID string) (*domain.CurrencyRate, error) {
	code, day, err := parseKey(req.Code, req.Date)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, apperrors.FieldErrors{"amount": {"The amount field is required."}}
	}

	if day.After(time.Now()) {
		return nil, fmt.Errorf("%w: cannot add currency exchange rate for a future date", apperrors.ErrValidation)
	}

	existing, err := s.rateRepo.FindRate(ctx, code, day)
	if err == nil {
		return existing, fmt.Errorf("%w: rate for %s on %s", apperrors.ErrDuplicate, code, req.Date)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing rate: %w", err)
	}

	now := time.Now()
	rate := domain.CurrencyRate{
		Code:   code,
		Date:   day,
		Amount: *req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race to a concurrent insert; report the winner. A
			// duplicate error is only surfaced together with the winning
			// record, so a failed reload becomes a plain internal error.
			winner, findErr := s.rateRepo.FindRate(ctx, code, day)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load winning rate after duplicate insert: %w", findErr)
			}
			return winner, fmt.Errorf("%w: rate for %s on %s", apperrors.ErrDuplicate, code, req.Date)
		}
		return nil, fmt.Errorf("failed to add currency rate: %w", err)
	}

	return &rate, nil
}

// UpdateRate overwrites the amount of an existing record.
func (s *rateService) UpdateRate(ctx context.Context, code, date string, req dto.UpdateRateRequest, updaterUserID string) (*domain.CurrencyRate, error) {
	canonical, day, err := parseKey(code, date)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, apperrors.FieldErrors{"amount": {"The amount field is required."}}
	}

	if _, err := s.rateRepo.FindRate(ctx, canonical, day); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate for update: %w", err)
	}

	if err := s.rateRepo.UpdateRateAmount(ctx, canonical, day, *req.Amount, updaterUserID); err != nil {
		return nil, fmt.Errorf("failed to update currency rate: %w", err)
	}

	updated, err := s.rateRepo.FindRate(ctx, canonical, day)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated rate: %w", err)
	}
	return updated, nil
}

// DeleteRate removes a record and returns its prior state. Deletion is
// permanent; there is no soft delete.
func (s *rateService) DeleteRate(ctx context.Context, code, date string) (*domain.CurrencyRate, error) {
	canonical, day, err := parseKey(code, date)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindRate(ctx, canonical, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate for deletion: %w", err)
	}

	if err := s.rateRepo.DeleteRate(ctx, canonical, day); err != nil {
		return nil, fmt.Errorf("failed to delete currency rate: %w", err)
	}

	return rate, nil
}

// ListRates returns all records for a calendar date in fixed priority order.
func (s *rateService) ListRates(ctx context.Context, date string) ([]domain.CurrencyRate, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	rates, err := s.rateRepo.FindRatesByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return rates, nil
}

// GetRate returns the single record for a (code, date) key.
func (s *rateService) GetRate(ctx context.Context, code, date string) (*domain.CurrencyRate, error) {
	canonical, day, err := parseKey(code, date)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindRate(ctx, canonical, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get currency rate: %w", err)
	}
	return rate, nil
}
