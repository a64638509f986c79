package dto

import (
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddRateRequest defines the payload for adding a daily exchange rate.
// Code is case-insensitive on input and canonicalized to uppercase.
// Amount is a pointer so the required binding can tell an absent field from
// a literal zero.
type AddRateRequest struct {
	Code   string           `json:"code" binding:"required"`
	Date   string           `json:"date" binding:"required,datetime=2006-01-02"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateRateRequest carries the replacement amount for an existing record.
type UpdateRateRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// RateResponse is the {code, date, amount} projection of a rate record.
type RateResponse struct {
	Code   string          `json:"code"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ToRateResponse converts a domain.CurrencyRate to its response projection.
func ToRateResponse(rate *domain.CurrencyRate) RateResponse {
	return RateResponse{
		Code:   rate.Code,
		Date:   rate.Date.Format(domain.RateDateLayout),
		Amount: rate.Amount,
	}
}

// ToListRateResponse converts a slice of rate records, preserving order.
func ToListRateResponse(rates []domain.CurrencyRate) []RateResponse {
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = ToRateResponse(&rates[i])
	}
	return responses
}
