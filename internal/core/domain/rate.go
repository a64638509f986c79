package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateDateLayout is the calendar-date wire format for rate records.
const RateDateLayout = "2006-01-02"

// currencyPriority is the fixed ordering for rate listings. It is not
// alphabetical; EUR sorts first, then USD, then GBP.
var currencyPriority = []string{"EUR", "USD", "GBP"}

// SupportedCurrencyCodes returns the currency codes accepted by the API, in
// listing priority order.
func SupportedCurrencyCodes() []string {
	out := make([]string, len(currencyPriority))
	copy(out, currencyPriority)
	return out
}

// ParseCurrencyCode canonicalizes a currency code to uppercase. Input is
// case-insensitive; unknown codes are rejected.
func ParseCurrencyCode(s string) (string, bool) {
	code := strings.ToUpper(s)
	for _, c := range currencyPriority {
		if c == code {
			return code, true
		}
	}
	return "", false
}

// CurrencyRate is a daily exchange-rate record, keyed by (code, date).
// At most one record may exist per key; the currency_rates table enforces
// this with a unique constraint.
type CurrencyRate struct {
	Code   string          `json:"code"`   // EUR, USD or GBP
	Date   time.Time       `json:"date"`   // calendar date, no time component
	Amount decimal.Decimal `json:"amount"` // numeric rate value
	AuditFields
}
