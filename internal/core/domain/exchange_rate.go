package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource identifies how a rate row entered the store.
type RateSource string

const (
	// RateSourceManual marks a rate entered by a privileged user.
	RateSourceManual RateSource = "MANUAL"
	// RateSourceAPI marks a rate imported from the quote provider.
	RateSourceAPI RateSource = "API"
	// RateSourceIdentity marks the synthetic 1.0 rate for same-currency
	// conversions. Identity rates are never stored.
	RateSourceIdentity RateSource = "IDENTITY"
)

// Precedence orders sources when two rows share the same effective date.
// A human-entered correction on a given day takes precedence over an
// automated import for that same day; lower wins.
func (s RateSource) Precedence() int {
	switch s {
	case RateSourceManual:
		return 0
	case RateSourceAPI:
		return 1
	default:
		return 2
	}
}

// ExchangeRate is an immutable quote row: the conversion rate between two
// currencies effective from a specific calendar date. Rows are append-only;
// corrections are expressed as new rows, never as updates.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive, 6 decimal places
	DateEffective    time.Time       `json:"dateEffective"`
	Source           RateSource      `json:"source"`
	AuditFields
}

// SelectBestRate picks the authoritative row out of a candidate set: the most
// recent DateEffective wins, and within a single date the source with the
// lowest precedence value wins. Returns false when candidates is empty.
func SelectBestRate(candidates []ExchangeRate) (ExchangeRate, bool) {
	if len(candidates) == 0 {
		return ExchangeRate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.DateEffective.After(best.DateEffective) {
			best = c
			continue
		}
		if c.DateEffective.Equal(best.DateEffective) && c.Source.Precedence() < best.Source.Precedence() {
			best = c
		}
	}
	return best, true
}

// ConversionResult is the outcome of converting an amount into the base
// settlement currency.
type ConversionResult struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"` // Rounded to 2 decimal places
	RateUsed        decimal.Decimal `json:"rateUsed"`
	RateSource      RateSource      `json:"rateSource"`
}
