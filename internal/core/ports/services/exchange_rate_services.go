package services

import (
	"context"
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/poledger/po_settlement_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// ResolveRate returns the single best-matching rate for the pair as of the
	// given date: most recent effective date first, manual preferred over api
	// when dates tie. Fails with ErrRateNotFound when no rate is effective.
	// When fromCode equals toCode a synthetic 1.0 rate is returned without
	// touching storage.
	ResolveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves rate rows with optional filters.
	ListExchangeRates(ctx context.Context, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate appends a manually entered rate row.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// ConverterSvc resolves an applicable rate and computes a rounded
// base-currency amount. It is a pure function over the rate store.
type ConverterSvc interface {
	// Convert resolves the rate for fromCode against the configured base
	// currency as of asOf, multiplies, and rounds half-up to 2 decimal places.
	// ErrRateNotFound propagates unchanged.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode string, asOf time.Time) (*domain.ConversionResult, error)
}

// RateImportSvc pulls current market rates from the quote provider into the
// store. Triggered externally (endpoint or timer).
type RateImportSvc interface {
	// ImportLatestRates fetches the tracked basket, inverts the provider's
	// quote orientation into foreign->base, rounds to 6 decimal places and
	// persists all rows as one batch. Any failure yields ErrRateImportFailed
	// with nothing persisted; re-running for the same day is safe.
	ImportLatestRates(ctx context.Context) (int, error)
}
