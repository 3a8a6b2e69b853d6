package repositories

import (
	"context"
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

// ExchangeRateListFilter narrows ListExchangeRates. Nil fields are ignored.
type ExchangeRateListFilter struct {
	FromCurrencyCode *string
	ToCurrencyCode   *string
	EffectiveOn      *time.Time // rows effective on or before this date
	Limit            int
	Offset           int
}

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateCandidates returns all rows for the pair that share the single
	// most recent effective date on or before asOf. Source precedence among
	// them is query-time policy applied by the caller, not by storage. An
	// empty slice means no rate is effective for the date.
	FindRateCandidates(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) ([]domain.ExchangeRate, error)

	// ListExchangeRates retrieves rate rows matching the filter plus the total count.
	ListExchangeRates(ctx context.Context, filter ExchangeRateListFilter) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate appends a new immutable rate row.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// SaveExchangeRates appends a batch of rate rows in a single transaction;
	// either all rows are persisted or none are.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
