package providers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteSnapshot is one quote provider response: a set of rates quoted against
// the provider's declared base currency.
type QuoteSnapshot struct {
	BaseCurrency string
	Rates        map[string]decimal.Decimal
	FetchedAt    time.Time
}

// QuoteProvider fetches current market rates for a basket of currencies.
// Implementations must bound the call with a timeout; a timeout or partial
// response is an error, not a partial result.
type QuoteProvider interface {
	FetchLatest(ctx context.Context, baseCurrency string, symbols []string) (*QuoteSnapshot, error)
}
