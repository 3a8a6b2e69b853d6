package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/core/ports/providers"
)

// HTTPProvider fetches rate quotes from a frankfurter-style JSON endpoint:
// GET {url}?base=MYR&symbols=USD,SGD returning {"base":"MYR","rates":{...}}.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a quote provider against the given endpoint URL.
func NewHTTPProvider(endpointURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		url: endpointURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ providers.QuoteProvider = (*HTTPProvider)(nil)

type quoteResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchLatest requests the current quotes for the symbols against the base
// currency. Any transport, status, or decode failure is returned as-is; the
// caller decides how to classify it.
func (p *HTTPProvider) FetchLatest(ctx context.Context, baseCurrency string, symbols []string) (*providers.QuoteSnapshot, error) {
	reqURL, err := url.Parse(p.url)
	if err != nil {
		return nil, fmt.Errorf("invalid quote provider url: %w", err)
	}
	q := reqURL.Query()
	q.Set("base", strings.ToUpper(baseCurrency))
	q.Set("symbols", strings.ToUpper(strings.Join(symbols, ",")))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	return &providers.QuoteSnapshot{
		BaseCurrency: strings.ToUpper(body.Base),
		Rates:        body.Rates,
		FetchedAt:    time.Now().UTC(),
	}, nil
}
