package dto

import (
	"time"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for a manual rate entry.
// ToCurrencyCode is optional and defaults to the configured base currency.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,currency"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"omitempty,currency"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ListExchangeRatesRequest defines the query parameters for listing rates.
type ListExchangeRatesRequest struct {
	FromCurrencyCode *string    `form:"from" binding:"omitempty,currency"`
	ToCurrencyCode   *string    `form:"to" binding:"omitempty,currency"`
	EffectiveOn      *time.Time `form:"effectiveOn" time_format:"2006-01-02"`
	Limit            int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Offset           int        `form:"offset" binding:"omitempty,min=0"`
}

// ExchangeRateResponse defines the structure for API responses containing rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	Source           string          `json:"source,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective,
		Source:           string(rate.Source),
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain rates to response DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// ConvertRequest defines the query parameters for a display-only conversion.
type ConvertRequest struct {
	Amount           decimal.Decimal `form:"amount" binding:"required"`
	FromCurrencyCode string          `form:"from" binding:"required,currency"`
	AsOfDate         *time.Time      `form:"asOf" time_format:"2006-01-02"`
}

// ConvertResponse carries a converted amount together with the rate used.
type ConvertResponse struct {
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	CurrencyCode     string          `json:"currencyCode"` // base settlement currency
	RateUsed         decimal.Decimal `json:"rateUsed"`
	RateSource       string          `json:"rateSource,omitempty"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
}

// ImportRatesResponse reports the outcome of an import run.
type ImportRatesResponse struct {
	Imported int `json:"imported"`
}
