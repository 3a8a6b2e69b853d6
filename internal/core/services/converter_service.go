package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/core/domain"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
)

// converterService computes base-currency settlement amounts. It holds no
// state of its own beyond the configured settlement currency; every call
// resolves a fresh rate through the exchange rate service.
type converterService struct {
	rateSvc      portssvc.ExchangeRateReaderSvc
	baseCurrency string
}

// NewConverterService creates a new converter against the given settlement
// currency.
func NewConverterService(rateSvc portssvc.ExchangeRateReaderSvc, baseCurrency string) portssvc.ConverterSvc {
	return &converterService{
		rateSvc:      rateSvc,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

var _ portssvc.ConverterSvc = (*converterService)(nil)

// Convert resolves the applicable rate, multiplies and rounds half-up to 2
// decimal places. ErrRateNotFound propagates unchanged to the caller.
func (s *converterService) Convert(ctx context.Context, amount decimal.Decimal, fromCode string, asOf time.Time) (*domain.ConversionResult, error) {
	rate, err := s.rateSvc.ResolveRate(ctx, fromCode, s.baseCurrency, asOf)
	if err != nil {
		return nil, err
	}

	return &domain.ConversionResult{
		ConvertedAmount: amount.Mul(rate.Rate).Round(2),
		RateUsed:        rate.Rate,
		RateSource:      rate.Source,
	}, nil
}
