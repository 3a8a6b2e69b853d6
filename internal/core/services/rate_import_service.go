package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsprov "github.com/poledger/po_settlement_app/internal/core/ports/providers"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/middleware"
)

// rateImportActor is the audit identity recorded on imported rows.
const rateImportActor = "system:rate-import"

// rateImportService pulls the tracked currency basket from the quote provider
// into the store. Each run is all-or-nothing; a run for a day that was already
// imported simply appends another api-sourced row per currency, which
// resolution treats identically.
type rateImportService struct {
	provider     portsprov.QuoteProvider
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	baseCurrency string
	tracked      []string
}

// NewRateImportService creates a new rate import service for the given
// settlement currency and tracked basket.
func NewRateImportService(provider portsprov.QuoteProvider, rateRepo portsrepo.ExchangeRateRepositoryFacade, baseCurrency string, tracked []string) portssvc.RateImportSvc {
	normalized := make([]string, 0, len(tracked))
	for _, code := range tracked {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" && code != strings.ToUpper(baseCurrency) {
			normalized = append(normalized, code)
		}
	}
	return &rateImportService{
		provider:     provider,
		rateRepo:     rateRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
		tracked:      normalized,
	}
}

var _ portssvc.RateImportSvc = (*rateImportService)(nil)

// ImportLatestRates fetches the basket, inverts the provider's base->foreign
// quotes into the store's foreign->base orientation, rounds to 6 decimal
// places and persists the whole batch in one transaction. Any failure yields
// ErrRateImportFailed with nothing persisted.
func (s *rateImportService) ImportLatestRates(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snapshot, err := s.provider.FetchLatest(ctx, s.baseCurrency, s.tracked)
	if err != nil {
		return 0, fmt.Errorf("%w: provider fetch: %v", apperrors.ErrRateImportFailed, err)
	}
	if strings.ToUpper(snapshot.BaseCurrency) != s.baseCurrency {
		return 0, fmt.Errorf("%w: provider quoted against %s, expected %s",
			apperrors.ErrRateImportFailed, snapshot.BaseCurrency, s.baseCurrency)
	}

	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)
	one := decimal.NewFromInt(1)

	rows := make([]domain.ExchangeRate, 0, len(s.tracked))
	for _, code := range s.tracked {
		quote, ok := snapshot.Rates[code]
		if !ok {
			// A partial response aborts the whole batch.
			return 0, fmt.Errorf("%w: provider response missing %s", apperrors.ErrRateImportFailed, code)
		}
		if quote.LessThanOrEqual(decimal.Zero) {
			return 0, fmt.Errorf("%w: provider quoted non-positive rate %s for %s", apperrors.ErrRateImportFailed, quote, code)
		}

		// Provider quotes base->foreign; the store holds foreign->base.
		inverted := one.Div(quote).Round(6)

		rows = append(rows, domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: code,
			ToCurrencyCode:   s.baseCurrency,
			Rate:             inverted,
			DateEffective:    today,
			Source:           domain.RateSourceAPI,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     rateImportActor,
				LastUpdatedAt: now,
				LastUpdatedBy: rateImportActor,
			},
		})
	}

	if err := s.rateRepo.SaveExchangeRates(ctx, rows); err != nil {
		return 0, fmt.Errorf("%w: persisting batch: %v", apperrors.ErrRateImportFailed, err)
	}

	logger.Info("Imported exchange rates",
		slog.Int("count", len(rows)),
		slog.String("base_currency", s.baseCurrency),
		slog.Time("date_effective", today),
	)
	return len(rows), nil
}
