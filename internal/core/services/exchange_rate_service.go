package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/dto"
	"github.com/poledger/po_settlement_app/internal/utils"
)

// exchangeRateService provides business logic for the exchange rate store.
type exchangeRateService struct {
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	baseCurrency string
}

// NewExchangeRateService creates a new exchange rate service. baseCurrency is
// the settlement currency rates default to when no target is given.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, baseCurrency string) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:     rateRepo,
		baseCurrency: strings.ToUpper(baseCurrency),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate appends a manually entered rate row.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrInvalidRate, req.Rate)
	}

	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)
	if toCode == "" {
		toCode = s.baseCurrency
	}
	if !utils.IsCurrencyCode(fromCode) || !utils.IsCurrencyCode(toCode) {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrInvalidRate)
	}
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate.Round(6),
		DateEffective:    req.DateEffective.UTC().Truncate(24 * time.Hour),
		Source:           domain.RateSourceManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}
	return &rate, nil
}

// ResolveRate returns the single best-matching rate for the pair as of the
// given date. The candidate set is every row effective on or before asOf;
// storage narrows it to the most recent effective date and
// domain.SelectBestRate breaks source ties explicitly.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if !utils.IsCurrencyCode(fromCode) || !utils.IsCurrencyCode(toCode) {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	asOf = asOf.UTC().Truncate(24 * time.Hour)

	// Identity conversion never touches storage.
	if fromCode == toCode {
		return &domain.ExchangeRate{
			FromCurrencyCode: fromCode,
			ToCurrencyCode:   toCode,
			Rate:             decimal.NewFromInt(1),
			DateEffective:    asOf,
			Source:           domain.RateSourceIdentity,
		}, nil
	}

	candidates, err := s.rateRepo.FindRateCandidates(ctx, fromCode, toCode, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exchange rate in service: %w", err)
	}

	best, ok := domain.SelectBestRate(candidates)
	if !ok {
		return nil, fmt.Errorf("%w: no rate for %s/%s effective on or before %s",
			apperrors.ErrRateNotFound, fromCode, toCode, asOf.Format("2006-01-02"))
	}
	return &best, nil
}

// ListExchangeRates retrieves rate rows with optional filters.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error) {
	filter := portsrepo.ExchangeRateListFilter{
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		EffectiveOn:      req.EffectiveOn,
		Limit:            req.Limit,
		Offset:           req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.rateRepo.ListExchangeRates(ctx, filter)
}
