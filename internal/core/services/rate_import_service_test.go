package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsprov "github.com/poledger/po_settlement_app/internal/core/ports/providers"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/core/services"
)

type RateImportServiceTestSuite struct {
	suite.Suite
	mockProvider *MockQuoteProvider
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.RateImportSvc
	ctx          context.Context
}

func (s *RateImportServiceTestSuite) SetupTest() {
	s.mockProvider = new(MockQuoteProvider)
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.service = services.NewRateImportService(s.mockProvider, s.mockRateRepo, "MYR", []string{"USD", "SGD"})
	s.ctx = context.Background()
}

func TestRateImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateImportServiceTestSuite))
}

func snapshot(base string, rates map[string]string) *portsprov.QuoteSnapshot {
	converted := make(map[string]decimal.Decimal, len(rates))
	for code, raw := range rates {
		converted[code] = decimal.RequireFromString(raw)
	}
	return &portsprov.QuoteSnapshot{
		BaseCurrency: base,
		Rates:        converted,
		FetchedAt:    time.Now().UTC(),
	}
}

func (s *RateImportServiceTestSuite) TestImport_InvertsQuotesToStoreOrientation() {
	// Provider quotes MYR->foreign; the store holds foreign->MYR.
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(snapshot("MYR", map[string]string{"USD": "0.21", "SGD": "0.29"}), nil).Once()

	var saved []domain.ExchangeRate
	s.mockRateRepo.On("SaveExchangeRates", s.ctx, mock.AnythingOfType("[]domain.ExchangeRate")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.ExchangeRate)
		}).Return(nil).Once()

	count, err := s.service.ImportLatestRates(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
	s.Require().Len(saved, 2)

	byCode := map[string]domain.ExchangeRate{}
	for _, r := range saved {
		byCode[r.FromCurrencyCode] = r
	}
	// 1/0.21 = 4.761904761... -> 4.761905 at 6 decimal places
	s.Equal("4.761905", byCode["USD"].Rate.String())
	// 1/0.29 = 3.448275862... -> 3.448276
	s.Equal("3.448276", byCode["SGD"].Rate.String())
	for _, r := range saved {
		s.Equal("MYR", r.ToCurrencyCode)
		s.Equal(domain.RateSourceAPI, r.Source)
		s.Equal("system:rate-import", r.CreatedBy)
	}
}

func (s *RateImportServiceTestSuite) TestImport_ProviderFailureNothingSaved() {
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(nil, errors.New("connection refused")).Once()

	_, err := s.service.ImportLatestRates(s.ctx)
	s.ErrorIs(err, apperrors.ErrRateImportFailed)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRates")
}

func (s *RateImportServiceTestSuite) TestImport_MissingSymbolAbortsBatch() {
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(snapshot("MYR", map[string]string{"USD": "0.21"}), nil).Once()

	_, err := s.service.ImportLatestRates(s.ctx)
	s.ErrorIs(err, apperrors.ErrRateImportFailed)
	s.Contains(err.Error(), "SGD")
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRates")
}

func (s *RateImportServiceTestSuite) TestImport_NonPositiveQuoteAbortsBatch() {
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(snapshot("MYR", map[string]string{"USD": "0.21", "SGD": "0"}), nil).Once()

	_, err := s.service.ImportLatestRates(s.ctx)
	s.ErrorIs(err, apperrors.ErrRateImportFailed)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRates")
}

func (s *RateImportServiceTestSuite) TestImport_WrongBaseCurrencyRejected() {
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(snapshot("USD", map[string]string{"USD": "1", "SGD": "1.38"}), nil).Once()

	_, err := s.service.ImportLatestRates(s.ctx)
	s.ErrorIs(err, apperrors.ErrRateImportFailed)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRates")
}

func (s *RateImportServiceTestSuite) TestImport_RepositoryFailureWrapped() {
	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD", "SGD"}).
		Return(snapshot("MYR", map[string]string{"USD": "0.21", "SGD": "0.29"}), nil).Once()
	s.mockRateRepo.On("SaveExchangeRates", s.ctx, mock.Anything).
		Return(errors.New("db down")).Once()

	_, err := s.service.ImportLatestRates(s.ctx)
	s.ErrorIs(err, apperrors.ErrRateImportFailed)
}

func (s *RateImportServiceTestSuite) TestImport_BaseCurrencyExcludedFromBasket() {
	service := services.NewRateImportService(s.mockProvider, s.mockRateRepo, "MYR", []string{"myr", "usd", " "})

	s.mockProvider.On("FetchLatest", s.ctx, "MYR", []string{"USD"}).
		Return(snapshot("MYR", map[string]string{"USD": "0.21"}), nil).Once()
	s.mockRateRepo.On("SaveExchangeRates", s.ctx, mock.Anything).Return(nil).Once()

	count, err := service.ImportLatestRates(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.mockProvider.AssertExpectations(s.T())
}
