package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/core/services"
	"github.com/poledger/po_settlement_app/internal/dto"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
	ctx          context.Context
}

func (s *ExchangeRateServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.service = services.NewExchangeRateService(s.mockRateRepo, "MYR")
	s.ctx = context.Background()
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "sgd",
		Rate:             decimal.RequireFromString("3.4500001"),
		DateEffective:    time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
	}

	s.mockRateRepo.On("SaveExchangeRate", s.ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(nil).Once()

	rate, err := s.service.CreateExchangeRate(s.ctx, req, "user-1")
	s.Require().NoError(err)
	s.Equal("SGD", rate.FromCurrencyCode)
	s.Equal("MYR", rate.ToCurrencyCode) // defaults to the base currency
	s.Equal("3.45", rate.Rate.String()) // rounded to 6 decimal places
	s.Equal(domain.RateSourceManual, rate.Source)
	s.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rate.DateEffective)
	s.Equal("user-1", rate.CreatedBy)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_NonPositiveRate() {
	for _, raw := range []string{"0", "-1.5"} {
		req := dto.CreateExchangeRateRequest{
			FromCurrencyCode: "SGD",
			Rate:             decimal.RequireFromString(raw),
			DateEffective:    time.Now(),
		}
		_, err := s.service.CreateExchangeRate(s.ctx, req, "user-1")
		s.ErrorIs(err, apperrors.ErrInvalidRate)
		s.ErrorIs(err, apperrors.ErrValidation)
	}
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRate")
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_BadCurrencyCode() {
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "SG",
		Rate:             decimal.RequireFromString("3.45"),
		DateEffective:    time.Now(),
	}
	_, err := s.service.CreateExchangeRate(s.ctx, req, "user-1")
	s.ErrorIs(err, apperrors.ErrInvalidRate)
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_SamePairRejected() {
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "MYR",
		ToCurrencyCode:   "myr",
		Rate:             decimal.RequireFromString("1.0"),
		DateEffective:    time.Now(),
	}
	_, err := s.service.CreateExchangeRate(s.ctx, req, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestResolveRate_PicksManualOverAPIOnSameDate() {
	asOf := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	effective := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candidates := []domain.ExchangeRate{
		{FromCurrencyCode: "SGD", ToCurrencyCode: "MYR", Rate: decimal.RequireFromString("3.50"), DateEffective: effective, Source: domain.RateSourceAPI},
		{FromCurrencyCode: "SGD", ToCurrencyCode: "MYR", Rate: decimal.RequireFromString("3.45"), DateEffective: effective, Source: domain.RateSourceManual},
	}

	s.mockRateRepo.On("FindRateCandidates", s.ctx, "SGD", "MYR", asOf.Truncate(24*time.Hour)).
		Return(candidates, nil).Once()

	rate, err := s.service.ResolveRate(s.ctx, "sgd", "myr", asOf)
	s.Require().NoError(err)
	s.Equal("3.45", rate.Rate.String())
	s.Equal(domain.RateSourceManual, rate.Source)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestResolveRate_NoneEffective() {
	asOf := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	s.mockRateRepo.On("FindRateCandidates", s.ctx, "SGD", "MYR", asOf).
		Return([]domain.ExchangeRate{}, nil).Once()

	_, err := s.service.ResolveRate(s.ctx, "SGD", "MYR", asOf)
	s.ErrorIs(err, apperrors.ErrRateNotFound)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Contains(err.Error(), "2023-12-31")
}

func (s *ExchangeRateServiceTestSuite) TestResolveRate_IdentityShortCircuits() {
	rate, err := s.service.ResolveRate(s.ctx, "MYR", "MYR", time.Now())
	s.Require().NoError(err)
	s.True(rate.Rate.Equal(decimal.NewFromInt(1)))
	s.Equal(domain.RateSourceIdentity, rate.Source)
	s.mockRateRepo.AssertNotCalled(s.T(), "FindRateCandidates")
}

func (s *ExchangeRateServiceTestSuite) TestResolveRate_BadCode() {
	_, err := s.service.ResolveRate(s.ctx, "S1D", "MYR", time.Now())
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestListExchangeRates_DefaultLimit() {
	s.mockRateRepo.On("ListExchangeRates", s.ctx, mock.MatchedBy(func(f portsrepo.ExchangeRateListFilter) bool {
		return f.Limit == 50 && f.Offset == 0
	})).Return([]domain.ExchangeRate{}, 0, nil).Once()

	_, _, err := s.service.ListExchangeRates(s.ctx, dto.ListExchangeRatesRequest{})
	s.NoError(err)
	s.mockRateRepo.AssertExpectations(s.T())
}
