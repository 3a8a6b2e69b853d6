package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poledger/po_settlement_app/internal/core/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rateRow(rate string, effective time.Time, source domain.RateSource) domain.ExchangeRate {
	return domain.ExchangeRate{
		FromCurrencyCode: "SGD",
		ToCurrencyCode:   "MYR",
		Rate:             decimal.RequireFromString(rate),
		DateEffective:    effective,
		Source:           source,
	}
}

func TestSelectBestRate_Empty(t *testing.T) {
	_, ok := domain.SelectBestRate(nil)
	assert.False(t, ok)

	_, ok = domain.SelectBestRate([]domain.ExchangeRate{})
	assert.False(t, ok)
}

func TestSelectBestRate_MostRecentDateWins(t *testing.T) {
	candidates := []domain.ExchangeRate{
		rateRow("3.40", day(2024, 1, 1), domain.RateSourceManual),
		rateRow("3.50", day(2024, 1, 3), domain.RateSourceAPI),
		rateRow("3.45", day(2024, 1, 2), domain.RateSourceManual),
	}

	best, ok := domain.SelectBestRate(candidates)
	require.True(t, ok)
	assert.Equal(t, "3.5", best.Rate.String())
	assert.Equal(t, domain.RateSourceAPI, best.Source)
}

func TestSelectBestRate_ManualBeatsAPIOnSameDate(t *testing.T) {
	effective := day(2024, 1, 2)
	candidates := []domain.ExchangeRate{
		rateRow("3.50", effective, domain.RateSourceAPI),
		rateRow("3.45", effective, domain.RateSourceManual),
	}

	best, ok := domain.SelectBestRate(candidates)
	require.True(t, ok)
	assert.Equal(t, "3.45", best.Rate.String())
	assert.Equal(t, domain.RateSourceManual, best.Source)

	// Order of candidates must not matter.
	best, ok = domain.SelectBestRate([]domain.ExchangeRate{candidates[1], candidates[0]})
	require.True(t, ok)
	assert.Equal(t, "3.45", best.Rate.String())
}

func TestSelectBestRate_SingleCandidate(t *testing.T) {
	best, ok := domain.SelectBestRate([]domain.ExchangeRate{
		rateRow("4.20", day(2023, 6, 15), domain.RateSourceAPI),
	})
	require.True(t, ok)
	assert.Equal(t, "4.2", best.Rate.String())
}

func TestRateSourcePrecedence(t *testing.T) {
	assert.Less(t, domain.RateSourceManual.Precedence(), domain.RateSourceAPI.Precedence())
	assert.Greater(t, domain.RateSource("BOGUS").Precedence(), domain.RateSourceAPI.Precedence())
}
