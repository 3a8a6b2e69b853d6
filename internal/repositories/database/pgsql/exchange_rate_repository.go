package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	"github.com/poledger/po_settlement_app/internal/core/domain"
	portsrepo "github.com/poledger/po_settlement_app/internal/core/ports/repositories"
	"github.com/poledger/po_settlement_app/internal/models"
	"github.com/poledger/po_settlement_app/internal/utils/mapping"
)

const exchangeRateColumns = `
	exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, source,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the exchange rate repository ports
// using pgxpool. The table is append-only: rows are inserted and never
// updated or deleted.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

const insertExchangeRateSQL = `
	INSERT INTO exchange_rates (
		exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, source,
		created_at, created_by, last_updated_at, last_updated_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// SaveExchangeRate appends a single immutable rate row.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	m.FromCurrencyCode = strings.ToUpper(m.FromCurrencyCode)
	m.ToCurrencyCode = strings.ToUpper(m.ToCurrencyCode)

	_, err := r.Pool.Exec(ctx, insertExchangeRateSQL,
		m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode, m.Rate, m.DateEffective, m.Source,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// SaveExchangeRates appends a batch of rate rows in one transaction so a
// failed import run leaves nothing behind.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := mapping.ToModelExchangeRate(rate)
		batch.Queue(insertExchangeRateSQL,
			m.ExchangeRateID, strings.ToUpper(m.FromCurrencyCode), strings.ToUpper(m.ToCurrencyCode),
			m.Rate, m.DateEffective, m.Source,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range rates {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return apperrors.NewAppError(500, "failed to save exchange rate batch", err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close exchange rate batch", err)
	}

	return r.Commit(ctx, tx)
}

// FindRateCandidates returns every row for the pair sharing the single most
// recent effective date on or before asOf. Which of those rows wins is a
// query-time policy decided by the caller, not encoded in SQL ordering.
func (r *PgxExchangeRateRepository) FindRateCandidates(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		  AND date_effective = (
			SELECT MAX(date_effective) FROM exchange_rates
			WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		  )`

	rows, err := r.Pool.Query(ctx, query,
		strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rate candidates", err)
	}
	defer rows.Close()

	return scanExchangeRates(rows)
}

// ListExchangeRates retrieves rate rows matching the filter plus the total count.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, filter portsrepo.ExchangeRateListFilter) ([]domain.ExchangeRate, int, error) {
	baseQuery := `FROM exchange_rates WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.FromCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND from_currency_code = $%d", argNum)
		args = append(args, strings.ToUpper(*filter.FromCurrencyCode))
		argNum++
	}
	if filter.ToCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND to_currency_code = $%d", argNum)
		args = append(args, strings.ToUpper(*filter.ToCurrencyCode))
		argNum++
	}
	if filter.EffectiveOn != nil {
		baseQuery += fmt.Sprintf(" AND date_effective <= $%d", argNum)
		args = append(args, filter.EffectiveOn.UTC().Truncate(24*time.Hour))
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count exchange rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	query := "SELECT " + exchangeRateColumns + " " + baseQuery +
		" ORDER BY date_effective DESC, from_currency_code, to_currency_code"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates, err := scanExchangeRates(rows)
	if err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

func scanExchangeRates(rows pgx.Rows) ([]domain.ExchangeRate, error) {
	rates := []domain.ExchangeRate{}
	for rows.Next() {
		var m models.ExchangeRate
		err := rows.Scan(
			&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode, &m.Rate, &m.DateEffective, &m.Source,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return rates, nil
}
