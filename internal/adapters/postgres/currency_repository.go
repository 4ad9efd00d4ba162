package postgres

import (
	"context"
	"errors"
	"fmt"

	"exchpoint/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CurrencyRepository struct {
	pool *pgxpool.Pool
}

func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

// Numerics travel as text so values round-trip without float conversion.
const currencyColumns = `
	id, code, name, buy_rate::text, sell_rate::text,
	last_rate_update_at, created_at, updated_at
`

func scanCurrency(row pgx.Row) (domain.Currency, error) {
	var (
		c        domain.Currency
		buyRate  string
		sellRate string
	)
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&buyRate,
		&sellRate,
		&c.LastRateUpdateAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return domain.Currency{}, err
	}

	var err error
	if c.BuyRate, err = decimal.NewFromString(buyRate); err != nil {
		return domain.Currency{}, fmt.Errorf("failed to parse buy rate %q: %w", buyRate, err)
	}
	if c.SellRate, err = decimal.NewFromString(sellRate); err != nil {
		return domain.Currency{}, fmt.Errorf("failed to parse sell rate %q: %w", sellRate, err)
	}
	return c, nil
}

func (r *CurrencyRepository) Create(ctx context.Context, code, name string, buyRate, sellRate decimal.Decimal) (domain.Currency, error) {
	const q = `
		insert into currencies (code, name, buy_rate, sell_rate)
		values ($1, $2, $3, $4)
		returning ` + currencyColumns + `;`

	c, err := scanCurrency(conn(ctx, r.pool).QueryRow(ctx, q,
		code, name, buyRate.StringFixed(domain.RateScale), sellRate.StringFixed(domain.RateScale)))
	if err != nil {
		if isUniqueViolation(err, "currencies_code_key") {
			return domain.Currency{}, domain.ErrCurrencyExists
		}
		return domain.Currency{}, fmt.Errorf("failed to insert currency %q: %w", code, err)
	}
	return c, nil
}

// UpdateRates replaces both rates; the name stays immutable after creation.
func (r *CurrencyRepository) UpdateRates(ctx context.Context, code string, buyRate, sellRate decimal.Decimal) (domain.Currency, error) {
	const q = `
		update currencies
		set buy_rate = $2, sell_rate = $3, last_rate_update_at = now(), updated_at = now()
		where code = $1
		returning ` + currencyColumns + `;`

	c, err := scanCurrency(conn(ctx, r.pool).QueryRow(ctx, q,
		code, buyRate.StringFixed(domain.RateScale), sellRate.StringFixed(domain.RateScale)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, domain.ErrCurrencyNotFound
		}
		return domain.Currency{}, fmt.Errorf("failed to update rates for %q: %w", code, err)
	}
	return c, nil
}

func (r *CurrencyRepository) GetByID(ctx context.Context, id int64) (domain.Currency, error) {
	const q = `select ` + currencyColumns + ` from currencies where id = $1;`

	c, err := scanCurrency(conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, domain.ErrCurrencyNotFound
		}
		return domain.Currency{}, fmt.Errorf("failed to select currency %d: %w", id, err)
	}
	return c, nil
}

func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (domain.Currency, error) {
	const q = `select ` + currencyColumns + ` from currencies where code = $1;`

	c, err := scanCurrency(conn(ctx, r.pool).QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, domain.ErrCurrencyNotFound
		}
		return domain.Currency{}, fmt.Errorf("failed to select currency %q: %w", code, err)
	}
	return c, nil
}

func (r *CurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	const q = `select ` + currencyColumns + ` from currencies order by code;`

	rows, err := conn(ctx, r.pool).Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies := make([]domain.Currency, 0, 16)
	for rows.Next() {
		c, scanErr := scanCurrency(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", scanErr)
		}
		currencies = append(currencies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}
