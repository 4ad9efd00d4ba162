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

type LimitRepository struct {
	pool *pgxpool.Pool
}

func NewLimitRepository(pool *pgxpool.Pool) *LimitRepository {
	return &LimitRepository{pool: pool}
}

func scanLimit(row pgx.Row) (domain.OperationLimit, error) {
	var (
		l         domain.OperationLimit
		threshold string
	)
	if err := row.Scan(&l.Name, &threshold, &l.UpdatedAt); err != nil {
		return domain.OperationLimit{}, err
	}

	var err error
	if l.Threshold, err = decimal.NewFromString(threshold); err != nil {
		return domain.OperationLimit{}, fmt.Errorf("failed to parse limit threshold %q: %w", threshold, err)
	}
	return l, nil
}

func (r *LimitRepository) Get(ctx context.Context, name string) (domain.OperationLimit, error) {
	const q = `select name, threshold::text, updated_at from operation_limits where name = $1;`

	l, err := scanLimit(conn(ctx, r.pool).QueryRow(ctx, q, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OperationLimit{}, domain.ErrLimitNotFound
		}
		return domain.OperationLimit{}, fmt.Errorf("failed to select limit %q: %w", name, err)
	}
	return l, nil
}

func (r *LimitRepository) List(ctx context.Context) ([]domain.OperationLimit, error) {
	const q = `select name, threshold::text, updated_at from operation_limits order by name;`

	rows, err := conn(ctx, r.pool).Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query limits: %w", err)
	}
	defer rows.Close()

	limits := make([]domain.OperationLimit, 0, 4)
	for rows.Next() {
		l, scanErr := scanLimit(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan limit: %w", scanErr)
		}
		limits = append(limits, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating limits: %w", err)
	}
	return limits, nil
}

// SetThreshold takes effect immediately for all subsequent operations.
func (r *LimitRepository) SetThreshold(ctx context.Context, name string, threshold decimal.Decimal) (domain.OperationLimit, error) {
	const q = `
		update operation_limits
		set threshold = $2, updated_at = now()
		where name = $1
		returning name, threshold::text, updated_at;
	`

	l, err := scanLimit(conn(ctx, r.pool).QueryRow(ctx, q, name, threshold.StringFixed(domain.AmountScale)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OperationLimit{}, domain.ErrLimitNotFound
		}
		return domain.OperationLimit{}, fmt.Errorf("failed to update limit %q: %w", name, err)
	}
	return l, nil
}
