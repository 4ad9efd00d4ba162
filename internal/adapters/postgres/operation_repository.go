package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exchpoint/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OperationRepository struct {
	pool *pgxpool.Pool
}

func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

const operationRecordColumns = `
	o.id, o.client_id, o.currency_id, o.operation_type,
	o.amount_currency::text, o.amount_rub::text, o.effective_rate::text,
	o.receipt_reference, o.cancelled_at, o.created_at,
	c.full_name, c.passport_number, cur.code, cur.name
`

const operationRecordFrom = `
	from operations o
	join clients c on o.client_id = c.id
	join currencies cur on o.currency_id = cur.id
`

func scanOperationRecord(row pgx.Row) (domain.OperationRecord, error) {
	var (
		rec            domain.OperationRecord
		amountCurrency string
		amountRub      string
		effectiveRate  string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ClientID,
		&rec.CurrencyID,
		&rec.OperationType,
		&amountCurrency,
		&amountRub,
		&effectiveRate,
		&rec.ReceiptReference,
		&rec.CancelledAt,
		&rec.CreatedAt,
		&rec.ClientName,
		&rec.ClientPassportNumber,
		&rec.CurrencyCode,
		&rec.CurrencyName,
	); err != nil {
		return domain.OperationRecord{}, err
	}

	var err error
	if rec.AmountCurrency, err = decimal.NewFromString(amountCurrency); err != nil {
		return domain.OperationRecord{}, fmt.Errorf("failed to parse currency amount %q: %w", amountCurrency, err)
	}
	if rec.AmountRub, err = decimal.NewFromString(amountRub); err != nil {
		return domain.OperationRecord{}, fmt.Errorf("failed to parse rub amount %q: %w", amountRub, err)
	}
	if rec.EffectiveRate, err = decimal.NewFromString(effectiveRate); err != nil {
		return domain.OperationRecord{}, fmt.Errorf("failed to parse effective rate %q: %w", effectiveRate, err)
	}
	return rec, nil
}

func (r *OperationRepository) Create(ctx context.Context, op domain.Operation) (domain.Operation, error) {
	const q = `
		insert into operations (
			client_id, currency_id, operation_type,
			amount_currency, amount_rub, effective_rate, receipt_reference
		)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at;
	`

	err := conn(ctx, r.pool).QueryRow(ctx, q,
		op.ClientID,
		op.CurrencyID,
		string(op.OperationType),
		op.AmountCurrency.StringFixed(domain.AmountScale),
		op.AmountRub.StringFixed(domain.AmountScale),
		op.EffectiveRate.StringFixed(domain.RateScale),
		op.ReceiptReference,
	).Scan(&op.ID, &op.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "operations_receipt_reference_key") {
			return domain.Operation{}, domain.ErrReceiptReferenceTaken
		}
		return domain.Operation{}, fmt.Errorf("failed to insert operation: %w", err)
	}
	return op, nil
}

// Cancel is a single atomic transition; computed fields are never touched.
func (r *OperationRepository) Cancel(ctx context.Context, id int64) error {
	const q = `
		update operations
		set cancelled_at = now()
		where id = $1 and cancelled_at is null;
	`

	tag, err := conn(ctx, r.pool).Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to cancel operation %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var cancelled bool
		checkErr := conn(ctx, r.pool).
			QueryRow(ctx, `select cancelled_at is not null from operations where id = $1`, id).
			Scan(&cancelled)
		if errors.Is(checkErr, pgx.ErrNoRows) {
			return domain.ErrOperationNotFound
		}
		if checkErr != nil {
			return fmt.Errorf("failed to check operation %d: %w", id, checkErr)
		}
		if cancelled {
			return domain.ErrOperationCancelled
		}
		return domain.ErrOperationNotFound
	}
	return nil
}

func (r *OperationRepository) GetByID(ctx context.Context, id int64) (domain.OperationRecord, error) {
	const q = `select ` + operationRecordColumns + operationRecordFrom + ` where o.id = $1;`

	rec, err := scanOperationRecord(conn(ctx, r.pool).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OperationRecord{}, domain.ErrOperationNotFound
		}
		return domain.OperationRecord{}, fmt.Errorf("failed to select operation %d: %w", id, err)
	}
	return rec, nil
}

func (r *OperationRepository) GetByReference(ctx context.Context, reference string) (domain.OperationRecord, error) {
	const q = `select ` + operationRecordColumns + operationRecordFrom + ` where o.receipt_reference = $1;`

	rec, err := scanOperationRecord(conn(ctx, r.pool).QueryRow(ctx, q, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.OperationRecord{}, domain.ErrReceiptNotFound
		}
		return domain.OperationRecord{}, fmt.Errorf("failed to select operation by reference %q: %w", reference, err)
	}
	return rec, nil
}

func (r *OperationRepository) List(ctx context.Context, limit, offset int32) ([]domain.OperationRecord, error) {
	const q = `
		select ` + operationRecordColumns + operationRecordFrom + `
		order by o.created_at desc, o.id desc
		limit $1 offset $2;
	`

	rows, err := conn(ctx, r.pool).Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	return collectOperationRecords(rows)
}

func (r *OperationRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.OperationRecord, error) {
	const q = `
		select ` + operationRecordColumns + operationRecordFrom + `
		where o.cancelled_at is null and o.created_at between $1 and $2
		order by o.created_at;
	`

	rows, err := conn(ctx, r.pool).Query(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations between %s and %s: %w", from, to, err)
	}
	defer rows.Close()

	return collectOperationRecords(rows)
}

func (r *OperationRepository) DailyVolume(ctx context.Context, clientID, currencyID int64, day time.Time) (decimal.Decimal, error) {
	const q = `
		select coalesce(sum(amount_currency), 0)::text
		from operations
		where client_id = $1
		  and currency_id = $2
		  and cancelled_at is null
		  and created_at >= $3 and created_at < $4;
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var total string
	err := conn(ctx, r.pool).QueryRow(ctx, q, clientID, currencyID, dayStart, dayEnd).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum daily volume for client %d currency %d: %w", clientID, currencyID, err)
	}

	volume, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse daily volume %q: %w", total, err)
	}
	return volume, nil
}

func collectOperationRecords(rows pgx.Rows) ([]domain.OperationRecord, error) {
	records := make([]domain.OperationRecord, 0, 32)
	for rows.Next() {
		rec, err := scanOperationRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}
	return records, nil
}
