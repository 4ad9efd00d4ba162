package postgres

import (
	"context"
	"errors"
	"fmt"

	"exchpoint/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Create(ctx context.Context, passportNumber, fullName string, phoneNumber *string) (domain.Client, error) {
	const q = `
		insert into clients (passport_number, full_name, phone_number)
		values ($1, $2, $3)
		returning id, passport_number, full_name, phone_number, created_at;
	`

	var c domain.Client
	err := conn(ctx, r.pool).QueryRow(ctx, q, passportNumber, fullName, phoneNumber).Scan(
		&c.ID,
		&c.PassportNumber,
		&c.FullName,
		&c.PhoneNumber,
		&c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "clients_passport_number_key") {
			return domain.Client{}, domain.ErrClientExists
		}
		return domain.Client{}, fmt.Errorf("failed to insert client %q: %w", passportNumber, err)
	}
	return c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	const q = `
		select id, passport_number, full_name, phone_number, created_at
		from clients
		where id = $1;
	`

	var c domain.Client
	err := conn(ctx, r.pool).QueryRow(ctx, q, id).Scan(
		&c.ID,
		&c.PassportNumber,
		&c.FullName,
		&c.PhoneNumber,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to select client %d: %w", id, err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const q = `
		select id, passport_number, full_name, phone_number, created_at
		from clients
		order by full_name;
	`

	rows, err := conn(ctx, r.pool).Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0, 32)
	for rows.Next() {
		var c domain.Client
		if err = rows.Scan(&c.ID, &c.PassportNumber, &c.FullName, &c.PhoneNumber, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// LockByID must run within a transaction; the lock is held until commit.
func (r *ClientRepository) LockByID(ctx context.Context, id int64) error {
	const q = `select id from clients where id = $1 for update;`

	var locked int64
	if err := conn(ctx, r.pool).QueryRow(ctx, q, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrClientNotFound
		}
		return mapLockErr(fmt.Errorf("failed to lock client %d: %w", id, err))
	}
	return nil
}
