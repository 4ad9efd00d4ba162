package adapters

import (
	"context"
	"time"

	"exchpoint/internal/domain"

	"github.com/shopspring/decimal"
)

type ClientRepository interface {
	Create(ctx context.Context, passportNumber, fullName string, phoneNumber *string) (domain.Client, error)
	GetByID(ctx context.Context, id int64) (domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	// LockByID takes a row lock on the client for the duration of the
	// surrounding transaction, serializing operation creation per client.
	LockByID(ctx context.Context, id int64) error
}

type CurrencyRepository interface {
	Create(ctx context.Context, code, name string, buyRate, sellRate decimal.Decimal) (domain.Currency, error)
	UpdateRates(ctx context.Context, code string, buyRate, sellRate decimal.Decimal) (domain.Currency, error)
	GetByID(ctx context.Context, id int64) (domain.Currency, error)
	GetByCode(ctx context.Context, code string) (domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
}

type OperationRepository interface {
	Create(ctx context.Context, op domain.Operation) (domain.Operation, error)
	Cancel(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (domain.OperationRecord, error)
	GetByReference(ctx context.Context, reference string) (domain.OperationRecord, error)
	List(ctx context.Context, limit, offset int32) ([]domain.OperationRecord, error)
	// ListBetween returns non-cancelled operations created within [from, to].
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.OperationRecord, error)
	// DailyVolume sums amount_currency of the client's non-cancelled
	// operations in the given currency on the given calendar day.
	DailyVolume(ctx context.Context, clientID, currencyID int64, day time.Time) (decimal.Decimal, error)
}

type LimitRepository interface {
	Get(ctx context.Context, name string) (domain.OperationLimit, error)
	List(ctx context.Context) ([]domain.OperationLimit, error)
	SetThreshold(ctx context.Context, name string, threshold decimal.Decimal) (domain.OperationLimit, error)
}

// TxManager runs fn within a database transaction; repositories participate
// via the transaction carried in ctx.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CurrencyCache interface {
	Get(code string) (domain.Currency, bool)
	Set(currency domain.Currency)
	Del(code string)
}

type RatesClient interface {
	GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}
