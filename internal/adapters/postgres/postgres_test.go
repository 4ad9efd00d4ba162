package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"exchpoint/internal/adapters/postgres"
	"exchpoint/internal/domain"
	"exchpoint/internal/exchange"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table operations, clients, currencies restart identity cascade`); err != nil {
		return err
	}
	// Limits are seeded by migration; restore the defaults instead of truncating.
	if _, err := pool.Exec(ctx, `update operation_limits set threshold = 10000.0000 where name = 'single_operation_amount'`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `update operation_limits set threshold = 40000.0000 where name = 'daily_currency_volume'`); err != nil {
		return err
	}
	return nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedClient(t *testing.T, pool *pgxpool.Pool, passport, name string) domain.Client {
	t.Helper()
	repo := postgres.NewClientRepository(pool)
	c, err := repo.Create(context.Background(), passport, name, nil)
	require.NoError(t, err)
	return c
}

func seedCurrency(t *testing.T, pool *pgxpool.Pool, code, name, buy, sell string) domain.Currency {
	t.Helper()
	repo := postgres.NewCurrencyRepository(pool)
	c, err := repo.Create(context.Background(), code, name, dec(t, buy), dec(t, sell))
	require.NoError(t, err)
	return c
}

// ---------- ClientRepository tests ----------

func TestClientRepository_Create_And_GetByID(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewClientRepository(pool)
	ctx := context.Background()

	phone := "+74951234567"
	created, err := repo.Create(ctx, "4510 123456", "Ivanov Ivan", &phone)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "4510 123456", got.PassportNumber)
	require.Equal(t, "Ivanov Ivan", got.FullName)
	require.NotNil(t, got.PhoneNumber)
	require.Equal(t, phone, *got.PhoneNumber)
}

func TestClientRepository_Create_DuplicatePassport(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewClientRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "4510 123456", "Ivanov Ivan", nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "4510 123456", "Petrov Petr", nil)
	require.ErrorIs(t, err, domain.ErrClientExists)
}

func TestClientRepository_GetByID_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewClientRepository(pool)

	_, err := repo.GetByID(context.Background(), 12345)
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestClientRepository_List(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewClientRepository(pool)
	ctx := context.Background()

	seedClient(t, pool, "4510 111111", "First")
	seedClient(t, pool, "4510 222222", "Second")

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
}

func TestClientRepository_LockByID_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	tm := postgres.NewTxManager(pool)

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return postgres.NewClientRepository(pool).LockByID(ctx, 999)
	})
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

// ---------- CurrencyRepository tests ----------

func TestCurrencyRepository_Create_And_GetByCode(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "USD", "US Dollar", dec(t, "90.5"), dec(t, "92.25"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByCode(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "USD", got.Code)
	require.Equal(t, "US Dollar", got.Name)
	require.True(t, got.BuyRate.Equal(dec(t, "90.5")), "buy rate %s", got.BuyRate)
	require.True(t, got.SellRate.Equal(dec(t, "92.25")), "sell rate %s", got.SellRate)
	require.False(t, got.LastRateUpdateAt.IsZero())
}

func TestCurrencyRepository_Create_Duplicate(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "USD", "US Dollar", dec(t, "90"), dec(t, "92"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, "USD", "Dollar again", dec(t, "91"), dec(t, "93"))
	require.ErrorIs(t, err, domain.ErrCurrencyExists)
}

func TestCurrencyRepository_UpdateRates(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, "EUR", "Euro", dec(t, "99"), dec(t, "101"))
	require.NoError(t, err)

	updated, err := repo.UpdateRates(ctx, "EUR", dec(t, "99.5"), dec(t, "101.5"))
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.True(t, updated.BuyRate.Equal(dec(t, "99.5")))
	require.True(t, updated.SellRate.Equal(dec(t, "101.5")))
	require.False(t, updated.LastRateUpdateAt.Before(created.LastRateUpdateAt))
}

func TestCurrencyRepository_UpdateRates_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)

	_, err := repo.UpdateRates(context.Background(), "JPY", dec(t, "0.6"), dec(t, "0.65"))
	require.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

// ---------- LimitRepository tests ----------

func TestLimitRepository_SeededDefaults(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewLimitRepository(pool)
	ctx := context.Background()

	single, err := repo.Get(ctx, domain.LimitSingleOperationAmount)
	require.NoError(t, err)
	require.True(t, single.Threshold.Equal(dec(t, "10000")))

	daily, err := repo.Get(ctx, domain.LimitDailyCurrencyVolume)
	require.NoError(t, err)
	require.True(t, daily.Threshold.Equal(dec(t, "40000")))

	limits, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, limits, 2)
}

func TestLimitRepository_SetThreshold(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewLimitRepository(pool)
	ctx := context.Background()

	updated, err := repo.SetThreshold(ctx, domain.LimitSingleOperationAmount, dec(t, "2500"))
	require.NoError(t, err)
	require.True(t, updated.Threshold.Equal(dec(t, "2500")))

	got, err := repo.Get(ctx, domain.LimitSingleOperationAmount)
	require.NoError(t, err)
	require.True(t, got.Threshold.Equal(dec(t, "2500")))
}

func TestLimitRepository_Get_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewLimitRepository(pool)

	_, err := repo.Get(context.Background(), "weekly_volume")
	require.ErrorIs(t, err, domain.ErrLimitNotFound)
}

// ---------- OperationRepository tests ----------

func insertOperation(t *testing.T, pool *pgxpool.Pool, clientID, currencyID int64, reference, amountCurrency string) domain.Operation {
	t.Helper()
	repo := postgres.NewOperationRepository(pool)
	op, err := repo.Create(context.Background(), domain.Operation{
		ClientID:         clientID,
		CurrencyID:       currencyID,
		OperationType:    domain.ClientSellsToExchange,
		AmountCurrency:   dec(t, amountCurrency),
		AmountRub:        dec(t, amountCurrency).Mul(dec(t, "90")),
		EffectiveRate:    dec(t, "90"),
		ReceiptReference: reference,
	})
	require.NoError(t, err)
	return op
}

func TestOperationRepository_Create_And_GetByReference(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")

	created := insertOperation(t, pool, client.ID, currency.ID, "RCPT-00000000000000AA", "100")
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	rec, err := repo.GetByReference(ctx, "RCPT-00000000000000AA")
	require.NoError(t, err)
	require.Equal(t, created.ID, rec.ID)
	require.Equal(t, "Ivanov Ivan", rec.ClientName)
	require.Equal(t, "4510 123456", rec.ClientPassportNumber)
	require.Equal(t, "USD", rec.CurrencyCode)
	require.True(t, rec.AmountCurrency.Equal(dec(t, "100")))
	require.True(t, rec.AmountRub.Equal(dec(t, "9000")))
	require.False(t, rec.Cancelled())
}

func TestOperationRepository_Create_DuplicateReference(t *testing.T) {
	pool := setupPostgres(t)

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")

	insertOperation(t, pool, client.ID, currency.ID, "RCPT-00000000000000AA", "100")

	repo := postgres.NewOperationRepository(pool)
	_, err := repo.Create(context.Background(), domain.Operation{
		ClientID:         client.ID,
		CurrencyID:       currency.ID,
		OperationType:    domain.ClientSellsToExchange,
		AmountCurrency:   dec(t, "50"),
		AmountRub:        dec(t, "4500"),
		EffectiveRate:    dec(t, "90"),
		ReceiptReference: "RCPT-00000000000000AA",
	})
	require.ErrorIs(t, err, domain.ErrReceiptReferenceTaken)
}

func TestOperationRepository_GetByReference_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)

	_, err := repo.GetByReference(context.Background(), "RCPT-DOESNOTEXIST0000")
	require.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

func TestOperationRepository_Cancel(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")
	created := insertOperation(t, pool, client.ID, currency.ID, "RCPT-00000000000000AA", "100")

	require.NoError(t, repo.Cancel(ctx, created.ID))

	rec, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, rec.Cancelled())
	require.NotNil(t, rec.CancelledAt)
	// Computed fields survive cancellation untouched.
	require.True(t, rec.AmountRub.Equal(dec(t, "9000")))

	require.ErrorIs(t, repo.Cancel(ctx, created.ID), domain.ErrOperationCancelled)
	require.ErrorIs(t, repo.Cancel(ctx, created.ID+100), domain.ErrOperationNotFound)
}

func TestOperationRepository_List_NewestFirst(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")

	for i := 0; i < 5; i++ {
		insertOperation(t, pool, client.ID, currency.ID, fmt.Sprintf("RCPT-%016d", i), "10")
	}

	page1, err := repo.List(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.Greater(t, page1[0].ID, page1[1].ID)
	require.Greater(t, page1[1].ID, page1[2].ID)

	page2, err := repo.List(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, page2, 2)
}

func TestOperationRepository_DailyVolume_ExcludesCancelled(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	usd := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")
	eur := seedCurrency(t, pool, "EUR", "Euro", "99", "101")

	insertOperation(t, pool, client.ID, usd.ID, "RCPT-0000000000000001", "100")
	insertOperation(t, pool, client.ID, usd.ID, "RCPT-0000000000000002", "250")
	insertOperation(t, pool, client.ID, eur.ID, "RCPT-0000000000000003", "70")
	cancelled := insertOperation(t, pool, client.ID, usd.ID, "RCPT-0000000000000004", "500")
	require.NoError(t, repo.Cancel(ctx, cancelled.ID))

	volume, err := repo.DailyVolume(ctx, client.ID, usd.ID, time.Now())
	require.NoError(t, err)
	require.True(t, volume.Equal(dec(t, "350")), "volume %s", volume)

	empty, err := repo.DailyVolume(ctx, client.ID, usd.ID, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.True(t, empty.IsZero())
}

func TestOperationRepository_ListBetween_ExcludesCancelled(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewOperationRepository(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	usd := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")

	insertOperation(t, pool, client.ID, usd.ID, "RCPT-0000000000000001", "100")
	cancelled := insertOperation(t, pool, client.ID, usd.ID, "RCPT-0000000000000002", "200")
	require.NoError(t, repo.Cancel(ctx, cancelled.ID))

	records, err := repo.ListBetween(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "RCPT-0000000000000001", records[0].ReceiptReference)
}

// ---------- TxManager tests ----------

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := setupPostgres(t)
	tm := postgres.NewTxManager(pool)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")
	repo := postgres.NewOperationRepository(pool)

	wantErr := fmt.Errorf("business rule said no")
	err := tm.WithTransaction(ctx, func(ctx context.Context) error {
		_, createErr := repo.Create(ctx, domain.Operation{
			ClientID:         client.ID,
			CurrencyID:       currency.ID,
			OperationType:    domain.ClientSellsToExchange,
			AmountCurrency:   dec(t, "100"),
			AmountRub:        dec(t, "9000"),
			EffectiveRate:    dec(t, "90"),
			ReceiptReference: "RCPT-00000000000000AA",
		})
		require.NoError(t, createErr)
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	_, err = repo.GetByReference(ctx, "RCPT-00000000000000AA")
	require.ErrorIs(t, err, domain.ErrReceiptNotFound)
}

// ---------- Ledger concurrency ----------

// Ten concurrent creates race toward a daily limit that admits only four of
// them. The client-row lock must serialize the checks so exactly four commit.
func TestLedger_ConcurrentCreates_RespectDailyLimit(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	client := seedClient(t, pool, "4510 123456", "Ivanov Ivan")
	currency := seedCurrency(t, pool, "USD", "US Dollar", "90", "92")

	limitRepo := postgres.NewLimitRepository(pool)
	_, err := limitRepo.SetThreshold(ctx, domain.LimitDailyCurrencyVolume, dec(t, "400"))
	require.NoError(t, err)

	ledger := exchange.NewService(
		postgres.NewClientRepository(pool),
		postgres.NewCurrencyRepository(pool),
		postgres.NewOperationRepository(pool),
		limitRepo,
		postgres.NewTxManager(pool),
	)

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, opErr := ledger.CreateOperation(ctx, client.ID, currency.ID, domain.ClientSellsToExchange, dec(t, "100"))
			results <- opErr
		}()
	}
	wg.Wait()
	close(results)

	var accepted, rejected int
	for opErr := range results {
		if opErr == nil {
			accepted++
			continue
		}
		var limitErr *domain.LimitExceededError
		require.ErrorAs(t, opErr, &limitErr)
		require.Equal(t, domain.LimitKindDaily, limitErr.Kind)
		rejected++
	}
	require.Equal(t, 4, accepted)
	require.Equal(t, 6, rejected)

	volume, err := postgres.NewOperationRepository(pool).DailyVolume(ctx, client.ID, currency.ID, time.Now())
	require.NoError(t, err)
	require.True(t, volume.Equal(dec(t, "400")), "volume %s", volume)
}
