package db

import (
	"context"
	"exchpoint/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingAttempts = 5
	pingBackoff  = time.Second
)

// CreatePoolAndPing opens a pgx pool and verifies connectivity. The database
// may still be accepting its first connections when the service starts, so
// the initial ping is retried a few times before giving up.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	var pingErr error
	for attempt := 0; attempt < pingAttempts; attempt++ {
		if pingErr = pool.Ping(ctx); pingErr == nil {
			return pool, nil
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(pingBackoff):
		}
	}
	pool.Close()
	return nil, pingErr
}
