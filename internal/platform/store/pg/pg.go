// Package pg opens a pgx pool with an optional zerolog query tracer
package pg

import (
	"context"
	"time"

	perr "rfinder/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks queries at or above this duration as slow; 0 disables tracing
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and the optional mutator, and creates the pool.
// It does not ping; call Ping when a reachable database is required up front.
func Open(ctx context.Context, cfg Config, poolCfgMut func(*pgxpool.Config)) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.SlowMs > 0 {
		pcfg.ConnConfig.Tracer = NewTracer(time.Duration(cfg.SlowMs) * time.Millisecond)
	}
	if poolCfgMut != nil {
		poolCfgMut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "open postgres pool")
	}
	return pool, nil
}

// Ping checks connectivity within a short deadline
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ping postgres")
	}
	return nil
}
