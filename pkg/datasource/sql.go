package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres connect retry settings.
const (
	sqlRetryAttempts = 3
	sqlRetryInterval = 5 * time.Second
)

// SQL wraps a Postgres connection pool. It is not a Source: SQL access
// goes through the pool directly rather than a key-value facade.
type SQL struct {
	pool *pgxpool.Pool
}

// OpenSQL connects to Postgres using the given DSN, retrying the
// initial ping a few times before giving up.
func OpenSQL(ctx context.Context, dsn string) (*SQL, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	var pingErr error
	for attempt := 0; attempt < sqlRetryAttempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, sqlRetryInterval); err != nil {
				pool.Close()
				return nil, errors.Join(ErrConnectionFailed, err)
			}
		}
		if pingErr = pool.Ping(ctx); pingErr == nil {
			return &SQL{pool: pool}, nil
		}
	}

	pool.Close()
	return nil, errors.Join(ErrConnectionFailed, pingErr)
}

// Pool returns the underlying pgx pool.
func (s *SQL) Pool() *pgxpool.Pool { return s.pool }

// Ping verifies connectivity.
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheck, err)
	}
	return nil
}

// Close drains and closes the pool.
func (s *SQL) Close() error {
	s.pool.Close()
	return nil
}
