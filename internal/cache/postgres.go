package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps entries in a shared Postgres table so several servers
// can reuse each other's results.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects, pings and migrates.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	s := &PostgresStore{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_cache (
	namespace TEXT        NOT NULL,
	key_hash  TEXT        NOT NULL,
	payload   JSONB       NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (namespace, key_hash)
);
`

// Migrate creates the cache table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, namespace, key string) (*Entry, error) {
	var (
		payload  []byte
		cachedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT payload, cached_at FROM lead_cache WHERE namespace = $1 AND key_hash = $2`,
		namespace, key,
	).Scan(&payload, &cachedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get %s/%s", namespace, key)
	}
	return &Entry{Payload: payload, Timestamp: cachedAt}, nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, namespace, key string, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lead_cache (namespace, key_hash, payload, cached_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (namespace, key_hash) DO UPDATE SET payload = $3, cached_at = $4`,
		namespace, key, []byte(e.Payload), e.Timestamp,
	)
	return eris.Wrapf(err, "postgres: put %s/%s", namespace, key)
}

// Clear implements Store.
func (s *PostgresStore) Clear(ctx context.Context, namespace string) (int, error) {
	var (
		tag pgconn.CommandTag
		err error
	)
	if namespace == "" {
		tag, err = s.pool.Exec(ctx, `DELETE FROM lead_cache`)
	} else {
		tag, err = s.pool.Exec(ctx, `DELETE FROM lead_cache WHERE namespace = $1`, namespace)
	}
	if err != nil {
		return 0, eris.Wrap(err, "postgres: clear")
	}
	return int(tag.RowsAffected()), nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
