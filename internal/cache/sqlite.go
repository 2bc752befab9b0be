package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens the database at dsn, enables WAL and creates the table.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cache_entries (
	namespace TEXT NOT NULL,
	key_hash  TEXT NOT NULL,
	payload   TEXT NOT NULL,
	cached_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key_hash)
);
`

// Migrate creates the cache table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) (*Entry, error) {
	var (
		payload  string
		cachedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM cache_entries WHERE namespace = ? AND key_hash = ?`,
		namespace, key,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s/%s", namespace, key)
	}
	return &Entry{Payload: []byte(payload), Timestamp: time.UnixMilli(cachedAt).UTC()}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, namespace, key string, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (namespace, key_hash, payload, cached_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (namespace, key_hash) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		namespace, key, string(e.Payload), e.Timestamp.UnixMilli(),
	)
	return eris.Wrapf(err, "sqlite: put %s/%s", namespace, key)
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, namespace string) (int, error) {
	var (
		res sql.Result
		err error
	)
	if namespace == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE namespace = ?`, namespace)
	}
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: clear")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
