package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
)

// DefaultTTL is how long an entry stays fresh.
const DefaultTTL = 24 * time.Hour

// Cache adds expiry and JSON encoding on top of a Store. Cache failures are
// logged and never returned: a broken cache only costs a recomputation.
// A nil *Cache is a disabled cache.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// New wraps store. A non-positive ttl uses DefaultTTL.
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Load decodes the fresh entry for key into v. It reports false on a miss,
// an expired entry, or any read or decode failure.
func (c *Cache) Load(ctx context.Context, namespace, key string, v any) bool {
	if c == nil || c.store == nil {
		return false
	}
	log := zap.L().With(zap.String("namespace", namespace), zap.String("key", key))

	e, err := c.store.Get(ctx, namespace, HashKey(key))
	if err != nil {
		log.Warn("cache: read failed, treating as miss", zap.Error(err))
		return false
	}
	if e == nil {
		return false
	}
	if age := c.now().Sub(e.Timestamp); age > c.ttl {
		log.Debug("cache: entry expired", zap.Duration("age", age))
		return false
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		log.Warn("cache: corrupt entry, treating as miss", zap.Error(err))
		return false
	}
	log.Debug("cache: hit")
	return true
}

// Save stores v under key with the current time.
func (c *Cache) Save(ctx context.Context, namespace, key string, v any) {
	if c == nil || c.store == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("cache: encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	e := Entry{Payload: payload, Timestamp: c.now().UTC()}
	if err := c.store.Put(ctx, namespace, HashKey(key), e); err != nil {
		zap.L().Warn("cache: write failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
	}
}

// Clear removes every entry in namespace, or all entries when namespace is
// empty.
func (c *Cache) Clear(ctx context.Context, namespace string) (int, error) {
	if c == nil || c.store == nil {
		return 0, nil
	}
	return c.store.Clear(ctx, namespace)
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "file", "":
		store, err = NewFileStore(cfg.Dir)
	case "sqlite":
		store, err = openSQLite(ctx, cfg.Dir)
	case "postgres":
		store, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return New(store, time.Duration(cfg.TTLSecs)*time.Second), nil
}

func openSQLite(ctx context.Context, dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "cache: create dir %s", dir)
	}
	return NewSQLite(ctx, filepath.Join(dir, "cache.db"))
}
