package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type payload struct {
	Industry string   `json:"industry"`
	Roles    []string `json:"roles"`
}

type failingStore struct{}

func (failingStore) Get(context.Context, string, string) (*Entry, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Put(context.Context, string, string, Entry) error { return errors.New("disk full") }
func (failingStore) Clear(context.Context, string) (int, error)       { return 0, nil }
func (failingStore) Close() error                                     { return nil }

func newFileCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(store, DefaultTTL).WithClock(func() time.Time { return now })
	return c, &now
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashKey(""))
	assert.Len(t, HashKey("analysis_example.com"), 32)
	assert.NotEqual(t, HashKey("analysis_a.com"), HashKey("leads_a.com"))
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newFileCache(t)
	ctx := context.Background()
	in := payload{Industry: "Finance", Roles: []string{"CFO"}}

	c.Save(ctx, NamespaceAnalysis, "analysis_acme.com", in)

	var out payload
	require.True(t, c.Load(ctx, NamespaceAnalysis, "analysis_acme.com", &out))
	assert.Equal(t, in, out)
}

func TestCache_Idempotent(t *testing.T) {
	c, _ := newFileCache(t)
	ctx := context.Background()
	in := payload{Industry: "Retail"}

	c.Save(ctx, NamespaceLeads, "leads_shop.com", in)
	c.Save(ctx, NamespaceLeads, "leads_shop.com", in)

	var a, b payload
	require.True(t, c.Load(ctx, NamespaceLeads, "leads_shop.com", &a))
	require.True(t, c.Load(ctx, NamespaceLeads, "leads_shop.com", &b))
	assert.Equal(t, a, b)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newFileCache(t)
	var out payload
	assert.False(t, c.Load(context.Background(), NamespaceAnalysis, "analysis_none.com", &out))
}

func TestCache_Expiry(t *testing.T) {
	c, now := newFileCache(t)
	ctx := context.Background()
	c.Save(ctx, NamespaceAnalysis, "analysis_old.com", payload{Industry: "Education"})

	var out payload
	*now = now.Add(DefaultTTL - time.Second)
	assert.True(t, c.Load(ctx, NamespaceAnalysis, "analysis_old.com", &out))

	*now = now.Add(2 * time.Second)
	assert.False(t, c.Load(ctx, NamespaceAnalysis, "analysis_old.com", &out))
}

func TestCache_CorruptPayload(t *testing.T) {
	c, _ := newFileCache(t)
	ctx := context.Background()
	c.Save(ctx, NamespaceAnalysis, "analysis_x.com", []string{"not", "an", "object"})

	var out payload
	assert.False(t, c.Load(ctx, NamespaceAnalysis, "analysis_x.com", &out))
}

func TestCache_StoreErrorsSwallowed(t *testing.T) {
	c := New(failingStore{}, time.Hour)
	ctx := context.Background()
	assert.NotPanics(t, func() { c.Save(ctx, NamespaceLeads, "k", payload{}) })

	var out payload
	assert.False(t, c.Load(ctx, NamespaceLeads, "k", &out))
}

func TestCache_NilIsDisabled(t *testing.T) {
	var c *Cache
	var out payload
	assert.False(t, c.Load(context.Background(), NamespaceLeads, "k", &out))
	c.Save(context.Background(), NamespaceLeads, "k", out)
	n, err := c.Clear(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Close())
}

func TestCache_Clear(t *testing.T) {
	c, _ := newFileCache(t)
	ctx := context.Background()
	c.Save(ctx, NamespaceAnalysis, "analysis_a.com", payload{})
	c.Save(ctx, NamespaceLeads, "leads_a.com", payload{})

	n, err := c.Clear(ctx, NamespaceAnalysis)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out payload
	assert.False(t, c.Load(ctx, NamespaceAnalysis, "analysis_a.com", &out))
	assert.True(t, c.Load(ctx, NamespaceLeads, "leads_a.com", &out))

	n, err = c.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, config.CacheConfig{Driver: "file", Dir: t.TempDir(), TTLSecs: 60})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, c.ttl)
	require.NoError(t, c.Close())

	c, err = Open(ctx, config.CacheConfig{Driver: "sqlite", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.ttl)
	require.NoError(t, c.Close())

	_, err = Open(ctx, config.CacheConfig{Driver: "redis"})
	assert.Error(t, err)
}
