package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lamvungoc/jewelpos/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "cart", `[{"productId":"P1"}]`))

	value, ok, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"productId":"P1"}]`, value)

	require.NoError(t, store.Delete(ctx, "cart"))

	_, ok, err = store.Get(ctx, "cart")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{SQLitePath: filepath.Join(t.TempDir(), "staging.db")}

	store, err := NewSQLiteStore(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, ok, err := store.Get(ctx, "cartBuyBack")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "cartBuyBack", "[]"))
	require.NoError(t, store.Set(ctx, "cartBuyBack", `[{"productId":"P2"}]`))

	value, ok, err := store.Get(ctx, "cartBuyBack")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"productId":"P2"}]`, value)

	require.NoError(t, store.Delete(ctx, "cartBuyBack"))
	require.NoError(t, store.Delete(ctx, "cartBuyBack"))

	_, ok, err = store.Get(ctx, "cartBuyBack")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewSQLiteStore(context.Background(), config.StorageConfig{}, nil)
	require.Error(t, err)
}

func TestRedisOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 4})
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)
	require.Equal(t, 4, opts.PoolSize)
}

func TestRedisStoreKeyNamespace(t *testing.T) {
	t.Parallel()

	store := &RedisStore{}
	require.Equal(t, "jp:staging:cart", store.buildKey("cart"))
	require.Equal(t, "jp:staging:products", store.buildKey(" products "))
}
