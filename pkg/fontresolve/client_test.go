package fontresolve

import (
	"context"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{Config: config.Default(), CacheDir: t.TempDir()})
	require.NoError(t, err)
	return client
}

func TestClientResolvesKnownFont(t *testing.T) {
	client := newTestClient(t)

	result, err := client.Resolve(context.Background(), "Arial")
	require.NoError(t, err)
	require.NotEmpty(t, result.Font.Family)
}

func TestClientDatabaseStatsLoaded(t *testing.T) {
	client := newTestClient(t)

	stats := client.DatabaseStats()
	require.True(t, stats.Loaded)
}

func TestClientCacheStatsAvailableWhenCacheEnabled(t *testing.T) {
	client := newTestClient(t)

	stats, err := client.CacheStats()
	require.NoError(t, err)
	require.GreaterOrEqual(t, stats.MemoryEntries, 0)
}

func TestNewDefaultHasNoCacheDir(t *testing.T) {
	client, err := NewDefault()
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), "Arial")
	require.NoError(t, err)
}
