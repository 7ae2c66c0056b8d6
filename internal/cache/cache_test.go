package cache

import (
	"errors"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, memoryMB, diskMB, autoPin int) *Cache {
	t.Helper()
	c, err := New(Options{
		Dir:              t.TempDir(),
		MemoryLimitMB:    memoryMB,
		DiskLimitMB:      diskMB,
		AutoPinThreshold: autoPin,
	})
	require.NoError(t, err)
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	c := newTestCache(t, 50, 50, 0)
	desc := fontcore.FontDescriptor{Family: "Arial", Weight: 400}
	require.NoError(t, c.Put("ArialMT", desc))

	got, ok := c.Get("ArialMT")
	require.True(t, ok)
	require.Equal(t, desc.Family, got.Family)
}

func TestPinPreventsCleanup(t *testing.T) {
	c := newTestCache(t, 50, 50, 0)
	require.NoError(t, c.Put("A", fontcore.FontDescriptor{Family: "A"}))
	require.NoError(t, c.Pin("A"))
	require.NoError(t, c.Put("B", fontcore.FontDescriptor{Family: "B"}))

	c.Cleanup(true)

	_, ok := c.Get("A")
	require.True(t, ok, "pinned entry must survive cleanup")
	require.Contains(t, c.ListPinned(), "A")
}

func TestMemoryLimitExceeded(t *testing.T) {
	c := newTestCache(t, 1, 1000, 0) // 1 MB = 1024 KB; each entry ~50KB without metrics/variable
	desc := fontcore.FontDescriptor{Family: "X"}

	var lastErr error
	for i := 0; i < 30; i++ {
		lastErr = c.Put(namedFont(i), desc)
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
	var ferr *fontcore.Error
	require.True(t, errors.As(lastErr, &ferr))
	require.Equal(t, fontcore.KindMemoryLimitExceeded, ferr.Kind)
}

func namedFont(i int) string {
	return "font-" + string(rune('A'+i%26)) + string(rune('0'+i/26))
}

func TestStatsNeverBlocks(t *testing.T) {
	c := newTestCache(t, 50, 50, 0)
	require.NoError(t, c.Put("A", fontcore.FontDescriptor{Family: "A"}))

	s := c.Stats()
	require.Equal(t, 1, s.MemoryEntries)
	require.Equal(t, 0, s.DiskEntries)
}

func TestCleanupIdempotentOnSteadyState(t *testing.T) {
	c := newTestCache(t, 50, 50, 0)
	require.NoError(t, c.Put("A", fontcore.FontDescriptor{Family: "A"}))
	require.NoError(t, c.Pin("A"))

	first := c.Cleanup(true)
	second := c.Cleanup(true)
	require.Equal(t, first, second)
}
