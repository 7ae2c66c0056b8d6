package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanFindsFontFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Arial-Bold.ttf"), []byte("not a real font"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignore me"), 0644))

	s := &Scanner{Dirs: []string{dir}, ParseMetrics: true}
	descs, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Equal(t, "arial", descs[0].Family)
	require.Equal(t, 700, descs[0].Weight)
}

func TestScanSkipsUnparsableMetricsButKeepsDescriptor(t *testing.T) {
	dir := t.TempDir()
	// Garbage bytes: ParseMetrics will fail, but the file-name-derived
	// descriptor should still be returned.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CourierNewPSMT.ttf"), []byte("garbage"), 0644))

	s := New()
	s.Dirs = []string{dir}
	descs, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descs, 1)
	require.Equal(t, "courier-new", descs[0].Family)
	require.True(t, descs[0].Monospaced)
	require.Nil(t, descs[0].Metrics)
}

func TestScanIgnoresMissingDirectories(t *testing.T) {
	s := &Scanner{Dirs: []string{filepath.Join(t.TempDir(), "does-not-exist")}}
	descs, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, descs)
}

func TestDefaultDirsNonEmpty(t *testing.T) {
	require.NotEmpty(t, DefaultDirs())
}
