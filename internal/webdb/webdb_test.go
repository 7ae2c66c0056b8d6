package webdb

import (
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/stretchr/testify/require"
)

func TestCreateMinimalDatabaseLoadable(t *testing.T) {
	db := New(CreateMinimalDatabase())
	require.True(t, db.IsLoaded())
	require.Equal(t, "minimal-1.0", db.Version())

	found, ok := db.FindFont("arial")
	require.True(t, ok)
	require.Equal(t, "Arial", found.Family)
}

func TestFindFontCaseInsensitive(t *testing.T) {
	db := New(CreateMinimalDatabase())
	_, ok := db.FindFont("NOTO SANS")
	require.True(t, ok)

	_, ok = db.FindFont("Nonexistent Font XYZ")
	require.False(t, ok)
}

func TestFindSimilarFontsRespectsLimit(t *testing.T) {
	db := New(CreateMinimalDatabase())
	similar := db.FindSimilarFonts("Arial", 2)
	require.LessOrEqual(t, len(similar), 2)
}

func TestAllTagsSourceWeb(t *testing.T) {
	db := New(CreateMinimalDatabase())
	for _, f := range db.All() {
		require.Equal(t, "web", string(f.Source))
	}
}

func TestLoadRoundTripsCompressedBytes(t *testing.T) {
	raw := CreateMinimalDatabase()
	data, err := codec.Compress(raw)
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, raw.Metadata.FontCount, loaded.Count())
}
