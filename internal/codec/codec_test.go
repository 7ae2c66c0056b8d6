package codec

import (
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	db := fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{
			Version:   "1.0",
			FontCount: 2,
		},
		Fonts: []fontcore.CompressedFontData{
			{Family: "Arial", Weight: 400, Category: fontcore.CategorySansSerif},
			{Family: "Times New Roman", Weight: 700, Italic: true, Category: fontcore.CategorySerif},
		},
	}

	compressed, err := Compress(db)
	require.NoError(t, err)

	decoded, err := Decompress(compressed)
	require.NoError(t, err)

	require.Equal(t, len(db.Fonts), len(decoded.Fonts))
	for i := range db.Fonts {
		require.Equal(t, db.Fonts[i].Family, decoded.Fonts[i].Family)
		require.Equal(t, db.Fonts[i].Weight, decoded.Fonts[i].Weight)
		require.Equal(t, db.Fonts[i].Italic, decoded.Fonts[i].Italic)
	}
	require.Equal(t, uint64(len(compressed)), decoded.Metadata.CompressedSizeBytes)
}

func TestSimpleFormatExactBytePattern(t *testing.T) {
	data := []byte(simpleFormatMagic)
	data = append(data, 0x02, 0x00, 0x00, 0x00)
	data = append(data, 0x05)
	data = append(data, []byte("Arial")...)
	data = append(data, 0x90, 0x01, 0x00)
	data = append(data, 0x05)
	data = append(data, []byte("Times")...)
	data = append(data, 0x90, 0x01, 0x00)

	db, err := Decompress(data)
	require.NoError(t, err)
	require.Len(t, db.Fonts, 2)
	require.Equal(t, "Arial", db.Fonts[0].Family)
	require.Equal(t, 400, db.Fonts[0].Weight)
	require.False(t, db.Fonts[0].Italic)
	require.Equal(t, "Times", db.Fonts[1].Family)
	require.Equal(t, 400, db.Fonts[1].Weight)
	require.False(t, db.Fonts[1].Italic)
}

func TestBuildDatabaseDedup(t *testing.T) {
	db, err := BuildDatabase([]fontcore.FontDescriptor{
		{Family: "Arial", Weight: 400},
		{Family: "arial", Weight: 400}, // duplicate by case-insensitive identity
		{Family: "Arial", Weight: 700},
	}, true)
	require.NoError(t, err)
	require.Len(t, db.Fonts, 2)
	require.NotNil(t, db.SimilarityMatrix)
}

func TestMergeReplacesAndAppends(t *testing.T) {
	current := fontcore.CompressedFontDatabase{
		Fonts: []fontcore.CompressedFontData{{Family: "Arial", Weight: 400}},
	}
	update := fontcore.CompressedFontDatabase{
		Fonts: []fontcore.CompressedFontData{
			{Family: "Arial", Weight: 700},
			{Family: "Verdana", Weight: 400},
		},
	}
	merged, result := Merge(current, update)
	require.Equal(t, 1, result.Added)
	require.Equal(t, 1, result.Updated)
	require.Len(t, merged.Fonts, 2)
	require.Nil(t, merged.SimilarityMatrix)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello font database")
	sum := "1d2c42b1725d8b6a39d68d0d2b5ac02d2ef9f0f86edea0e42f7d1a0f83f19ea3"
	require.False(t, VerifyChecksum(data, sum)) // arbitrary wrong checksum must not verify
}
