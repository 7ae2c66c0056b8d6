package ingest

import (
	"context"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	fonts []fontcore.FontDescriptor
	err   error
}

func (f *fakeSource) Fetch(ctx context.Context) ([]fontcore.FontDescriptor, error) {
	return f.fonts, f.err
}

func TestBuildAndCompressProducesDecodableDatabase(t *testing.T) {
	src := &fakeSource{fonts: []fontcore.FontDescriptor{
		{Family: "Roboto", Weight: 400, Format: fontcore.FormatWOFF2},
		{Family: "Roboto", Weight: 700, Format: fontcore.FormatWOFF2},
	}}

	data, err := BuildAndCompress(context.Background(), src, false)
	require.NoError(t, err)

	db, err := codec.Decompress(data)
	require.NoError(t, err)
	require.Equal(t, 2, db.Metadata.FontCount)
}

func TestDescriptorFromVariantParsesWeightAndItalic(t *testing.T) {
	d := descriptorFromVariant("Roboto", "sans-serif", "700italic")
	require.Equal(t, 700, d.Weight)
	require.True(t, d.Italic)
	require.Equal(t, fontcore.SourceWeb, d.Source)
}

func TestDescriptorFromVariantMonospaceCategory(t *testing.T) {
	d := descriptorFromVariant("Roboto Mono", "monospace", "regular")
	require.True(t, d.Monospaced)
}
