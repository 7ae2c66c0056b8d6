package acquisition

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	fonts   []fontcore.CompressedFontData
	delay   time.Duration
	failure error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) SearchFonts(ctx context.Context, query string, limit int) ([]fontcore.CompressedFontData, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failure != nil {
		return nil, f.failure
	}
	return f.fonts, nil
}

func (f *fakeProvider) DownloadFont(ctx context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat) (Download, error) {
	return Download{Font: font, DownloadURL: "https://example.test/font", Format: format, EstimatedSizeKB: 50}, nil
}

func (f *fakeProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{AllowsEmbedding: true}
}

func TestParallelSearchDeduplicatesAndSorts(t *testing.T) {
	m, err := NewManager(nil, t.TempDir())
	require.NoError(t, err)

	m.AddProvider(&fakeProvider{name: "a", fonts: []fontcore.CompressedFontData{
		{Family: "Roboto"}, {Family: "Open Sans"},
	}})
	m.AddProvider(&fakeProvider{name: "b", fonts: []fontcore.CompressedFontData{
		{Family: "Roboto"}, // duplicate family, should be dropped
		{Family: "Lato"},
	}})

	results, err := m.ParallelSearch(context.Background(), "open", 10)
	require.NoError(t, err)
	require.Len(t, results, 3) // Roboto, Open Sans, Lato — deduped

	require.Equal(t, "Open Sans", results[0].Family) // matches query, sorts first
}

func TestParallelSearchTimesOutSlowProvider(t *testing.T) {
	m, err := NewManager(nil, t.TempDir())
	require.NoError(t, err)

	m.AddProvider(&fakeProvider{name: "slow", delay: 5 * time.Second, fonts: []fontcore.CompressedFontData{{Family: "Slow Font"}}})
	m.AddProvider(&fakeProvider{name: "fast", fonts: []fontcore.CompressedFontData{{Family: "Fast Font"}}})

	start := time.Now()
	results, err := m.ParallelSearch(context.Background(), "font", 10)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Less(t, elapsed, 3*time.Second) // bounded by the 2s per-provider timeout
	require.Len(t, results, 1)
	require.Equal(t, "Fast Font", results[0].Family)
}

func TestParallelSearchRecoversProviderError(t *testing.T) {
	m, err := NewManager(nil, t.TempDir())
	require.NoError(t, err)

	m.AddProvider(&fakeProvider{name: "broken", failure: fontcore.NewError(fontcore.KindIO, "boom", nil)})
	m.AddProvider(&fakeProvider{name: "ok", fonts: []fontcore.CompressedFontData{{Family: "Still Works"}}})

	results, err := m.ParallelSearch(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestDownloadAndVerifyRejectsRestrictiveLicense(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("font bytes"))
	}))
	defer server.Close()

	m, err := NewManager(server.Client(), t.TempDir())
	require.NoError(t, err)
	m.AddProvider(&restrictiveProvider{})

	_, err = m.DownloadAndVerify(context.Background(), fontcore.CompressedFontData{Family: "Locked", PostScriptName: "locked"}, fontcore.FormatTTF, "restrictive")
	require.Error(t, err)

	var ferr *fontcore.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, fontcore.KindLicenseRestriction, ferr.Kind)
}

type restrictiveProvider struct{}

func (restrictiveProvider) Name() string { return "restrictive" }
func (restrictiveProvider) SearchFonts(context.Context, string, int) ([]fontcore.CompressedFontData, error) {
	return nil, nil
}
func (restrictiveProvider) DownloadFont(context.Context, fontcore.CompressedFontData, fontcore.FontFormat) (Download, error) {
	return Download{}, nil
}
func (restrictiveProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{AllowsEmbedding: true, RequiresAttribution: true}
}

func TestDownloadAndVerifyCachesContentAddressed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("font bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	m, err := NewManager(server.Client(), dir)
	require.NoError(t, err)
	m.AddProvider(&openProvider{url: server.URL})

	font := fontcore.CompressedFontData{Family: "Open", PostScriptName: "open-regular"}
	desc, err := m.DownloadAndVerify(context.Background(), font, fontcore.FormatTTF, "open")
	require.NoError(t, err)
	require.FileExists(t, desc.Path)

	// Second call should hit the cache without needing the provider again.
	desc2, err := m.DownloadAndVerify(context.Background(), font, fontcore.FormatTTF, "open")
	require.NoError(t, err)
	require.Equal(t, desc.Path, desc2.Path)
}

type openProvider struct{ url string }

func (p *openProvider) Name() string { return "open" }
func (p *openProvider) SearchFonts(context.Context, string, int) ([]fontcore.CompressedFontData, error) {
	return nil, nil
}
func (p *openProvider) DownloadFont(_ context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat) (Download, error) {
	return Download{Font: font, DownloadURL: p.url, Format: format, EstimatedSizeKB: 10}, nil
}
func (p *openProvider) LicenseInfo(fontcore.CompressedFontData) fontcore.LicenseInfo {
	return fontcore.LicenseInfo{AllowsEmbedding: true}
}
