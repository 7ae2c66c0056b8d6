// Package acquisition searches and downloads fonts from web providers.
// Ported from original_source/Rust/font-resolver/crates/font-acquisition:
// tokio::spawn + tokio::time::timeout becomes context.WithTimeout +
// golang.org/x/sync/errgroup; reqwest::Client becomes an injectable
// *http.Client, following the teacher's internal/handlers convention of
// taking collaborators as constructor parameters rather than reaching for
// globals.
package acquisition

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"golang.org/x/sync/errgroup"
)

// perProviderTimeout bounds a single provider's search call, per spec.md's
// "2 second" provider timeout.
const perProviderTimeout = 2 * time.Second

// Provider is one web font source. Implementations must be safe for
// concurrent use across providers (ParallelSearch calls each once per
// query, potentially from different goroutines in sequence across calls,
// never concurrently against itself within one ParallelSearch).
type Provider interface {
	Name() string
	SearchFonts(ctx context.Context, query string, limit int) ([]fontcore.CompressedFontData, error)
	DownloadFont(ctx context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat) (Download, error)
	LicenseInfo(font fontcore.CompressedFontData) fontcore.LicenseInfo
}

// Download is what a Provider.DownloadFont call resolves to: a remote URL
// plus enough metadata to place the bytes once fetched.
type Download struct {
	Font            fontcore.CompressedFontData
	DownloadURL     string
	Format          fontcore.FontFormat
	EstimatedSizeKB uint32
}

// Manager fans a query out across all registered providers concurrently,
// de-duplicates by family, and handles content-addressed download caching.
type Manager struct {
	mu           sync.RWMutex
	providers    map[string]Provider
	client       *http.Client
	downloadDir  string
}

// NewManager creates a Manager backed by client (nil uses a new http.Client
// with a 30s timeout)
// with downloads cached under downloadDir.
func NewManager(client *http.Client, downloadDir string) (*Manager, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "create download cache dir", err)
	}
	return &Manager{
		providers:   make(map[string]Provider),
		client:      client,
		downloadDir: downloadDir,
	}, nil
}

// AddProvider registers a provider under its own Name().
func (m *Manager) AddProvider(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = p
}

// ParallelSearch queries every registered provider concurrently, applying a
// per-provider timeout so one slow or unreachable source never blocks the
// others. A provider erroring or timing out contributes zero results
// rather than failing the whole search. Results are de-duplicated by family
// (first provider to report a family wins) and sorted by query-substring
// match, then family name.
func (m *Manager) ParallelSearch(ctx context.Context, query string, limitPerProvider int) ([]fontcore.CompressedFontData, error) {
	m.mu.RLock()
	providers := make([]Provider, 0, len(m.providers))
	for _, p := range m.providers {
		providers = append(providers, p)
	}
	m.mu.RUnlock()

	results := make([][]fontcore.CompressedFontData, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, perProviderTimeout)
			defer cancel()
			fonts, err := p.SearchFonts(callCtx, query, limitPerProvider)
			if err != nil {
				results[i] = nil
				return nil // per spec.md: provider errors are recovered, never surfaced
			}
			results[i] = fonts
			return nil
		})
	}
	_ = g.Wait() // never returns non-nil: each goroutine recovers its own error

	queryLower := strings.ToLower(query)
	seen := make(map[string]struct{})
	var all []fontcore.CompressedFontData
	for _, fonts := range results {
		for _, f := range fonts {
			key := strings.ToLower(f.Family)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			all = append(all, f)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		iMatch := strings.Contains(strings.ToLower(all[i].Family), queryLower)
		jMatch := strings.Contains(strings.ToLower(all[j].Family), queryLower)
		if iMatch != jMatch {
			return iMatch
		}
		return all[i].Family < all[j].Family
	})

	return all, nil
}

// cacheKey is the content-addressing key: (postscript name, format).
func cacheKey(font fontcore.CompressedFontData, format fontcore.FontFormat) string {
	sum := sha256.Sum256([]byte(font.PostScriptName + "|" + string(format)))
	return hex.EncodeToString(sum[:])
}

// DownloadAndVerify fetches font from providerName (or serves it from the
// on-disk content cache if already present), rejects it if the provider's
// license isn't safe for distribution, and returns a FontDescriptor
// pointing at the cached file.
func (m *Manager) DownloadAndVerify(ctx context.Context, font fontcore.CompressedFontData, format fontcore.FontFormat, providerName string) (fontcore.FontDescriptor, error) {
	cachePath := filepath.Join(m.downloadDir, cacheKey(font, format))

	if _, err := os.Stat(cachePath); err == nil {
		return descriptorFromCache(font, cachePath, format), nil
	}

	m.mu.RLock()
	provider, ok := m.providers[providerName]
	m.mu.RUnlock()
	if !ok {
		return fontcore.FontDescriptor{}, fontcore.NotFound(fmt.Sprintf("provider %q", providerName))
	}

	license := provider.LicenseInfo(font)
	if !license.SafeForDistribution() {
		return fontcore.FontDescriptor{}, fontcore.NewError(fontcore.KindLicenseRestriction,
			fmt.Sprintf("font %q has a restrictive license", font.Family), nil)
	}

	download, err := provider.DownloadFont(ctx, font, format)
	if err != nil {
		return fontcore.FontDescriptor{}, fontcore.NewError(fontcore.KindIO, "download font", err)
	}

	if err := m.fetchToCache(ctx, download.DownloadURL, cachePath); err != nil {
		return fontcore.FontDescriptor{}, err
	}

	return fontcore.FontDescriptor{
		Family:         font.Family,
		PostScriptName: font.PostScriptName,
		FullName:       font.Family,
		Path:           cachePath,
		Format:         format,
		Weight:         font.Weight,
		Italic:         font.Italic,
		Monospaced:     font.Monospaced,
		Metrics:        font.Metrics,
		License:        &license,
		Source:         fontcore.SourceAcquired,
	}, nil
}

func descriptorFromCache(font fontcore.CompressedFontData, cachePath string, format fontcore.FontFormat) fontcore.FontDescriptor {
	return fontcore.FontDescriptor{
		Family:         font.Family,
		PostScriptName: font.PostScriptName,
		FullName:       font.Family,
		Path:           cachePath,
		Format:         format,
		Weight:         font.Weight,
		Italic:         font.Italic,
		Monospaced:     font.Monospaced,
		Metrics:        font.Metrics,
		License:        font.License,
		Source:         fontcore.SourceAcquired,
	}
}

func (m *Manager) fetchToCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fontcore.NewError(fontcore.KindIO, "build download request", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fontcore.NewError(fontcore.KindIO, "fetch font bytes", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fontcore.NewError(fontcore.KindIO, fmt.Sprintf("unexpected status %d downloading font", resp.StatusCode), nil)
	}

	out, err := os.Create(cachePath)
	if err != nil {
		return fontcore.NewError(fontcore.KindIO, "create cache file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fontcore.NewError(fontcore.KindIO, "write cache file", err)
	}
	return nil
}

// decodeJSON is a small helper shared by providers parsing API responses.
func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	return dec.Decode(v)
}
