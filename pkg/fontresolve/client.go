// Package fontresolve is the public library boundary for the font
// resolution engine: a thin facade over internal/resolver.Orchestrator so
// external Go programs can depend on one clean package instead of reaching
// into internal/*, mirroring the teacher's own pkg/fontutils public-package
// pattern (internal implementation packages, one stable outward surface).
package fontresolve

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/chinmay-sawant/fontresolve/internal/acquisition"
	"github.com/chinmay-sawant/fontresolve/internal/cache"
	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/resolver"
	"github.com/chinmay-sawant/fontresolve/internal/sources"
	"github.com/chinmay-sawant/fontresolve/internal/update"
	"github.com/chinmay-sawant/fontresolve/internal/webdb"
	"go.uber.org/zap"
)

//go:embed testdata/fontdb.bin
var embeddedDatabase []byte

// Re-exported data model types, so callers never need to import
// internal/fontcore directly.
type (
	FontRequest        = fontcore.FontRequest
	FontDescriptor      = fontcore.FontDescriptor
	FontMetrics         = fontcore.FontMetrics
	LicenseInfo         = fontcore.LicenseInfo
	ResolutionResult    = fontcore.ResolutionResult
	FontSuggestion      = fontcore.FontSuggestion
	TieredResolutionResult = fontcore.TieredResolutionResult
)

// Client is the library entry point. Construct with New or NewDefault.
type Client struct {
	orch *resolver.Orchestrator
}

// Options configures client construction; the zero value is a reasonable
// default (config.Default(): memory-only cache, system scan enabled,
// embedded web DB loaded).
type Options struct {
	Config      config.Config
	CacheDir    string // empty disables disk persistence but keeps the memory LRU
	HTTPClient  *http.Client
	Logger      *zap.SugaredLogger
	UpdateURL   string
}

// New builds a Client from explicit Options.
func New(opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg.MemoryLimitMB == 0 {
		cfg = config.Default()
	}

	var c *cache.Cache
	if cfg.CacheEnabled {
		var err error
		c, err = cache.New(cache.Options{
			Dir:              opts.CacheDir,
			MemoryLimitMB:    cfg.MemoryLimitMB,
			DiskLimitMB:      cfg.DiskLimitMB,
			AutoPinThreshold: cfg.AutoPinThreshold,
		})
		if err != nil {
			return nil, err
		}
	}

	var scanner *sources.Scanner
	if cfg.SystemFontsEnabled {
		scanner = sources.New()
	}

	var db *webdb.Database
	if cfg.WebFontsEnabled {
		loaded, err := webdb.Load(embeddedDatabase)
		if err != nil || !loaded.IsLoaded() {
			minimal := webdb.CreateMinimalDatabase()
			db = webdb.New(minimal)
		} else {
			db = loaded
		}
	}

	var acq *acquisition.Manager
	if opts.CacheDir != "" {
		var err error
		acq, err = acquisition.NewManager(opts.HTTPClient, opts.CacheDir+"/downloads")
		if err != nil {
			acq = nil
		}
	}

	return &Client{orch: resolver.New(cfg, c, scanner, db, acq, opts.Logger)}, nil
}

// NewDefault builds a Client with config.Default() and no disk persistence,
// suitable for short-lived CLI invocations and tests.
func NewDefault() (*Client, error) {
	return New(Options{Config: config.Default()})
}

func (c *Client) Resolve(ctx context.Context, name string) (ResolutionResult, error) {
	return c.orch.Resolve(ctx, name)
}

func (c *Client) GetSuggestions(ctx context.Context, name string, includeInternet bool) ([]FontSuggestion, error) {
	return c.orch.GetSuggestions(ctx, name, includeInternet)
}

func (c *Client) ResolveWithTieredMatching(ctx context.Context, name string, includeInternet bool) (TieredResolutionResult, error) {
	return c.orch.TieredResolve(ctx, name, includeInternet)
}

func (c *Client) Pin(name string) error    { return c.orch.Pin(name) }
func (c *Client) Unpin(name string) error  { return c.orch.Unpin(name) }
func (c *Client) ListPinned() ([]string, error) { return c.orch.ListPinned() }

func (c *Client) RemoveFromCache(names ...string) (int, error) { return c.orch.RemoveFromCache(names...) }
func (c *Client) CleanupCache(aggressive bool) (int, error)    { return c.orch.CleanupCache(aggressive) }
func (c *Client) SuggestCleanup() ([]string, error)            { return c.orch.SuggestCleanup() }

func (c *Client) CacheStats() (resolver.CacheStatsResult, error) { return c.orch.CacheStats() }
func (c *Client) DatabaseStats() resolver.DatabaseStatsResult    { return c.orch.DatabaseStats() }

func (c *Client) ExportMetrics(ctx context.Context, name string) ([]byte, error) {
	return c.orch.ExportMetrics(ctx, name)
}

// UpdateDatabase fetches and merges an incremental update from updateURL
// (or the Client's configured UpdateURL if empty), per spec.md §6's
// update_database().
func (c *Client) UpdateDatabase(ctx context.Context, updateURL string) (*codec.MergeResult, error) {
	var current fontcore.CompressedFontDatabase
	if c.orch.WebDB != nil {
		current = c.orch.WebDB.Raw()
	}

	mgr := update.NewManager(updateURL, nil)
	merged, result, err := mgr.UpdateFromInternet(ctx, current, nil)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	c.orch.UpdateDatabase(ctx, merged)
	return result, nil
}
