package resolver

import (
	"context"
	"encoding/json"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/webdb"
)

// Pin/Unpin/ListPinned/RemoveFromCache/CleanupCache/CacheStats expose
// internal/cache's operations at the library boundary (spec.md §6), each
// returning a CacheError when caching is disabled.

func (o *Orchestrator) requireCache() error {
	if !o.Cfg.CacheEnabled || o.Cache == nil {
		return fontcore.NewError(fontcore.KindCacheError, "caching is disabled", nil)
	}
	return nil
}

func (o *Orchestrator) Pin(name string) error {
	if err := o.requireCache(); err != nil {
		return err
	}
	return o.Cache.Pin(name)
}

func (o *Orchestrator) Unpin(name string) error {
	if err := o.requireCache(); err != nil {
		return err
	}
	return o.Cache.Unpin(name)
}

func (o *Orchestrator) ListPinned() ([]string, error) {
	if err := o.requireCache(); err != nil {
		return nil, err
	}
	return o.Cache.ListPinned(), nil
}

func (o *Orchestrator) RemoveFromCache(names ...string) (int, error) {
	if err := o.requireCache(); err != nil {
		return 0, err
	}
	return o.Cache.RemoveMany(names), nil
}

func (o *Orchestrator) CleanupCache(aggressive bool) (int, error) {
	if err := o.requireCache(); err != nil {
		return 0, err
	}
	return o.Cache.Cleanup(aggressive), nil
}

// CacheStatsResult mirrors internal/cache.Stats at the library boundary so
// callers outside internal/ never import internal/cache directly.
type CacheStatsResult struct {
	MemoryEntries int
	MemoryUsageKB int
	DiskEntries   int
	PinnedCount   int
}

func (o *Orchestrator) CacheStats() (CacheStatsResult, error) {
	if err := o.requireCache(); err != nil {
		return CacheStatsResult{}, err
	}
	s := o.Cache.Stats()
	return CacheStatsResult{
		MemoryEntries: s.MemoryEntries,
		MemoryUsageKB: s.MemoryUsageKB,
		DiskEntries:   s.DiskEntries,
		PinnedCount:   s.PinnedCount,
	}, nil
}

func (o *Orchestrator) SuggestCleanup() ([]string, error) {
	if err := o.requireCache(); err != nil {
		return nil, err
	}
	return o.Cache.SuggestCleanup(), nil
}

// DatabaseStatsResult summarizes the loaded web font database, per spec.md
// §6's database_stats.
type DatabaseStatsResult struct {
	Loaded              bool
	FontCount           int
	Version             string
	CompressedSizeBytes uint64
	OriginalSizeBytes   uint64
	CategoryHistogram   map[fontcore.FontCategory]int
}

func (o *Orchestrator) DatabaseStats() DatabaseStatsResult {
	if o.WebDB == nil || !o.WebDB.IsLoaded() {
		return DatabaseStatsResult{}
	}
	raw := o.WebDB.Raw()
	return DatabaseStatsResult{
		Loaded:              true,
		FontCount:           raw.Metadata.FontCount,
		Version:             raw.Metadata.Version,
		CompressedSizeBytes: raw.Metadata.CompressedSizeBytes,
		OriginalSizeBytes:   raw.Metadata.OriginalSizeBytes,
		CategoryHistogram:   raw.Metadata.CategoryHistogram,
	}
}

// ExportMetrics returns pretty-printed JSON of a face's metrics, or a
// NotFound error, per spec.md §6.
func (o *Orchestrator) ExportMetrics(ctx context.Context, name string) ([]byte, error) {
	candidates := o.aggregateCandidates(ctx)
	for _, c := range candidates {
		if equalFoldFamily(c.Family, name) && c.Metrics != nil {
			return json.MarshalIndent(c.Metrics, "", "  ")
		}
	}
	return nil, fontcore.NotFound(name)
}

func equalFoldFamily(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// UpdateDatabase replaces the in-memory compressed DB with merged, per
// spec.md §6's update_database(), and drops the cached system-font scan.
// It does no network I/O: the caller fetches and merges the update (for
// example with an *update.Manager) and passes the merged database in.
func (o *Orchestrator) UpdateDatabase(ctx context.Context, merged fontcore.CompressedFontDatabase) {
	o.WebDB = webdb.New(merged)
	o.systemFontsCache = nil
}
