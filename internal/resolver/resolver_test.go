package resolver

import (
	"context"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/cache"
	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/webdb"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(t *testing.T, cfg config.Config) *Orchestrator {
	t.Helper()
	var c *cache.Cache
	if cfg.CacheEnabled {
		var err error
		c, err = cache.New(cache.Options{Dir: t.TempDir(), MemoryLimitMB: 5, DiskLimitMB: 10})
		require.NoError(t, err)
	}
	db := webdb.New(webdb.CreateMinimalDatabase())
	return New(cfg, c, nil, db, nil, nil)
}

func TestResolveExactMatchFromWebDB(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	result, err := o.Resolve(context.Background(), "Arial")
	require.NoError(t, err)
	require.Equal(t, "Arial", result.Font.Family)
}

func TestResolveCachesAndReturnsFromCache(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	_, err := o.Resolve(context.Background(), "Arial")
	require.NoError(t, err)

	result, err := o.Resolve(context.Background(), "Arial")
	require.NoError(t, err)
	require.Contains(t, result.Warnings, "loaded from cache")
}

func TestResolveNotFoundWhenNoCandidates(t *testing.T) {
	cfg := config.Default()
	cfg.WebFontsEnabled = false
	cfg.SystemFontsEnabled = false
	cfg.CacheEnabled = false
	o := newTestOrchestrator(t, cfg)
	o.WebDB = nil

	_, err := o.Resolve(context.Background(), "Arial")
	require.Error(t, err)
	var ferr *fontcore.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, fontcore.KindNotFound, ferr.Kind)
}

func TestGetSuggestionsReturnsLocalMatches(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	suggestions, err := o.GetSuggestions(context.Background(), "Arial Bold", false)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
}

func TestTieredResolveExactTier(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	result, err := o.TieredResolve(context.Background(), "Noto Sans", false)
	require.NoError(t, err)
	require.Equal(t, fontcore.TRKExact, result.Kind)
	require.NotNil(t, result.Font)
}

func TestTieredResolveSuggestInternetWithoutAcquisition(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	result, err := o.TieredResolve(context.Background(), "SomeVeryObscureFontNameXYZ", true)
	require.NoError(t, err)
	require.Equal(t, fontcore.TRKSuggestInternet, result.Kind)
}

func TestPinUnpinRequireCache(t *testing.T) {
	cfg := config.Default()
	cfg.CacheEnabled = false
	o := newTestOrchestrator(t, cfg)

	err := o.Pin("Arial")
	require.Error(t, err)
	var ferr *fontcore.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, fontcore.KindCacheError, ferr.Kind)
}

func TestAggregateCandidatesPriorityOrdering(t *testing.T) {
	cfg := config.Default()
	cfg.FontSourcePriority = config.PrioritySystemOnly
	o := newTestOrchestrator(t, cfg)

	candidates := o.aggregateCandidates(context.Background())
	for _, c := range candidates {
		require.NotEqual(t, fontcore.SourceWeb, c.Source)
	}
}

func TestExportMetricsNotFound(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	_, err := o.ExportMetrics(context.Background(), "Totally Unknown Face 12345")
	require.Error(t, err)
}

func TestDatabaseStatsReportsLoadedDB(t *testing.T) {
	cfg := config.Default()
	o := newTestOrchestrator(t, cfg)

	stats := o.DatabaseStats()
	require.True(t, stats.Loaded)
	require.Greater(t, stats.FontCount, 0)
}
