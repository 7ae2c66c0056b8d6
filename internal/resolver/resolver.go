// Package resolver implements the orchestrator described in spec.md §4.5:
// the request -> sources -> match -> cache -> result pipeline, suggestion
// ranking, and license gating. Grounded on
// original_source/font-resolver/src/lib.rs's FontResolver, reworked so that
// normalizer/similarity/cache/license/sources/acquisition/webdb are each
// injected collaborators rather than the original's hard-coded field set —
// the same constructor-injection idiom the teacher's internal/handlers
// package uses for its own dependencies.
package resolver

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/acquisition"
	"github.com/chinmay-sawant/fontresolve/internal/cache"
	"github.com/chinmay-sawant/fontresolve/internal/config"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/license"
	"github.com/chinmay-sawant/fontresolve/internal/normalizer"
	"github.com/chinmay-sawant/fontresolve/internal/similarity"
	"github.com/chinmay-sawant/fontresolve/internal/sources"
	"github.com/chinmay-sawant/fontresolve/internal/webdb"
	"go.uber.org/zap"
)

// suggestionPoolLimit bounds how many candidates MatchAll keeps per tier
// before suggestion-level ranking and the spec's score-threshold
// truncation run.
const suggestionPoolLimit = 50

// Orchestrator is the library boundary's backing implementation
// (pkg/fontresolve.Client is a thin facade over it).
type Orchestrator struct {
	Cfg         config.Config
	Cache       *cache.Cache
	Scanner     *sources.Scanner
	WebDB       *webdb.Database // nil when web_fonts_enabled is false or load failed
	Acquisition *acquisition.Manager // nil when no internet providers are configured
	License     *license.Checker
	Log         *zap.SugaredLogger

	systemFontsCache []fontcore.FontDescriptor // populated lazily on first scan
}

// New builds an Orchestrator from its collaborators. Any of WebDB/Acquisition
// may be nil; Cache may be nil to bypass both cache levels entirely (spec.md
// §6's cache_enabled=false).
func New(cfg config.Config, c *cache.Cache, scanner *sources.Scanner, db *webdb.Database, acq *acquisition.Manager, log *zap.SugaredLogger) *Orchestrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		Cfg:         cfg,
		Cache:       c,
		Scanner:     scanner,
		WebDB:       db,
		Acquisition: acq,
		License:     license.NewChecker(),
		Log:         log,
	}
}

// systemFonts scans and memoizes the system font list; the teacher's own
// fontregistry.go caches a similarly expensive directory scan in a field
// rather than re-walking on every lookup.
func (o *Orchestrator) systemFonts(ctx context.Context) []fontcore.FontDescriptor {
	if !o.Cfg.SystemFontsEnabled || o.Scanner == nil {
		return nil
	}
	if o.systemFontsCache != nil {
		return o.systemFontsCache
	}
	fonts, err := o.Scanner.Scan(ctx)
	if err != nil {
		o.Log.Warnw("system font scan failed", "error", err)
	}
	o.systemFontsCache = fonts
	return fonts
}

// customFonts scans configured project asset directories, tagged
// SourceBundled since they are user-provided rather than discovered web
// fonts.
func (o *Orchestrator) customFonts(ctx context.Context) []fontcore.FontDescriptor {
	if !o.Cfg.CustomFontsEnabled || len(o.Cfg.ProjectAssetDirs) == 0 {
		return nil
	}
	scanner := &sources.Scanner{Dirs: o.Cfg.ProjectAssetDirs, ParseMetrics: true}
	fonts, err := scanner.Scan(ctx)
	if err != nil {
		o.Log.Warnw("custom asset dir scan failed", "error", err)
	}
	return fonts
}

// aggregateCandidates gathers every enabled source's descriptors, ordered
// per config.SourcePriority (SPEC_FULL.md §4.5 supplement). Order only
// affects de-duplication/tie-break stability; scoring considers every
// candidate regardless of source.
func (o *Orchestrator) aggregateCandidates(ctx context.Context) []fontcore.FontDescriptor {
	system := o.systemFonts(ctx)
	var web []fontcore.FontDescriptor
	if o.Cfg.WebFontsEnabled && o.WebDB != nil {
		web = o.WebDB.All()
	}
	custom := o.customFonts(ctx)

	switch o.Cfg.FontSourcePriority {
	case config.PrioritySystemThenCustom:
		return concat(system, custom, web)
	case config.PrioritySystemThenWebThenCustom:
		return concat(system, web, custom)
	case config.PriorityCustomThenSystemThenWeb:
		return concat(custom, system, web)
	case config.PriorityAllCustomFirst:
		return concat(custom, system, web)
	case config.PriorityAllWebFirst:
		return concat(web, system, custom)
	case config.PrioritySystemOnly:
		return system
	default: // PrioritySystemThenWeb and PriorityList fall back to this order
		return concat(system, web, custom)
	}
}

func concat(groups ...[]fontcore.FontDescriptor) []fontcore.FontDescriptor {
	var out []fontcore.FontDescriptor
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Resolve implements spec.md §4.5's resolve(name).
func (o *Orchestrator) Resolve(ctx context.Context, name string) (fontcore.ResolutionResult, error) {
	if o.Cfg.CacheEnabled && o.Cache != nil {
		if desc, ok := o.Cache.Get(name); ok {
			return fontcore.ResolutionResult{
				Font:     desc,
				Warnings: []string{"loaded from cache"},
			}, nil
		}
	}

	req, err := normalizer.Normalize(name)
	if err != nil {
		return fontcore.ResolutionResult{}, err
	}

	candidates := o.aggregateCandidates(ctx)
	if len(candidates) == 0 {
		return fontcore.ResolutionResult{}, fontcore.NotFound(name)
	}

	engine := o.similarityEngine()
	tiered := engine.MatchAll(req, candidates, 0)

	var warnings []string
	best, bestScore, found := bestOverall(tiered)

	var result fontcore.ResolutionResult
	if found && bestScore >= 0.6 {
		warn := o.License.Check(best)
		if warn.WarningLevel != license.LevelInfo {
			warnings = append(warnings, warn.Message)
		}
		substituted := !strings.EqualFold(best.Family, req.NormalizedFamily) && bestScore < 0.999
		var reason fontcore.SubstitutionReason
		if substituted {
			reason = fontcore.ReasonFontNotFound
		}

		if warn.WarningLevel != license.LevelInfo && best.License != nil && !best.License.SafeForDistribution() {
			if alt := licenseAlternative(candidates, warn); alt != nil {
				best = *alt
				substituted = true
				reason = fontcore.ReasonLicenseRestriction
				warnings = append(warnings, "substituted for license restriction: "+warn.Message)
			}
		} else if best.Format == fontcore.FormatOther {
			if alt := sameFamilySupportedFormat(candidates, best); alt != nil {
				best = *alt
				substituted = true
				reason = fontcore.ReasonFormatUnsupported
				warnings = append(warnings, "original format unsupported, substituted a supported format")
			}
		}

		result = fontcore.ResolutionResult{
			Font:        best,
			Substituted: substituted,
			Reason:      reason,
			Warnings:    warnings,
		}
	} else {
		fallback, byPreference := o.fallbackSubstitution(req, candidates)
		warnings = append(warnings, "no good match found for '"+name+"', using fallback")
		reason := fontcore.ReasonFontNotFound
		if byPreference {
			reason = fontcore.ReasonUserPreference
		}
		result = fontcore.ResolutionResult{
			Font:        fallback,
			Substituted: true,
			Reason:      reason,
			Warnings:    warnings,
		}
	}

	if o.Cfg.CacheEnabled && o.Cache != nil {
		if err := o.Cache.Put(name, result.Font); err != nil {
			result.Warnings = append(result.Warnings, "cache write-back failed: "+err.Error())
		}
	}

	return result, nil
}

func (o *Orchestrator) similarityEngine() *similarity.Engine {
	if o.Cfg.WebFontsEnabled && o.WebDB != nil {
		if matrix := o.WebDB.Raw().SimilarityMatrix; matrix != nil {
			return similarity.WithMatrix(matrix)
		}
	}
	return similarity.New()
}

func bestOverall(t fontcore.TieredMatchResult) (fontcore.FontDescriptor, float64, bool) {
	for _, group := range [][]fontcore.FontMatch{t.Exact, t.Similar, t.Low} {
		if len(group) > 0 {
			return group[0].Descriptor, group[0].Score, true
		}
	}
	return fontcore.FontDescriptor{}, 0, false
}

// fallbackSubstitution picks the system font with the best weight+italic+
// monospace agreement, per spec.md §4.5's NotFound fallback. Before scoring,
// it consults normalizer.CommonAliases() for a marketing-name shorthand
// (e.g. "helvetica" -> "arial") and returns the first candidate matching the
// aliased family directly. Ties in agreement score are broken in favor of a
// candidate whose family appears in config.PreferredFamilies; the second
// return value reports whether that tie-break determined the result.
func (o *Orchestrator) fallbackSubstitution(req fontcore.FontRequest, candidates []fontcore.FontDescriptor) (fontcore.FontDescriptor, bool) {
	if alias, ok := normalizer.CommonAliases()[req.NormalizedFamily]; ok {
		for _, c := range candidates {
			if strings.EqualFold(c.Family, alias) || strings.Contains(strings.ToLower(c.Family), alias) {
				return c, false
			}
		}
	}

	preferred := make(map[string]struct{}, len(o.Cfg.PreferredFamilies))
	for _, f := range o.Cfg.PreferredFamilies {
		preferred[strings.ToLower(f)] = struct{}{}
	}

	var best fontcore.FontDescriptor
	bestScore := -1.0
	bestPreferred := false
	byPreference := false
	for _, c := range candidates {
		score := agreementScore(req, c)
		_, isPreferred := preferred[strings.ToLower(c.Family)]
		switch {
		case score > bestScore:
			bestScore, best, bestPreferred = score, c, isPreferred
			byPreference = false
		case score == bestScore && isPreferred && !bestPreferred:
			best, bestPreferred = c, isPreferred
			byPreference = true
		}
	}
	return best, byPreference
}

// licenseAlternative looks up warn.Alternatives (ranked free substitutes)
// against candidates and returns the first one actually available locally.
func licenseAlternative(candidates []fontcore.FontDescriptor, warn license.Warning) *fontcore.FontDescriptor {
	for _, alt := range warn.Alternatives {
		for i := range candidates {
			if strings.EqualFold(candidates[i].Family, alt.Family) {
				return &candidates[i]
			}
		}
	}
	return nil
}

// sameFamilySupportedFormat finds another candidate of the same family as
// best but in a recognized container format, for when best.Format is
// FormatOther.
func sameFamilySupportedFormat(candidates []fontcore.FontDescriptor, best fontcore.FontDescriptor) *fontcore.FontDescriptor {
	for i := range candidates {
		if strings.EqualFold(candidates[i].Family, best.Family) && candidates[i].Format != fontcore.FormatOther {
			return &candidates[i]
		}
	}
	return nil
}

func agreementScore(req fontcore.FontRequest, cand fontcore.FontDescriptor) float64 {
	delta := req.Weight - cand.Weight
	if delta < 0 {
		delta = -delta
	}
	score := 1.0 / (float64(delta) + 1.0)
	if req.Italic == cand.Italic {
		score += 1.0
	}
	if req.Monospaced == cand.Monospaced {
		score += 0.5
	}
	return score
}

// GetSuggestions implements spec.md §4.5's get_suggestions(name, include_internet).
func (o *Orchestrator) GetSuggestions(ctx context.Context, name string, includeInternet bool) ([]fontcore.FontSuggestion, error) {
	req, err := normalizer.Normalize(name)
	if err != nil {
		return nil, err
	}

	candidates := o.aggregateCandidates(ctx)
	engine := o.similarityEngine()
	tiered := engine.MatchAll(req, candidates, suggestionPoolLimit)

	var suggestions []fontcore.FontSuggestion
	for _, group := range [][]fontcore.FontMatch{tiered.Exact, tiered.Similar, tiered.Low} {
		for _, m := range group {
			suggestions = append(suggestions, fontcore.FontSuggestion{
				Descriptor: m.Descriptor,
				Score:      m.Score,
				Source:     fontcore.SuggestionLocal,
				Critical:   o.isCritical(m.Descriptor, false),
			})
		}
	}

	if includeInternet && o.Acquisition != nil {
		webResults, err := o.Acquisition.ParallelSearch(ctx, req.NormalizedFamily, suggestionPoolLimit)
		if err != nil {
			o.Log.Warnw("internet suggestion search failed", "error", err)
		}
		seen := make(map[string]struct{}, len(suggestions))
		for _, s := range suggestions {
			seen[dedupeKey(s.Descriptor)] = struct{}{}
		}
		for _, f := range webResults {
			desc := fontcore.FontDescriptor{
				Family: f.Family, PostScriptName: f.PostScriptName, Weight: f.Weight,
				Italic: f.Italic, Monospaced: f.Monospaced, Metrics: f.Metrics,
				License: f.License, Format: f.Format, Source: fontcore.SourceWeb,
			}
			key := dedupeKey(desc)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			suggestions = append(suggestions, fontcore.FontSuggestion{
				Descriptor: desc,
				Score:      engine.Score(req, desc),
				Source:     fontcore.SuggestionInternet,
				Critical:   o.isCritical(desc, true),
			})
		}
	}

	if len(suggestions) == 0 || allBelow(suggestions, 0.6) {
		suggestions = append(suggestions, o.metricSubstitutes(req, candidates)...)
	}

	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].Score > suggestions[j].Score })
	return similarity.ThresholdSuggestions(suggestions), nil
}

func dedupeKey(d fontcore.FontDescriptor) string {
	family, weight, italic := d.Identity()
	return family + "|" + strconv.Itoa(weight) + "|" + strconv.FormatBool(italic)
}

func allBelow(suggestions []fontcore.FontSuggestion, threshold float64) bool {
	for _, s := range suggestions {
		if s.Score >= threshold {
			return false
		}
	}
	return true
}

// metricSubstitutes returns metric-compatible system candidates marked
// is_offline_fallback=true, per spec.md §4.5.
func (o *Orchestrator) metricSubstitutes(req fontcore.FontRequest, candidates []fontcore.FontDescriptor) []fontcore.FontSuggestion {
	var out []fontcore.FontSuggestion
	for _, c := range candidates {
		if c.Metrics == nil {
			continue
		}
		out = append(out, fontcore.FontSuggestion{
			Descriptor:        c,
			Score:             agreementScore(req, c) / 2.5,
			Source:            fontcore.SuggestionOfflineFallback,
			IsOfflineFallback: true,
		})
	}
	return out
}

// isCritical implements spec.md §4.5's license criticality helper: an
// internet candidate is critical unless its license is a known-safe open
// font license or explicitly allows commercial use; a non-system candidate
// with no license at all is also critical.
func (o *Orchestrator) isCritical(d fontcore.FontDescriptor, fromInternet bool) bool {
	if d.License == nil {
		return d.Source != fontcore.SourceSystem
	}
	if fromInternet {
		name := strings.ToLower(d.License.Name)
		safe := strings.Contains(name, "sil open font license") || strings.Contains(name, "ofl") || d.License.AllowsCommercialUse
		return !safe
	}
	return false
}

// TieredResolve implements spec.md §4.5's resolve_with_tiered_matching.
func (o *Orchestrator) TieredResolve(ctx context.Context, name string, includeInternet bool) (fontcore.TieredResolutionResult, error) {
	req, err := normalizer.Normalize(name)
	if err != nil {
		return fontcore.TieredResolutionResult{}, err
	}

	candidates := o.aggregateCandidates(ctx)
	engine := o.similarityEngine()
	tiered := engine.MatchAll(req, candidates, suggestionPoolLimit)

	if len(tiered.Exact) > 0 {
		return fontcore.TieredResolutionResult{
			Kind:  fontcore.TRKExact,
			Font:  &tiered.Exact[0].Descriptor,
			Score: tiered.Exact[0].Score,
		}, nil
	}
	if len(tiered.Similar) > 0 {
		return fontcore.TieredResolutionResult{
			Kind:      fontcore.TRKSimilar,
			Matches:   tiered.Similar,
			BestScore: tiered.Similar[0].Score,
		}, nil
	}

	if !includeInternet || o.Acquisition == nil {
		return fontcore.TieredResolutionResult{Kind: fontcore.TRKSuggestInternet}, nil
	}

	webResults, err := o.Acquisition.ParallelSearch(ctx, req.NormalizedFamily, suggestionPoolLimit)
	if err != nil {
		o.Log.Warnw("tiered internet search failed", "error", err)
	}
	if len(webResults) == 0 {
		return fontcore.TieredResolutionResult{Kind: fontcore.TRKNotFound}, nil
	}

	webCandidates := make([]fontcore.FontDescriptor, len(webResults))
	for i, f := range webResults {
		webCandidates[i] = fontcore.FontDescriptor{
			Family: f.Family, PostScriptName: f.PostScriptName, Weight: f.Weight,
			Italic: f.Italic, Monospaced: f.Monospaced, Metrics: f.Metrics,
			License: f.License, Format: f.Format, Source: fontcore.SourceWeb,
		}
	}
	webTiered := engine.MatchAll(req, webCandidates, suggestionPoolLimit)
	if len(webTiered.Exact) > 0 {
		return fontcore.TieredResolutionResult{
			Kind:  fontcore.TRKInternet,
			Font:  &webTiered.Exact[0].Descriptor,
			Score: webTiered.Exact[0].Score,
		}, nil
	}
	if len(webTiered.Similar) > 0 {
		return fontcore.TieredResolutionResult{
			Kind:      fontcore.TRKInternet,
			Matches:   webTiered.Similar,
			BestScore: webTiered.Similar[0].Score,
		}, nil
	}
	return fontcore.TieredResolutionResult{Kind: fontcore.TRKNotFound}, nil
}
