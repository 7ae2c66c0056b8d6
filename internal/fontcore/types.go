// Package fontcore holds the data model shared by every other package in
// this module: requests, descriptors, metrics, license info, the compressed
// database shape, cache entries, and match tiers. Nothing here touches I/O.
package fontcore

import "time"

// FontStyle tags the slant of a face.
type FontStyle string

const (
	StyleNormal  FontStyle = "normal"
	StyleItalic  FontStyle = "italic"
	StyleOblique FontStyle = "oblique"
)

// FontFormat tags the container format of a face.
type FontFormat string

const (
	FormatTTF   FontFormat = "ttf"
	FormatOTF   FontFormat = "otf"
	FormatWOFF  FontFormat = "woff"
	FormatWOFF2 FontFormat = "woff2"
	FormatOther FontFormat = "other"
)

// FontCategory buckets a face by visual family, used by the similarity
// engine's category axis and by the compressed database.
type FontCategory string

const (
	CategorySerif       FontCategory = "serif"
	CategorySansSerif   FontCategory = "sans-serif"
	CategoryMonospace   FontCategory = "monospace"
	CategoryDisplay     FontCategory = "display"
	CategoryHandwriting FontCategory = "handwriting"
	CategoryDecorative  FontCategory = "decorative"
	CategorySymbol      FontCategory = "symbol"
	CategoryOther       FontCategory = "other"
)

// FontSource identifies where a FontDescriptor was produced, carried through
// to the CLI's --detailed output and to export_metrics.
type FontSource string

const (
	SourceSystem   FontSource = "system"
	SourceBundled  FontSource = "bundled"
	SourceWeb      FontSource = "web"
	SourceAcquired FontSource = "acquired"
)

// SubstitutionReason explains why a resolve() result differs from the
// original request.
type SubstitutionReason string

const (
	ReasonFontNotFound        SubstitutionReason = "font_not_found"
	ReasonLicenseRestriction  SubstitutionReason = "license_restriction"
	ReasonFormatUnsupported   SubstitutionReason = "format_unsupported"
	ReasonUserPreference      SubstitutionReason = "user_preference"
)

// FontRequest is the normalizer's output: a structured, immutable view of
// whatever string a caller asked for.
type FontRequest struct {
	OriginalName     string
	NormalizedFamily string
	Weight           int
	Italic           bool
	Monospaced       bool
	Style            FontStyle
}

// FontMetrics carries the subset of OpenType metrics needed for
// metric-compatible substitution. UnitsPerEm must be > 0 whenever a
// FontMetrics value is attached to a descriptor.
type FontMetrics struct {
	UnitsPerEm      uint16
	Ascender        int16
	Descender       int16
	XHeight         int16
	CapHeight       int16
	AverageWidth    int16
	MaxAdvanceWidth uint16
}

// LicenseInfo records licensing posture for a face.
type LicenseInfo struct {
	Name                 string
	URL                  string
	AllowsEmbedding      bool
	AllowsModification   bool
	RequiresAttribution  bool
	AllowsCommercialUse  bool
}

// SafeForDistribution mirrors spec.md's derived predicate: embeddable and
// attribution-free.
func (l LicenseInfo) SafeForDistribution() bool {
	return l.AllowsEmbedding && !l.RequiresAttribution
}

// FontDescriptor is the canonical representation of one concrete face,
// flowing unchanged from a source through matching and caching.
type FontDescriptor struct {
	Family          string
	Subfamily       string
	PostScriptName  string
	FullName        string
	Path            string
	Format          FontFormat
	Weight          int
	Italic          bool
	Monospaced      bool
	Variable        bool
	Metrics         *FontMetrics
	License         *LicenseInfo
	Source          FontSource
}

// Identity is the de-duplication key: case-insensitive family + weight +
// italic, per spec.md §3.
func (f FontDescriptor) Identity() (family string, weight int, italic bool) {
	return lowerASCII(f.Family), f.Weight, f.Italic
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// CompressedFontData is the face shape carried inside a CompressedFontDatabase:
// FontDescriptor minus the filesystem path, plus category/popularity/urls.
type CompressedFontData struct {
	Family         string
	Subfamily      string
	PostScriptName string
	FullName       string
	Format         FontFormat
	Weight         int
	Italic         bool
	Monospaced     bool
	Variable       bool
	Metrics        *FontMetrics
	License        *LicenseInfo
	Category       FontCategory
	SimilarFonts   []string
	DownloadURLs   map[FontFormat]string
	FileSizeKB     uint32
	Popularity     uint8
}

// FontDatabaseMetadata describes a CompressedFontDatabase.
type FontDatabaseMetadata struct {
	Version              string
	FontCount            int
	CompressedSizeBytes  uint64
	OriginalSizeBytes    uint64
	CreatedAt            time.Time
	CategoryHistogram    map[FontCategory]int
	IncludeFullData      bool
}

// SimilarityEntry is one row of a precomputed similarity matrix.
type SimilarityEntry struct {
	Family string
	Score  float64
}

// CompressedFontDatabase is the decoded form of the on-disk codec payload.
type CompressedFontDatabase struct {
	Metadata         FontDatabaseMetadata
	Fonts            []CompressedFontData
	SimilarityMatrix map[string][]SimilarityEntry // nil if not built
}

// CacheEntry wraps a FontDescriptor with bookkeeping used by internal/cache.
type CacheEntry struct {
	Descriptor      FontDescriptor
	AccessCount     uint32
	LastAccessed    time.Time
	CreatedAt       time.Time
	IsPinned        bool
	EstimatedSizeKB int
}

// EstimateSizeKB applies spec.md §3's size-estimate rule: 50 KB base, +100 KB
// if variable, +20 KB if metrics present.
func EstimateSizeKB(d FontDescriptor) int {
	size := 50
	if d.Variable {
		size += 100
	}
	if d.Metrics != nil {
		size += 20
	}
	return size
}

// MatchTierKind tags which band a score falls into.
type MatchTierKind string

const (
	TierExact   MatchTierKind = "exact"
	TierSimilar MatchTierKind = "similar"
	TierLow     MatchTierKind = "low"
)

// ClassifyTier implements spec.md §4.2's tier partition: >=0.9 Exact,
// >=0.8 Similar, else Low.
func ClassifyTier(score float64) MatchTierKind {
	switch {
	case score >= 0.9:
		return TierExact
	case score >= 0.8:
		return TierSimilar
	default:
		return TierLow
	}
}

// FontMatch pairs a descriptor with a score and its tier.
type FontMatch struct {
	Descriptor FontDescriptor
	Score      float64
	Tier       MatchTierKind
}

// SourceType distinguishes the origin of a resolve() candidate pool,
// independent of FontSource (which is attached to individual faces).
type SourceType string

const (
	SourceTypeSystem SourceType = "system"
	SourceTypeWeb    SourceType = "web"
	SourceTypeCustom SourceType = "custom"
)

// ResolutionResult is returned by Orchestrator.Resolve.
type ResolutionResult struct {
	Font         FontDescriptor
	Substituted  bool
	Reason       SubstitutionReason
	Warnings     []string
}

// SuggestionSource tags where a suggestion in get_suggestions came from.
type SuggestionSource string

const (
	SuggestionLocal           SuggestionSource = "local"
	SuggestionInternet        SuggestionSource = "internet"
	SuggestionOfflineFallback SuggestionSource = "offline_fallback"
)

// FontSuggestion is one ranked candidate from get_suggestions.
type FontSuggestion struct {
	Descriptor        FontDescriptor
	Score             float64
	Source            SuggestionSource
	IsOfflineFallback bool
	Critical          bool // license-critical warning
}

// TieredMatchResult groups FontMatch values by tier, as returned by
// internal/similarity.
type TieredMatchResult struct {
	Exact   []FontMatch
	Similar []FontMatch
	Low     []FontMatch
}

// BestTier reports the tier of the single best-scoring match, if any.
func (t TieredMatchResult) BestTier() (MatchTierKind, bool) {
	switch {
	case len(t.Exact) > 0:
		return TierExact, true
	case len(t.Similar) > 0:
		return TierSimilar, true
	case len(t.Low) > 0:
		return TierLow, true
	default:
		return "", false
	}
}

// TieredResolutionResult is returned by resolve_with_tiered_matching.
type TieredResolutionResultKind string

const (
	TRKExact          TieredResolutionResultKind = "exact"
	TRKSimilar        TieredResolutionResultKind = "similar"
	TRKSuggestInternet TieredResolutionResultKind = "suggest_internet"
	TRKInternet       TieredResolutionResultKind = "internet"
	TRKNotFound       TieredResolutionResultKind = "not_found"
)

type TieredResolutionResult struct {
	Kind      TieredResolutionResultKind
	Font      *FontDescriptor
	Score     float64
	Matches   []FontMatch
	BestScore float64
}
