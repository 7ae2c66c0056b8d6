// Package similarity implements the five-axis tiered matching engine:
// name, weight, style, category, and metrics scores combined into one
// overall score, partitioned into Exact/Similar/Low tiers.
//
// The indexing shape (a flat slice of candidates scored and sorted, rather
// than a tree or graph structure) follows the same pattern as
// other_examples' Graphixa-FontGet font_matches.go fontIndex: build a flat
// candidate list once, score/sort it per query rather than maintaining a
// persistent index structure.
package similarity

import (
	"sort"
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

const (
	weightName     = 0.35
	weightWeight   = 0.25
	weightStyle    = 0.20
	weightCategory = 0.15
	weightMetrics  = 0.05

	monospaceMismatchPenalty = 0.7
)

// Engine scores candidates against a request. It optionally carries a
// precomputed similarity matrix (from a decompressed font database) that
// shortcuts the name axis.
type Engine struct {
	Matrix map[string][]fontcore.SimilarityEntry
}

// New builds an Engine with no precomputed matrix.
func New() *Engine { return &Engine{} }

// WithMatrix attaches a precomputed similarity matrix (see internal/codec)
// consulted as a shortcut per spec.md §4.2.
func WithMatrix(matrix map[string][]fontcore.SimilarityEntry) *Engine {
	return &Engine{Matrix: matrix}
}

// Score computes the weighted overall score in [0,1] for one candidate
// against one request.
func (e *Engine) Score(req fontcore.FontRequest, cand fontcore.FontDescriptor) float64 {
	nameScore := e.nameScore(req.NormalizedFamily, cand.Family)
	weightScore := weightAxisScore(req.Weight, cand.Weight)
	styleScore := styleAxisScore(req.Italic, cand.Italic)
	categoryScore := categoryAxisScore(req, cand)
	metricsScore := metricsAxisScore(cand)

	overall := weightName*nameScore + weightWeight*weightScore +
		weightStyle*styleScore + weightCategory*categoryScore + weightMetrics*metricsScore

	if req.Monospaced != cand.Monospaced {
		overall *= monospaceMismatchPenalty
	}
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}
	return overall
}

// nameScore is the online name axis: 1.0 for a case-insensitive exact
// match, 0.85 when one name contains the other, else word then character
// Jaccard similarity. It does not consult the matrix; the precomputed
// shortcut is applied in MatchAll.
func (e *Engine) nameScore(requestFamily, candidateFamily string) float64 {
	reqLower := strings.ToLower(requestFamily)
	candLower := strings.ToLower(candidateFamily)

	if reqLower == candLower {
		return 1.0
	}
	if strings.Contains(reqLower, candLower) || strings.Contains(candLower, reqLower) {
		return 0.85
	}
	return jaccardScore(reqLower, candLower)
}

func jaccardScore(a, b string) float64 {
	wordsA := tokenSet(strings.Fields(a))
	wordsB := tokenSet(strings.Fields(b))
	if score, ok := jaccard(wordsA, wordsB); ok {
		return score
	}
	charsA := runeSet(a)
	charsB := runeSet(b)
	if score, ok := jaccard(charsA, charsB); ok {
		return score
	}
	return 0
}

func tokenSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func runeSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, r := range s {
		m[string(r)] = struct{}{}
	}
	return m
}

func jaccard(a, b map[string]struct{}) (float64, bool) {
	if len(a) == 0 && len(b) == 0 {
		return 0, false
	}
	union := map[string]struct{}{}
	intersection := 0
	for k := range a {
		union[k] = struct{}{}
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	for k := range b {
		union[k] = struct{}{}
	}
	if len(union) == 0 {
		return 0, false
	}
	score := float64(intersection) / float64(len(union))
	if score == 0 {
		return 0, false
	}
	return score, true
}

func weightAxisScore(reqWeight, candWeight int) float64 {
	delta := reqWeight - candWeight
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta == 0:
		return 1.0
	case delta <= 100:
		return 0.8
	case delta <= 200:
		return 0.6
	case delta <= 300:
		return 0.4
	default:
		return 0.2
	}
}

func styleAxisScore(reqItalic, candItalic bool) float64 {
	switch {
	case reqItalic == candItalic:
		return 1.0
	case reqItalic && !candItalic:
		return 0.4
	default: // !reqItalic && candItalic
		return 0.7
	}
}

// DetectCategory implements spec.md §4.2's name-substring category
// detection. internal/codec's offline compression pipeline carries its own
// copy of the same rules (detectCategoryFromFamily).
func DetectCategory(name string) fontcore.FontCategory {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "mono") || strings.Contains(lower, "console"):
		return fontcore.CategoryMonospace
	case strings.Contains(lower, "serif") && !strings.Contains(lower, "sans"):
		return fontcore.CategorySerif
	case strings.Contains(lower, "sans"):
		return fontcore.CategorySansSerif
	case strings.Contains(lower, "script") || strings.Contains(lower, "hand"):
		return fontcore.CategoryHandwriting
	case strings.Contains(lower, "display") || strings.Contains(lower, "decorative"):
		return fontcore.CategoryDisplay
	default:
		return fontcore.CategorySansSerif
	}
}

func categoryAxisScore(req fontcore.FontRequest, cand fontcore.FontDescriptor) float64 {
	reqCategory := DetectCategory(req.NormalizedFamily)
	if req.Monospaced {
		reqCategory = fontcore.CategoryMonospace
	}
	candCategory := DetectCategory(cand.Family)
	if cand.Monospaced {
		candCategory = fontcore.CategoryMonospace
	}

	if reqCategory == candCategory {
		return 1.0
	}

	switch {
	case reqCategory == fontcore.CategoryMonospace && candCategory != fontcore.CategoryMonospace:
		return 0.1
	case reqCategory != fontcore.CategoryMonospace && candCategory == fontcore.CategoryMonospace:
		return 0.2
	case (reqCategory == fontcore.CategorySerif && candCategory == fontcore.CategorySansSerif) ||
		(reqCategory == fontcore.CategorySansSerif && candCategory == fontcore.CategorySerif):
		return 0.3
	case (reqCategory == fontcore.CategoryHandwriting && candCategory == fontcore.CategoryDisplay) ||
		(reqCategory == fontcore.CategoryDisplay && candCategory == fontcore.CategoryHandwriting):
		return 0.6
	default:
		return 0.4
	}
}

func metricsAxisScore(cand fontcore.FontDescriptor) float64 {
	if cand.Metrics != nil {
		return 0.8
	}
	return 0.7
}

// MatchAll scores every candidate, applies the precomputed-matrix shortcut,
// sorts within tier, and truncates each tier to limit (0 means unbounded).
func (e *Engine) MatchAll(req fontcore.FontRequest, candidates []fontcore.FontDescriptor, limit int) fontcore.TieredMatchResult {
	matches := make([]fontcore.FontMatch, 0, len(candidates))
	for _, cand := range candidates {
		score := e.Score(req, cand)
		if e.Matrix != nil {
			if entries, ok := e.Matrix[strings.ToLower(req.NormalizedFamily)]; ok {
				for _, entry := range entries {
					if strings.EqualFold(entry.Family, cand.Family) {
						score = entry.Score
						break
					}
				}
			}
		}
		matches = append(matches, fontcore.FontMatch{
			Descriptor: cand,
			Score:      score,
			Tier:       fontcore.ClassifyTier(score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	result := fontcore.TieredMatchResult{}
	for _, m := range matches {
		switch m.Tier {
		case fontcore.TierExact:
			result.Exact = append(result.Exact, m)
		case fontcore.TierSimilar:
			result.Similar = append(result.Similar, m)
		default:
			result.Low = append(result.Low, m)
		}
	}
	if limit > 0 {
		result.Exact = truncate(result.Exact, limit)
		result.Similar = truncate(result.Similar, limit)
		result.Low = truncate(result.Low, limit)
	}
	return result
}

func truncate(matches []fontcore.FontMatch, limit int) []fontcore.FontMatch {
	if len(matches) <= limit {
		return matches
	}
	return matches[:limit]
}

// ThresholdSuggestions applies the orchestrator-level result thresholding
// rule from spec.md §4.2: if top>0.98 keep top 4; else if top>0.90 drop
// anything <0.75 and keep top 10; else keep top 20. Input must already be
// sorted by Score descending.
func ThresholdSuggestions(sorted []fontcore.FontSuggestion) []fontcore.FontSuggestion {
	if len(sorted) == 0 {
		return sorted
	}
	top := sorted[0].Score
	switch {
	case top > 0.98:
		return truncateSuggestions(sorted, 4)
	case top > 0.90:
		filtered := make([]fontcore.FontSuggestion, 0, len(sorted))
		for _, s := range sorted {
			if s.Score >= 0.75 {
				filtered = append(filtered, s)
			}
		}
		return truncateSuggestions(filtered, 10)
	default:
		return truncateSuggestions(sorted, 20)
	}
}

func truncateSuggestions(s []fontcore.FontSuggestion, n int) []fontcore.FontSuggestion {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
