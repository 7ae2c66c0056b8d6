package similarity

import (
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func TestScoreRange(t *testing.T) {
	e := New()
	req := fontcore.FontRequest{NormalizedFamily: "arial", Weight: 400}
	cand := fontcore.FontDescriptor{Family: "Times New Roman", Weight: 900, Italic: true}
	score := e.Score(req, cand)
	require.GreaterOrEqual(t, score, 0.0)
	require.LessOrEqual(t, score, 1.0)
}

func TestSelfMatchIsExact(t *testing.T) {
	e := New()
	req := fontcore.FontRequest{NormalizedFamily: "arial", Weight: 400, Italic: false}
	cand := fontcore.FontDescriptor{Family: "arial", Weight: 400, Italic: false}
	score := e.Score(req, cand)
	require.GreaterOrEqual(t, score, 0.9)
	require.Equal(t, fontcore.TierExact, fontcore.ClassifyTier(score))
}

func TestMonospaceMismatchReducesScore(t *testing.T) {
	e := New()
	req := fontcore.FontRequest{NormalizedFamily: "courier-new", Weight: 400, Monospaced: true}
	mono := fontcore.FontDescriptor{Family: "Courier New", Weight: 400, Monospaced: true}
	notMono := fontcore.FontDescriptor{Family: "Courier New", Weight: 400, Monospaced: false}

	require.Greater(t, e.Score(req, mono), e.Score(req, notMono))
}

func TestTierOrdering(t *testing.T) {
	require.True(t, fontcore.TierExact != fontcore.TierSimilar)
	require.Equal(t, fontcore.TierExact, fontcore.ClassifyTier(0.95))
	require.Equal(t, fontcore.TierSimilar, fontcore.ClassifyTier(0.85))
	require.Equal(t, fontcore.TierLow, fontcore.ClassifyTier(0.5))
}

func TestMatchAllSortsAndTruncates(t *testing.T) {
	e := New()
	req := fontcore.FontRequest{NormalizedFamily: "arial", Weight: 400}
	candidates := []fontcore.FontDescriptor{
		{Family: "Arial", Weight: 400},
		{Family: "Arial", Weight: 700},
		{Family: "Verdana", Weight: 400},
	}
	result := e.MatchAll(req, candidates, 1)
	require.LessOrEqual(t, len(result.Exact), 1)
	tier, ok := result.BestTier()
	require.True(t, ok)
	require.Equal(t, fontcore.TierExact, tier)
}

func TestPrecomputedMatrixShortcut(t *testing.T) {
	matrix := map[string][]fontcore.SimilarityEntry{
		"arial": {{Family: "Helvetica", Score: 0.93}},
	}
	e := WithMatrix(matrix)
	req := fontcore.FontRequest{NormalizedFamily: "arial", Weight: 400}
	cand := fontcore.FontDescriptor{Family: "Helvetica", Weight: 900, Italic: true}
	result := e.MatchAll(req, []fontcore.FontDescriptor{cand}, 0)
	require.Len(t, result.Exact, 1)
	require.InDelta(t, 0.35*0.93+0.65, result.Exact[0].Score, 1e-9)
}

func TestThresholdSuggestionsBands(t *testing.T) {
	high := []fontcore.FontSuggestion{{Score: 0.99}, {Score: 0.99}, {Score: 0.99}, {Score: 0.99}, {Score: 0.99}}
	require.Len(t, ThresholdSuggestions(high), 4)

	mid := []fontcore.FontSuggestion{{Score: 0.95}, {Score: 0.8}, {Score: 0.7}}
	got := ThresholdSuggestions(mid)
	for _, s := range got {
		require.GreaterOrEqual(t, s.Score, 0.75)
	}

	low := make([]fontcore.FontSuggestion, 25)
	for i := range low {
		low[i] = fontcore.FontSuggestion{Score: 0.5}
	}
	require.Len(t, ThresholdSuggestions(low), 20)
}
