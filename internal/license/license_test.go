package license

import (
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

func TestCheckCommonSystemFontIsInfoLevel(t *testing.T) {
	c := NewChecker()
	w := c.Check(fontcore.FontDescriptor{Family: "Arial", Path: `C:\Windows\Fonts\arial.ttf`})
	require.Equal(t, TypeSystemEmbedded, w.LicenseType)
	require.Equal(t, LevelInfo, w.WarningLevel)
}

func TestCheckUncommonCommercialFontIsWarningLevel(t *testing.T) {
	c := NewChecker()
	w := c.Check(fontcore.FontDescriptor{Family: "Futura"})
	require.Equal(t, TypeCommercial, w.LicenseType)
	require.Equal(t, LevelWarning, w.WarningLevel)
}

func TestCheckOpenSourceFont(t *testing.T) {
	c := NewChecker()
	w := c.Check(fontcore.FontDescriptor{Family: "Noto Sans"})
	require.Equal(t, TypeOpenSource, w.LicenseType)
	require.Equal(t, LevelInfo, w.WarningLevel)
}

func TestFindAlternativesBoostsMetricCompatible(t *testing.T) {
	c := NewChecker()
	alts := c.FindAlternatives(fontcore.FontDescriptor{Family: "Arial"})
	require.NotEmpty(t, alts)
	require.Equal(t, "Liberation Sans", alts[0].Family)
	require.InDelta(t, 0.98, alts[0].SimilarityScore, 0.001)
}

func TestFindAlternativesMonospaceHasNoCatalogMatch(t *testing.T) {
	// None of the curated free alternatives are monospace faces, so a
	// monospace request legitimately yields no suggestions.
	c := NewChecker()
	alts := c.FindAlternatives(fontcore.FontDescriptor{Family: "Courier New", Monospaced: true})
	require.Empty(t, alts)
}

func TestGenerateReportAggregatesFlags(t *testing.T) {
	c := NewChecker()
	report := c.GenerateReport([]fontcore.FontDescriptor{
		{Family: "Futura"},
		{Family: "Noto Sans"},
	})
	require.Equal(t, 2, report.TotalFonts)
	require.True(t, report.HasWarning)
	require.Contains(t, report.ToMarkdown(), "Font License Report")
}
