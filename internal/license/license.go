// Package license classifies a FontDescriptor's licensing posture and
// suggests free alternatives. Directly ported from
// original_source/Rust/font-resolver/crates/font-license, reworked from the
// Rust once_cell::Lazy static-set idiom into a package-level map literal
// (the teacher's pkg/fontutils.go uses the same "big literal table, no lazy
// init" idiom for PDF standard-font widths).
package license

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// Type classifies a font's licensing posture.
type Type string

const (
	TypeOpenSource     Type = "open_source"
	TypeCommercial     Type = "commercial"
	TypeUnknown        Type = "unknown"
	TypeSystemEmbedded Type = "system_embedded"
)

// WarningLevel ranks how urgently a Type should be surfaced to a caller.
type WarningLevel string

const (
	LevelInfo     WarningLevel = "info"
	LevelWarning  WarningLevel = "warning"
	LevelCritical WarningLevel = "critical"
)

// Alternative is a suggested free substitute for a commercial or unknown font.
type Alternative struct {
	Family          string
	SimilarityScore float64
	License         Type
	Reason          string
}

// Warning is the per-font result of Checker.Check.
type Warning struct {
	FontName     string
	LicenseType  Type
	WarningLevel WarningLevel
	Message      string
	Alternatives []Alternative
}

// Report aggregates Warning values across a batch of fonts.
type Report struct {
	Warnings    []Warning
	HasCritical bool
	HasWarning  bool
	TotalFonts  int
}

var commercialFonts = map[string]struct{}{
	"helvetica": {}, "helvetica neue": {}, "futura": {}, "gill sans": {},
	"optima": {}, "palatino": {}, "didot": {}, "bembo": {},
	"garamond premium": {}, "minion pro": {}, "myriad pro": {}, "trajan pro": {},
	"univers": {}, "franklin gothic": {}, "copperplate gothic": {},
}

var commercialPostscriptSubstrings = []string{
	"helveticaneue", "helveticaneuepro", "futura", "gill-sans",
	"optima", "palatino", "didot", "bembo",
}

var commonSystemFonts = map[string]struct{}{
	"arial": {}, "times new roman": {}, "courier new": {}, "verdana": {},
	"tahoma": {}, "segoe ui": {}, "calibri": {}, "cambria": {}, "consolas": {},
	"ms sans serif": {}, "ms serif": {}, "wingdings": {},
}

var freeAlternatives = []Alternative{
	{Family: "Roboto", SimilarityScore: 0.9, License: TypeOpenSource, Reason: "Apache 2.0 license, similar to Helvetica"},
	{Family: "Open Sans", SimilarityScore: 0.85, License: TypeOpenSource, Reason: "Apache 2.0 license, humanist sans-serif"},
	{Family: "Lato", SimilarityScore: 0.8, License: TypeOpenSource, Reason: "OFL license, professional sans-serif"},
	{Family: "Montserrat", SimilarityScore: 0.75, License: TypeOpenSource, Reason: "OFL license, geometric sans-serif"},
	{Family: "Source Sans Pro", SimilarityScore: 0.7, License: TypeOpenSource, Reason: "OFL license, Adobe's first open source font"},
	{Family: "Noto Sans", SimilarityScore: 0.9, License: TypeOpenSource, Reason: "OFL license, Google's universal font"},
	{Family: "Liberation Sans", SimilarityScore: 0.95, License: TypeOpenSource, Reason: "SIL Open Font License, metric-compatible with Arial"},
	{Family: "DejaVu Sans", SimilarityScore: 0.8, License: TypeOpenSource, Reason: "Bitstream Vera License, extensive character set"},
}

// Checker classifies fonts and produces substitution suggestions.
type Checker struct{}

// NewChecker returns a ready-to-use Checker; there's no per-instance state
// to configure, kept as a type (rather than free functions) to mirror the
// original LicenseChecker and leave room for future injected config.
func NewChecker() *Checker { return &Checker{} }

// Check classifies a single font and builds its warning. Alternatives are
// computed for every font, whatever its license type.
func (c *Checker) Check(font fontcore.FontDescriptor) Warning {
	licenseType := c.detectLicenseType(font)
	level := c.DetermineWarningLevel(licenseType, font)
	alternatives := c.FindAlternatives(font)

	var message string
	switch licenseType {
	case TypeCommercial:
		message = fmt.Sprintf("Commercial font %q may require a license for distribution.", font.Family)
	case TypeSystemEmbedded:
		message = fmt.Sprintf("System font %q may have redistribution restrictions.", font.Family)
	case TypeUnknown:
		message = fmt.Sprintf("License for %q is unknown. Verify before distribution.", font.Family)
	case TypeOpenSource:
		message = fmt.Sprintf("Open source font %q is safe for distribution.", font.Family)
	}

	return Warning{
		FontName:     font.Family,
		LicenseType:  licenseType,
		WarningLevel: level,
		Message:      message,
		Alternatives: alternatives,
	}
}

func (c *Checker) detectLicenseType(font fontcore.FontDescriptor) Type {
	if font.License != nil {
		name := strings.ToLower(font.License.Name)
		switch {
		case strings.Contains(name, "commercial"), strings.Contains(name, "proprietary"), strings.Contains(name, "copyright"):
			return TypeCommercial
		case strings.Contains(name, "ofl"), strings.Contains(name, "sil"), strings.Contains(name, "apache"),
			strings.Contains(name, "mit"), strings.Contains(name, "bsd"), strings.Contains(name, "gpl"):
			return TypeOpenSource
		}
	}

	familyLower := strings.ToLower(font.Family)
	psLower := strings.ToLower(font.PostScriptName)

	if _, ok := commercialFonts[familyLower]; ok {
		return TypeCommercial
	}
	for _, ps := range commercialPostscriptSubstrings {
		if strings.Contains(psLower, ps) {
			return TypeCommercial
		}
	}

	if isSystemFontPath(font.Path) {
		return TypeSystemEmbedded
	}
	if isKnownOpenSource(familyLower) {
		return TypeOpenSource
	}
	return TypeUnknown
}

func isSystemFontPath(path string) bool {
	p := strings.ToLower(path)
	return strings.Contains(p, `windows\fonts`) ||
		strings.Contains(p, `system\library\fonts`) ||
		strings.Contains(p, "/usr/share/fonts") ||
		strings.Contains(p, "/system/fonts")
}

func isKnownOpenSource(familyLower string) bool {
	for _, kw := range []string{"noto", "roboto", "open", "source", "ubuntu", "dejavu", "liberation", "fira", "lato", "montserrat", "raleway", "pt ", "droid"} {
		if strings.Contains(familyLower, kw) {
			return true
		}
	}
	return false
}

// DetermineWarningLevel ranks a detected Type for a specific font: common
// system fonts get Info even when classified Commercial, everything else
// commercial gets Warning.
func (c *Checker) DetermineWarningLevel(t Type, font fontcore.FontDescriptor) WarningLevel {
	switch t {
	case TypeCommercial:
		if _, ok := commonSystemFonts[strings.ToLower(font.Family)]; ok {
			return LevelInfo
		}
		return LevelWarning
	default:
		return LevelInfo
	}
}

// FindAlternatives ranks freeAlternatives by style match against font,
// boosting metric-compatible direct substitutes, and returns the top 3.
func (c *Checker) FindAlternatives(font fontcore.FontDescriptor) []Alternative {
	familyLower := strings.ToLower(font.Family)

	isSerif := containsAny(familyLower, "serif", "times", "garamond", "baskerville")
	isSansSerif := containsAny(familyLower, "sans", "helvetica", "arial", "futura")
	isMonospace := font.Monospaced || containsAny(familyLower, "mono", "console", "courier")

	var out []Alternative
	for _, alt := range freeAlternatives {
		altLower := strings.ToLower(alt.Family)

		matches := true
		switch {
		case isSerif:
			matches = strings.Contains(altLower, "serif")
		case isSansSerif:
			matches = strings.Contains(altLower, "sans") && !strings.Contains(altLower, "serif")
		case isMonospace:
			matches = strings.Contains(altLower, "mono") || strings.Contains(altLower, "source code")
		}
		if !matches {
			continue
		}

		score := alt.SimilarityScore
		switch {
		case strings.Contains(familyLower, "helvetica") && strings.Contains(altLower, "roboto"):
			score = 0.95
		case strings.Contains(familyLower, "arial") && strings.Contains(altLower, "liberation sans"):
			score = 0.98
		case strings.Contains(familyLower, "times") && strings.Contains(altLower, "liberation serif"):
			score = 0.98
		case strings.Contains(familyLower, "courier") && strings.Contains(altLower, "liberation mono"):
			score = 0.98
		}

		clone := alt
		clone.SimilarityScore = score
		out = append(out, clone)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SimilarityScore > out[j].SimilarityScore })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// GenerateReport batches Check across fonts.
func (c *Checker) GenerateReport(fonts []fontcore.FontDescriptor) Report {
	report := Report{TotalFonts: len(fonts)}
	for _, font := range fonts {
		w := c.Check(font)
		switch w.WarningLevel {
		case LevelCritical:
			report.HasCritical = true
		case LevelWarning:
			report.HasWarning = true
		}
		report.Warnings = append(report.Warnings, w)
	}
	return report
}

// Summary returns a one-line human-readable verdict for font.
func (c *Checker) Summary(font fontcore.FontDescriptor) string {
	w := c.Check(font)
	switch w.LicenseType {
	case TypeOpenSource:
		return "Open Source - safe for distribution"
	case TypeCommercial:
		return "Commercial - may require license"
	case TypeSystemEmbedded:
		return "System Font - check redistribution rights"
	default:
		return "Unknown - verify license before use"
	}
}

// ToMarkdown renders a Report the same way the original Rust
// LicenseReport::to_markdown does, minus emoji glyphs (kept plain to match
// this module's ASCII-only CLI output elsewhere).
func (r Report) ToMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Font License Report\n\n")
	fmt.Fprintf(&b, "Total fonts analyzed: %d\n\n", r.TotalFonts)

	if r.HasCritical {
		b.WriteString("## Critical Issues\n\n")
		b.WriteString("The following fonts may require licenses:\n\n")
		for _, w := range r.Warnings {
			if w.WarningLevel != LevelCritical {
				continue
			}
			fmt.Fprintf(&b, "### %s\n%s\n\n", w.FontName, w.Message)
			if len(w.Alternatives) > 0 {
				b.WriteString("**Free alternatives:**\n")
				for _, alt := range w.Alternatives {
					fmt.Fprintf(&b, "- %s (%.0f%% similar) - %s\n", alt.Family, alt.SimilarityScore*100, alt.Reason)
				}
				b.WriteString("\n")
			}
		}
	}

	if r.HasWarning {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			if w.WarningLevel == LevelWarning {
				fmt.Fprintf(&b, "### %s\n%s\n\n", w.FontName, w.Message)
			}
		}
	}

	infoCount := 0
	for _, w := range r.Warnings {
		if w.WarningLevel == LevelInfo {
			infoCount++
		}
	}
	if infoCount > 0 {
		b.WriteString("## Information\n\n")
		b.WriteString("The following fonts appear to be safe:\n\n")
		for _, w := range r.Warnings {
			if w.WarningLevel == LevelInfo {
				fmt.Fprintf(&b, "- %s: %s\n", w.FontName, w.Message)
			}
		}
	}

	return b.String()
}
