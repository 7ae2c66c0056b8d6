// Package normalizer turns an arbitrary font string — as it might appear in
// a PDF BaseFont entry, a CSS font-stack, or a user query — into a
// structured fontcore.FontRequest. It is pure and deterministic: the same
// input always normalizes to the same request, and nothing here touches a
// filesystem or network.
//
// The pipeline mirrors the PDF subset-prefix / encoding-suffix conventions
// this project's teacher package (internal/pdf/font) already has to work
// around when loading embedded fonts, generalized into a standalone family
// of regexes and word-boundary keyword strips.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

var (
	subsetPrefixRE = regexp.MustCompile(`^[A-Z]{6}\+`)
	encodingSuffixRE = regexp.MustCompile(
		`-(Identity|WinAnsi|MacRoman|Uni[A-Z]+|W[1-6]|Com|Expert|Subset|It|Oblique)(-H)?$`)
)

// secondarySuffixes are standalone tokens stripped from the tail of a name
// when preceded by a hyphen or an uppercase letter — checked in this order,
// first match wins.
var secondarySuffixes = []string{"MT", "PS", "PSMT", "Std", "Pro", "Regular", "Bold", "Italic"}

// remainingSuffixes are stripped from the family string late in the
// pipeline, after CamelCase splitting, when preceded by a non-alphanumeric
// boundary.
var remainingSuffixes = []string{"MT", "PS", "PSMT", "Std", "Pro", "TT", "OT", "WOFF", "WOFF2"}

// familyKeywords are weight/style/width words stripped out of the working
// family string once the word has already been consulted for weight/style.
var familyKeywords = []string{
	"thin", "extralight", "ultralight", "light", "normal",
	"regular", "medium", "semibold", "demibold", "bold",
	"extrabold", "ultrabold", "black", "heavy", "italic",
	"oblique", "book", "hairline", "condensed", "expanded",
	"narrow", "wide", "mono", "typewriter", "console",
}

var familyKeywordRE = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(familyKeywords))
	for i, kw := range familyKeywords {
		res[i] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return res
}()

var monospaceMarkers = []string{"mono", "console", "typewriter", "courier", "fixedsys", "terminal"}

// gluedFamilyNames collapses a single internal hyphen produced by CamelCase
// splitting back out for families that are conventionally distributed as one
// solid word (Google Fonts' own static-hosting slugs: "Open Sans" ships as
// "OpenSans-Regular.ttf" and is commonly slugged "opensans", unlike e.g.
// "Times New Roman" which stays hyphenated as "times-new-roman").
var gluedFamilyNames = map[string]string{
	"open-sans":     "opensans",
	"noto-sans":     "notosans",
	"noto-serif":    "notoserif",
	"roboto-mono":   "robotomono",
	"roboto-slab":   "robotoslab",
	"source-sans":   "sourcesans",
	"ibm-plex-sans": "ibmplexsans",
}

// Normalize runs the full pipeline from spec. Returns fontcore.KindInvalidFontName
// if the input is empty (after trimming) or normalizes to an empty family.
func Normalize(name string) (fontcore.FontRequest, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fontcore.FontRequest{}, fontcore.NewError(fontcore.KindInvalidFontName, "empty font name", nil)
	}

	withoutSubset := subsetPrefixRE.ReplaceAllString(trimmed, "")
	encStripped := encodingSuffixRE.ReplaceAllString(withoutSubset, "")

	weight, style, italic := extractWeightStyle(encStripped)

	secondaryStripped := stripSecondarySuffix(encStripped)
	family := extractFamilyName(secondaryStripped)

	monospaced := containsAny(strings.ToLower(trimmed), monospaceMarkers) ||
		containsAny(strings.ToLower(family), monospaceMarkers)

	normalizedFamily := canonicalize(family)
	if normalizedFamily == "" {
		return fontcore.FontRequest{}, fontcore.NewError(fontcore.KindInvalidFontName,
			"family empty after normalization", nil)
	}

	return fontcore.FontRequest{
		OriginalName:     name,
		NormalizedFamily: normalizedFamily,
		Weight:           weight,
		Italic:           italic,
		Monospaced:       monospaced,
		Style:            style,
	}, nil
}

func extractWeightStyle(name string) (int, fontcore.FontStyle, bool) {
	lower := strings.ToLower(name)

	weight := 400
	switch {
	case containsAny(lower, []string{"thin", "hairline"}):
		weight = 100
	case containsAny(lower, []string{"extralight", "ultralight"}):
		weight = 200
	case strings.Contains(lower, "light"):
		weight = 300
	case containsAny(lower, []string{"normal", "regular", "book"}):
		weight = 400
	case strings.Contains(lower, "medium"):
		weight = 500
	case containsAny(lower, []string{"semibold", "demibold"}):
		weight = 600
	case strings.Contains(lower, "bold"):
		weight = 700
	case containsAny(lower, []string{"extrabold", "ultrabold"}):
		weight = 800
	case containsAny(lower, []string{"black", "heavy"}):
		weight = 900
	}

	switch {
	case strings.Contains(lower, "italic"):
		return weight, fontcore.StyleItalic, true
	case strings.Contains(lower, "oblique"):
		return weight, fontcore.StyleOblique, true
	default:
		return weight, fontcore.StyleNormal, false
	}
}

func stripSecondarySuffix(name string) string {
	for _, suffix := range secondarySuffixes {
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		prefix := name[:len(name)-len(suffix)]
		last := rune(prefix[len(prefix)-1])
		if strings.HasSuffix(prefix, "-") || unicode.IsUpper(last) {
			return prefix
		}
	}
	return name
}

func extractFamilyName(name string) string {
	result := splitCamelCase(name)
	for _, re := range familyKeywordRE {
		result = re.ReplaceAllString(result, "")
	}
	result = trimSeparators(result)
	result = stripRemainingSuffix(result)
	return trimSeparators(result)
}

// splitCamelCase inserts a hyphen at every lower->upper transition and every
// digit<->letter boundary, leaving adjacent uppercase runs (e.g. "PS")
// intact.
func splitCamelCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				b.WriteByte('-')
			case unicode.IsDigit(prev) && unicode.IsLetter(r):
				b.WriteByte('-')
			case unicode.IsLetter(prev) && unicode.IsDigit(r):
				b.WriteByte('-')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripRemainingSuffix(name string) string {
	for _, suffix := range remainingSuffixes {
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		prefix := name[:len(name)-len(suffix)]
		if prefix != "" && !isAlphanumeric(rune(prefix[len(prefix)-1])) {
			return prefix
		}
	}
	return name
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func trimSeparators(s string) string {
	return strings.Trim(s, "- _")
}

var nonCanonicalRE = regexp.MustCompile(`[^a-z0-9-]`)
var repeatHyphenRE = regexp.MustCompile(`-+`)

func canonicalize(family string) string {
	result := strings.ToLower(family)
	result = strings.ReplaceAll(result, " ", "-")
	result = strings.ReplaceAll(result, "_", "-")
	result = nonCanonicalRE.ReplaceAllString(result, "")
	result = repeatHyphenRE.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if glued, ok := gluedFamilyNames[result]; ok {
		return glued
	}
	return result
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// CommonAliases mirrors the original Rust normalizer's get_common_mappings:
// shorthand/marketing names consulted by the resolver when the exact
// normalized family yields no system match. It is additive — it does not
// change Normalize's own output.
func CommonAliases() map[string]string {
	return map[string]string{
		"helvetica":      "arial",
		"helvetica-neue": "arial",
		"times":          "times-new-roman",
		"times-roman":    "times-new-roman",
		"courier":        "courier-new",
		"zapfdingbats":   "zapf-dingbats",
		"symbol":         "symbola",
	}
}
