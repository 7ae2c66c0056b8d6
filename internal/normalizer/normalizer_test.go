package normalizer

import (
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

func TestNormalizeFixtures(t *testing.T) {
	cases := []struct {
		input      string
		family     string
		weight     int
		italic     bool
		monospaced bool
	}{
		{"ABCDEE+OpenSans-Bold", "opensans", 700, false, false},
		{"ArialMT", "arial", 400, false, false},
		{"TimesNewRomanPS-BoldItalic", "times-new-roman", 700, true, false},
		{"Calibri-Light-Identity-H", "calibri", 300, false, false},
		{"CourierNewPSMT", "courier-new", 400, false, true},
		{"Wingdings-Regular", "wingdings", 400, false, false},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			req, err := Normalize(c.input)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", c.input, err)
			}
			if req.NormalizedFamily != c.family {
				t.Errorf("family = %q, want %q", req.NormalizedFamily, c.family)
			}
			if req.Weight != c.weight {
				t.Errorf("weight = %d, want %d", req.Weight, c.weight)
			}
			if req.Italic != c.italic {
				t.Errorf("italic = %v, want %v", req.Italic, c.italic)
			}
			if req.Monospaced != c.monospaced {
				t.Errorf("monospaced = %v, want %v", req.Monospaced, c.monospaced)
			}
		})
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	_, err := Normalize("   ")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	var ferr *fontcore.Error
	if e, ok := err.(*fontcore.Error); ok {
		ferr = e
	} else {
		t.Fatalf("expected *fontcore.Error, got %T", err)
	}
	if ferr.Kind != fontcore.KindInvalidFontName {
		t.Errorf("kind = %v, want %v", ferr.Kind, fontcore.KindInvalidFontName)
	}
}

func TestNormalizeIdempotentSubsetStrip(t *testing.T) {
	req, err := Normalize("ABCDEE+Arial")
	if err != nil {
		t.Fatal(err)
	}
	if req.NormalizedFamily != "arial" {
		t.Errorf("family = %q, want arial", req.NormalizedFamily)
	}
}

func TestNormalizeFamilyCharset(t *testing.T) {
	inputs := []string{"Foo_Bar 123!!Baz", "weird$$font**name", "MiXeD-CaSe_Font"}
	for _, in := range inputs {
		req, err := Normalize(in)
		if err != nil {
			continue
		}
		for _, r := range req.NormalizedFamily {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Errorf("normalized family %q contains disallowed rune %q", req.NormalizedFamily, r)
			}
		}
		if len(req.NormalizedFamily) > 0 {
			if req.NormalizedFamily[0] == '-' || req.NormalizedFamily[len(req.NormalizedFamily)-1] == '-' {
				t.Errorf("normalized family %q has leading/trailing hyphen", req.NormalizedFamily)
			}
		}
	}
}
