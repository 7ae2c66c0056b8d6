// Package webdb wraps a decoded fontcore.CompressedFontDatabase with
// lookup/similarity helpers, grounded on
// original_source/font-web-db/src/lib.rs's WebFontDatabase. The download
// half (Google Fonts API ingestion) lives in internal/webdb/ingest as a
// separately-invoked, non-hot-path tool, per SPEC_FULL.md §4.10.
package webdb

import (
	"strings"

	"github.com/chinmay-sawant/fontresolve/internal/codec"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/chinmay-sawant/fontresolve/internal/similarity"
)

// Database is the resolver's view of the bundled/downloaded web font
// database: a decoded CompressedFontDatabase plus an index by lowercase
// family for O(1) lookup.
type Database struct {
	db    fontcore.CompressedFontDatabase
	index map[string]int
}

// Load decodes data (brotli+bincode or the simple fallback format, per
// internal/codec.Decompress) into a Database.
func Load(data []byte) (*Database, error) {
	db, err := codec.Decompress(data)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already-decoded database.
func New(db fontcore.CompressedFontDatabase) *Database {
	index := make(map[string]int, len(db.Fonts))
	for i, f := range db.Fonts {
		index[strings.ToLower(f.Family)] = i
	}
	return &Database{db: db, index: index}
}

// CreateMinimalDatabase builds a small built-in fallback database used when
// the embedded blob is missing or fails to parse, mirroring
// create_minimal_database in the original source.
func CreateMinimalDatabase() fontcore.CompressedFontDatabase {
	descs := []fontcore.FontDescriptor{
		{Family: "Arial", PostScriptName: "ArialMT", Weight: 400, Format: fontcore.FormatTTF},
		{Family: "Arial", PostScriptName: "Arial-BoldMT", Weight: 700, Format: fontcore.FormatTTF},
		{Family: "Times New Roman", PostScriptName: "TimesNewRomanPSMT", Weight: 400, Format: fontcore.FormatTTF},
		{Family: "Courier New", PostScriptName: "CourierNewPSMT", Weight: 400, Monospaced: true, Format: fontcore.FormatTTF},
		{Family: "Liberation Sans", PostScriptName: "LiberationSans-Regular", Weight: 400, Format: fontcore.FormatTTF,
			License: &fontcore.LicenseInfo{Name: "SIL Open Font License", AllowsEmbedding: true, AllowsCommercialUse: true}},
		{Family: "Noto Sans", PostScriptName: "NotoSans-Regular", Weight: 400, Format: fontcore.FormatTTF,
			License: &fontcore.LicenseInfo{Name: "SIL Open Font License", AllowsEmbedding: true, AllowsCommercialUse: true}},
	}
	db, _ := codec.BuildDatabase(descs, true)
	db.Metadata.Version = "minimal-1.0"
	return db
}

// IsLoaded reports whether this Database carries any fonts.
func (d *Database) IsLoaded() bool { return d != nil && len(d.db.Fonts) > 0 }

// Count returns the number of fonts in the database.
func (d *Database) Count() int { return len(d.db.Fonts) }

// Version returns the database's format version string.
func (d *Database) Version() string { return d.db.Metadata.Version }

// Raw exposes the decoded database for callers that need the similarity
// matrix or metadata directly (e.g. the resolver's database_stats).
func (d *Database) Raw() fontcore.CompressedFontDatabase { return d.db }

// FindFont looks up an exact family match (case-insensitive), converting the
// stored CompressedFontData to a FontDescriptor tagged with SourceWeb.
func (d *Database) FindFont(family string) (fontcore.FontDescriptor, bool) {
	idx, ok := d.index[strings.ToLower(family)]
	if !ok {
		return fontcore.FontDescriptor{}, false
	}
	return toDescriptor(d.db.Fonts[idx]), true
}

// FindSimilarFonts delegates to internal/similarity against the database's
// own precomputed similarity matrix when present (per spec.md §4.2's
// precomputed shortcut); without a matrix it runs the same five-axis
// scoring with no shortcut.
func (d *Database) FindSimilarFonts(family string, limit int) []fontcore.FontDescriptor {
	req := fontcore.FontRequest{NormalizedFamily: family}

	candidates := make([]fontcore.FontDescriptor, 0, len(d.db.Fonts))
	for _, f := range d.db.Fonts {
		candidates = append(candidates, toDescriptor(f))
	}

	engine := similarity.New()
	if d.db.SimilarityMatrix != nil {
		engine = similarity.WithMatrix(d.db.SimilarityMatrix)
	}

	tiered := engine.MatchAll(req, candidates, limit)
	out := make([]fontcore.FontDescriptor, 0, limit)
	for _, group := range [][]fontcore.FontMatch{tiered.Exact, tiered.Similar, tiered.Low} {
		for _, m := range group {
			if len(out) >= limit {
				return out
			}
			out = append(out, m.Descriptor)
		}
	}
	return out
}

// All returns every descriptor in the database, tagged SourceWeb, for the
// resolver's source-aggregation step.
func (d *Database) All() []fontcore.FontDescriptor {
	out := make([]fontcore.FontDescriptor, 0, len(d.db.Fonts))
	for _, f := range d.db.Fonts {
		out = append(out, toDescriptor(f))
	}
	return out
}

func toDescriptor(f fontcore.CompressedFontData) fontcore.FontDescriptor {
	return fontcore.FontDescriptor{
		Family:         f.Family,
		Subfamily:      f.Subfamily,
		PostScriptName: f.PostScriptName,
		FullName:       f.FullName,
		Format:         f.Format,
		Weight:         f.Weight,
		Italic:         f.Italic,
		Monospaced:     f.Monospaced,
		Variable:       f.Variable,
		Metrics:        f.Metrics,
		License:        f.License,
		Source:         fontcore.SourceWeb,
	}
}
