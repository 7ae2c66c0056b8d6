// Package codec implements the compressed font database format: a brotli
// stream wrapping a compact binary payload (internal/codec/binary.go, this
// project's stand-in for bincode), plus the "simple" fallback format, the
// compression/dedup/similarity-matrix-build pipeline, smart two-tier
// compression, and incremental merge.
//
// Brotli is andybalholm/brotli, the same dependency
// pageza-alchemorsel-enterprise's go.mod carries; quality/window parameters
// match spec.md §4.4 exactly (quality 11, window 22, 4 KB buffer).
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

const (
	brotliQuality   = 11
	brotliLGWin     = 22
	copyBufferBytes = 4096

	simpleFormatMagic = "FONTDBv1.0"
)

// Compress implements spec.md §4.4's two-pass build: metadata.compressed_size_bytes
// is self-referential, so the payload is serialized and compressed once with
// a placeholder, the length is measured, and the metadata is patched before
// a second serialize+compress pass.
func Compress(db fontcore.CompressedFontDatabase) ([]byte, error) {
	db.Metadata.CompressedSizeBytes = 0
	first, err := compressOnce(db)
	if err != nil {
		return nil, err
	}

	db.Metadata.CompressedSizeBytes = uint64(len(first))
	second, err := compressOnce(db)
	if err != nil {
		return nil, err
	}
	return second, nil
}

func compressOnce(db fontcore.CompressedFontDatabase) ([]byte, error) {
	payload := encodeRecords(db)

	var out bytes.Buffer
	w := brotli.NewWriterOptions(&out, brotli.WriterOptions{Quality: brotliQuality, LGWin: brotliLGWin})
	buf := make([]byte, copyBufferBytes)
	if _, err := io.CopyBuffer(w, bytes.NewReader(payload), buf); err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "brotli compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, fontcore.NewError(fontcore.KindIO, "brotli flush", err)
	}
	return out.Bytes(), nil
}

// Decompress is a single brotli-decompress followed by a binary decode; on
// failure it falls back to the simple format, and on both failures reports
// no database, per spec.md §4.4.
func Decompress(data []byte) (fontcore.CompressedFontDatabase, error) {
	if db, err := decompressBrotli(data); err == nil {
		return db, nil
	}
	if db, err := decodeSimpleFormat(data); err == nil {
		return db, nil
	}
	return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "no recognized database format", nil)
}

func decompressBrotli(data []byte) (fontcore.CompressedFontDatabase, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	var out bytes.Buffer
	buf := make([]byte, copyBufferBytes)
	if _, err := io.CopyBuffer(&out, r, buf); err != nil {
		return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "brotli decompress", err)
	}
	return decodeRecords(out.Bytes())
}

// BuildDatabase runs the full compression pipeline from spec.md §4.4 steps
// 1-4: dedup, convert, optionally build the similarity matrix, fill
// metadata. It returns the uncompressed database; Compress encodes it.
func BuildDatabase(descs []fontcore.FontDescriptor, buildMatrix bool) (fontcore.CompressedFontDatabase, error) {
	deduped := dedupe(descs)
	fonts := make([]fontcore.CompressedFontData, 0, len(deduped))
	histogram := map[fontcore.FontCategory]int{}
	for _, d := range deduped {
		cfd := toCompressedFontData(d)
		histogram[cfd.Category]++
		fonts = append(fonts, cfd)
	}

	db := fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{
			Version:           "1.0",
			FontCount:         len(fonts),
			CreatedAt:         time.Now(),
			CategoryHistogram: histogram,
			IncludeFullData:   true,
		},
		Fonts: fonts,
	}

	if buildMatrix {
		db.SimilarityMatrix = buildSimilarityMatrix(fonts)
	}

	return db, nil
}

func dedupe(descs []fontcore.FontDescriptor) []fontcore.FontDescriptor {
	seen := map[string]struct{}{}
	out := make([]fontcore.FontDescriptor, 0, len(descs))
	for _, d := range descs {
		family, weight, italic := d.Identity()
		key := fmt.Sprintf("%s|%d|%v", family, weight, italic)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

func toCompressedFontData(d fontcore.FontDescriptor) fontcore.CompressedFontData {
	category := detectCategoryFromFamily(d.Family)
	if d.Monospaced {
		category = fontcore.CategoryMonospace
	}

	size := uint32(50)
	if d.Variable {
		size += 100
	}
	if d.Weight > 400 {
		size += uint32(d.Weight-400) / 100
	}

	var license *fontcore.LicenseInfo
	if d.License != nil {
		l := *d.License
		license = &l
	} else {
		license = &fontcore.LicenseInfo{}
	}

	return fontcore.CompressedFontData{
		Family:         d.Family,
		Subfamily:      d.Subfamily,
		PostScriptName: d.PostScriptName,
		FullName:       d.FullName,
		Format:         d.Format,
		Weight:         d.Weight,
		Italic:         d.Italic,
		Monospaced:     d.Monospaced,
		Variable:       d.Variable,
		Metrics:        d.Metrics,
		License:        license,
		Category:       category,
		FileSizeKB:     size,
	}
}

func detectCategoryFromFamily(name string) fontcore.FontCategory {
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

// buildSimilarityMatrix implements spec.md §4.4 step 3's offline scorer,
// deliberately distinct from internal/similarity's online scorer (see
// spec.md §9's open question: the two are not required to agree
// numerically).
func buildSimilarityMatrix(fonts []fontcore.CompressedFontData) map[string][]fontcore.SimilarityEntry {
	matrix := make(map[string][]fontcore.SimilarityEntry, len(fonts))
	for i, a := range fonts {
		var entries []fontcore.SimilarityEntry
		for j, b := range fonts {
			if i == j {
				continue
			}
			score := offlineSimilarity(a, b)
			if score > 0.5 {
				entries = append(entries, fontcore.SimilarityEntry{Family: b.Family, Score: score})
			}
		}
		sort.SliceStable(entries, func(x, y int) bool { return entries[x].Score > entries[y].Score })
		if len(entries) > 10 {
			entries = entries[:10]
		}
		matrix[strings.ToLower(a.Family)] = entries
	}
	return matrix
}

func offlineSimilarity(a, b fontcore.CompressedFontData) float64 {
	score := 0.0
	if a.Category == b.Category {
		score += 0.3
	}
	delta := a.Weight - b.Weight
	if delta < 0 {
		delta = -delta
	}
	weightScore := 1.0 - float64(delta)/800.0
	if weightScore < 0 {
		weightScore = 0
	}
	score += 0.2 * weightScore
	if a.Italic == b.Italic {
		score += 0.2
	}
	if a.Monospaced == b.Monospaced {
		score += 0.1
	}
	score += 0.2 * offlineNameSimilarity(a.Family, b.Family)
	return score
}

func offlineNameSimilarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.7
	}
	setA := map[rune]struct{}{}
	for _, r := range la {
		setA[r] = struct{}{}
	}
	inter := 0
	union := len(setA)
	for _, r := range lb {
		if _, ok := setA[r]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SmartCompress implements spec.md §4.4's two-tier compression: the top
// smartCompressCoreLimit fonts by popularity become a "core" blob (full
// data, similarity matrix); the remainder become an "extended" blob (no
// full data, no matrix). Both blobs are independent brotli streams built
// by Compress, so both use quality 11; the extended blob is not written at
// a lower quality.
type SmartCompressResult struct {
	Core     []byte
	Extended []byte
}

const smartCompressCoreLimit = 1000

func SmartCompress(fonts []fontcore.CompressedFontData) (SmartCompressResult, error) {
	sorted := make([]fontcore.CompressedFontData, len(fonts))
	copy(sorted, fonts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Popularity > sorted[j].Popularity })

	limit := smartCompressCoreLimit
	if limit > len(sorted) {
		limit = len(sorted)
	}
	core := sorted[:limit]
	extended := sorted[limit:]

	coreDB := fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{
			Version: "1.0", FontCount: len(core), CreatedAt: time.Now(), IncludeFullData: true,
		},
		Fonts:            core,
		SimilarityMatrix: buildSimilarityMatrix(core),
	}
	extendedDB := fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{
			Version: "1.0", FontCount: len(extended), CreatedAt: time.Now(), IncludeFullData: false,
		},
		Fonts: extended,
	}

	coreBytes, err := Compress(coreDB)
	if err != nil {
		return SmartCompressResult{}, err
	}
	extBytes, err := Compress(extendedDB)
	if err != nil {
		return SmartCompressResult{}, err
	}
	return SmartCompressResult{Core: coreBytes, Extended: extBytes}, nil
}

// MergeResult reports the outcome of an incremental merge.
type MergeResult struct {
	Added   int
	Updated int
}

// Merge implements spec.md §4.4's incremental merge: index current by
// family, replace on collision, append otherwise, rebuild metadata, and
// clear the similarity matrix for lazy recomputation.
func Merge(current, update fontcore.CompressedFontDatabase) (fontcore.CompressedFontDatabase, MergeResult) {
	index := make(map[string]int, len(current.Fonts))
	for i, f := range current.Fonts {
		index[strings.ToLower(f.Family)] = i
	}

	merged := make([]fontcore.CompressedFontData, len(current.Fonts))
	copy(merged, current.Fonts)

	var result MergeResult
	for _, f := range update.Fonts {
		key := strings.ToLower(f.Family)
		if idx, ok := index[key]; ok {
			merged[idx] = f
			result.Updated++
		} else {
			index[key] = len(merged)
			merged = append(merged, f)
			result.Added++
		}
	}

	histogram := map[fontcore.FontCategory]int{}
	for _, f := range merged {
		histogram[f.Category]++
	}

	mergedDB := fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{
			Version:           current.Metadata.Version,
			FontCount:         len(merged),
			CreatedAt:         time.Now(),
			CategoryHistogram: histogram,
			IncludeFullData:   current.Metadata.IncludeFullData,
		},
		Fonts:            merged,
		SimilarityMatrix: nil,
	}
	return mergedDB, result
}

// VerifyChecksum implements spec.md §4.4's "Checksum": downloaded updates
// carry a SHA-256 hex digest that must match before Merge is applied.
func VerifyChecksum(data []byte, expectedHex string) bool {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == strings.ToLower(expectedHex)
}
