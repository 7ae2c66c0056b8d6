package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// encodeRecords is this project's stand-in for Rust's bincode: a compact,
// fixed-order binary struct encoder built on encoding/binary, following the
// same length-prefixed-string / LE-integer idiom as
// internal/pdf/font/ttf.go's table parsing (that file reads; this one
// writes the mirror image). No bincode equivalent exists in the Go
// ecosystem represented in this repository's examples, so the inner record
// layer is this stdlib encoding (see DESIGN.md).
func encodeRecords(db fontcore.CompressedFontDatabase) []byte {
	var buf bytes.Buffer

	writeString(&buf, db.Metadata.Version)
	writeUint32(&buf, uint32(db.Metadata.FontCount))
	writeUint64(&buf, db.Metadata.CompressedSizeBytes)
	writeUint64(&buf, db.Metadata.OriginalSizeBytes)
	writeString(&buf, db.Metadata.CreatedAt.Format(time.RFC3339))
	writeUint8(&buf, boolToByte(db.Metadata.IncludeFullData))

	writeUint32(&buf, uint32(len(db.Metadata.CategoryHistogram)))
	for cat, count := range db.Metadata.CategoryHistogram {
		writeString(&buf, string(cat))
		writeUint32(&buf, uint32(count))
	}

	writeUint32(&buf, uint32(len(db.Fonts)))
	for _, f := range db.Fonts {
		encodeFontData(&buf, f)
	}

	writeUint8(&buf, boolToByte(db.SimilarityMatrix != nil))
	if db.SimilarityMatrix != nil {
		writeUint32(&buf, uint32(len(db.SimilarityMatrix)))
		for family, entries := range db.SimilarityMatrix {
			writeString(&buf, family)
			writeUint32(&buf, uint32(len(entries)))
			for _, e := range entries {
				writeString(&buf, e.Family)
				writeFloat64(&buf, e.Score)
			}
		}
	}

	return buf.Bytes()
}

func decodeRecords(data []byte) (fontcore.CompressedFontDatabase, error) {
	r := bytes.NewReader(data)
	var db fontcore.CompressedFontDatabase

	version, err := readString(r)
	if err != nil {
		return db, err
	}
	fontCount, err := readUint32(r)
	if err != nil {
		return db, err
	}
	compressedSize, err := readUint64(r)
	if err != nil {
		return db, err
	}
	originalSize, err := readUint64(r)
	if err != nil {
		return db, err
	}
	createdAtStr, err := readString(r)
	if err != nil {
		return db, err
	}
	createdAt, _ := time.Parse(time.RFC3339, createdAtStr)
	includeFull, err := readUint8(r)
	if err != nil {
		return db, err
	}

	histCount, err := readUint32(r)
	if err != nil {
		return db, err
	}
	histogram := make(map[fontcore.FontCategory]int, histCount)
	for i := uint32(0); i < histCount; i++ {
		cat, err := readString(r)
		if err != nil {
			return db, err
		}
		count, err := readUint32(r)
		if err != nil {
			return db, err
		}
		histogram[fontcore.FontCategory(cat)] = int(count)
	}

	fontsLen, err := readUint32(r)
	if err != nil {
		return db, err
	}
	fonts := make([]fontcore.CompressedFontData, 0, fontsLen)
	for i := uint32(0); i < fontsLen; i++ {
		f, err := decodeFontData(r)
		if err != nil {
			return db, err
		}
		fonts = append(fonts, f)
	}

	hasMatrix, err := readUint8(r)
	if err != nil {
		return db, err
	}
	var matrix map[string][]fontcore.SimilarityEntry
	if hasMatrix == 1 {
		matrixLen, err := readUint32(r)
		if err != nil {
			return db, err
		}
		matrix = make(map[string][]fontcore.SimilarityEntry, matrixLen)
		for i := uint32(0); i < matrixLen; i++ {
			family, err := readString(r)
			if err != nil {
				return db, err
			}
			entriesLen, err := readUint32(r)
			if err != nil {
				return db, err
			}
			entries := make([]fontcore.SimilarityEntry, 0, entriesLen)
			for j := uint32(0); j < entriesLen; j++ {
				f, err := readString(r)
				if err != nil {
					return db, err
				}
				s, err := readFloat64(r)
				if err != nil {
					return db, err
				}
				entries = append(entries, fontcore.SimilarityEntry{Family: f, Score: s})
			}
			matrix[family] = entries
		}
	}

	db.Metadata = fontcore.FontDatabaseMetadata{
		Version:             version,
		FontCount:           int(fontCount),
		CompressedSizeBytes: compressedSize,
		OriginalSizeBytes:   originalSize,
		CreatedAt:           createdAt,
		CategoryHistogram:   histogram,
		IncludeFullData:     includeFull == 1,
	}
	db.Fonts = fonts
	db.SimilarityMatrix = matrix
	return db, nil
}

func encodeFontData(buf *bytes.Buffer, f fontcore.CompressedFontData) {
	writeString(buf, f.Family)
	writeString(buf, f.Subfamily)
	writeString(buf, f.PostScriptName)
	writeString(buf, f.FullName)
	writeString(buf, string(f.Format))
	writeUint32(buf, uint32(f.Weight))
	writeUint8(buf, boolToByte(f.Italic))
	writeUint8(buf, boolToByte(f.Monospaced))
	writeUint8(buf, boolToByte(f.Variable))
	writeString(buf, string(f.Category))
	writeUint32(buf, f.FileSizeKB)
	writeUint8(buf, f.Popularity)

	writeUint8(buf, boolToByte(f.Metrics != nil))
	if f.Metrics != nil {
		writeUint16(buf, f.Metrics.UnitsPerEm)
		writeInt16(buf, f.Metrics.Ascender)
		writeInt16(buf, f.Metrics.Descender)
		writeInt16(buf, f.Metrics.XHeight)
		writeInt16(buf, f.Metrics.CapHeight)
		writeInt16(buf, f.Metrics.AverageWidth)
		writeUint16(buf, f.Metrics.MaxAdvanceWidth)
	}

	writeUint8(buf, boolToByte(f.License != nil))
	if f.License != nil {
		writeString(buf, f.License.Name)
		writeString(buf, f.License.URL)
		writeUint8(buf, boolToByte(f.License.AllowsEmbedding))
		writeUint8(buf, boolToByte(f.License.AllowsModification))
		writeUint8(buf, boolToByte(f.License.RequiresAttribution))
		writeUint8(buf, boolToByte(f.License.AllowsCommercialUse))
	}

	writeUint32(buf, uint32(len(f.SimilarFonts)))
	for _, s := range f.SimilarFonts {
		writeString(buf, s)
	}

	writeUint32(buf, uint32(len(f.DownloadURLs)))
	for format, url := range f.DownloadURLs {
		writeString(buf, string(format))
		writeString(buf, url)
	}
}

func decodeFontData(r *bytes.Reader) (fontcore.CompressedFontData, error) {
	var f fontcore.CompressedFontData
	var err error

	if f.Family, err = readString(r); err != nil {
		return f, err
	}
	if f.Subfamily, err = readString(r); err != nil {
		return f, err
	}
	if f.PostScriptName, err = readString(r); err != nil {
		return f, err
	}
	if f.FullName, err = readString(r); err != nil {
		return f, err
	}
	format, err := readString(r)
	if err != nil {
		return f, err
	}
	f.Format = fontcore.FontFormat(format)

	weight, err := readUint32(r)
	if err != nil {
		return f, err
	}
	f.Weight = int(weight)

	italic, err := readUint8(r)
	if err != nil {
		return f, err
	}
	f.Italic = italic == 1

	mono, err := readUint8(r)
	if err != nil {
		return f, err
	}
	f.Monospaced = mono == 1

	variable, err := readUint8(r)
	if err != nil {
		return f, err
	}
	f.Variable = variable == 1

	category, err := readString(r)
	if err != nil {
		return f, err
	}
	f.Category = fontcore.FontCategory(category)

	if f.FileSizeKB, err = readUint32(r); err != nil {
		return f, err
	}
	if f.Popularity, err = readUint8(r); err != nil {
		return f, err
	}

	hasMetrics, err := readUint8(r)
	if err != nil {
		return f, err
	}
	if hasMetrics == 1 {
		m := &fontcore.FontMetrics{}
		if m.UnitsPerEm, err = readUint16(r); err != nil {
			return f, err
		}
		if m.Ascender, err = readInt16(r); err != nil {
			return f, err
		}
		if m.Descender, err = readInt16(r); err != nil {
			return f, err
		}
		if m.XHeight, err = readInt16(r); err != nil {
			return f, err
		}
		if m.CapHeight, err = readInt16(r); err != nil {
			return f, err
		}
		if m.AverageWidth, err = readInt16(r); err != nil {
			return f, err
		}
		if m.MaxAdvanceWidth, err = readUint16(r); err != nil {
			return f, err
		}
		f.Metrics = m
	}

	hasLicense, err := readUint8(r)
	if err != nil {
		return f, err
	}
	if hasLicense == 1 {
		l := &fontcore.LicenseInfo{}
		if l.Name, err = readString(r); err != nil {
			return f, err
		}
		if l.URL, err = readString(r); err != nil {
			return f, err
		}
		var b byte
		if b, err = readUint8(r); err != nil {
			return f, err
		}
		l.AllowsEmbedding = b == 1
		if b, err = readUint8(r); err != nil {
			return f, err
		}
		l.AllowsModification = b == 1
		if b, err = readUint8(r); err != nil {
			return f, err
		}
		l.RequiresAttribution = b == 1
		if b, err = readUint8(r); err != nil {
			return f, err
		}
		l.AllowsCommercialUse = b == 1
		f.License = l
	}

	similarLen, err := readUint32(r)
	if err != nil {
		return f, err
	}
	f.SimilarFonts = make([]string, 0, similarLen)
	for i := uint32(0); i < similarLen; i++ {
		s, err := readString(r)
		if err != nil {
			return f, err
		}
		f.SimilarFonts = append(f.SimilarFonts, s)
	}

	urlsLen, err := readUint32(r)
	if err != nil {
		return f, err
	}
	if urlsLen > 0 {
		f.DownloadURLs = make(map[fontcore.FontFormat]string, urlsLen)
		for i := uint32(0); i < urlsLen; i++ {
			format, err := readString(r)
			if err != nil {
				return f, err
			}
			url, err := readString(r)
			if err != nil {
				return f, err
			}
			f.DownloadURLs[fontcore.FontFormat(format)] = url
		}
	}

	return f, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", fmt.Errorf("read string body: %w", err)
	}
	return string(b), nil
}

func writeUint8(buf *bytes.Buffer, v byte)  { buf.WriteByte(v) }
func readUint8(r *bytes.Reader) (byte, error) { return r.ReadByte() }

func writeUint16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}
func readUint16(r *bytes.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err := r.Read(tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(tmp[:]), nil
}

func writeInt16(buf *bytes.Buffer, v int16) { writeUint16(buf, uint16(v)) }
func readInt16(r *bytes.Reader) (int16, error) {
	v, err := readUint16(r)
	return int16(v), err
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := r.Read(tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}
func readUint64(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := r.Read(tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	writeUint64(buf, math.Float64bits(v))
}
func readFloat64(r *bytes.Reader) (float64, error) {
	bits, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
