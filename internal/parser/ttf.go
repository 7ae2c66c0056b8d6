// Package parser extracts metrics-only information from TrueType/OpenType
// font data: unitsPerEm, ascender/descender, cap/x-height, fixed-pitch flag,
// and name-table strings. It deliberately stops short of decoding glyph
// outlines (glyf/loca) or character maps beyond what's needed to confirm a
// file parses, per spec.md's Non-goal on full OpenType table
// interpretation.
//
// Grounded directly on internal/pdf/font/ttf.go's ParseTTF: same offset
// table / table-directory reading idiom via encoding/binary, generalized to
// read only the tables this package's callers need (head, hhea, OS/2, post,
// name) instead of the full embedding pipeline that file builds for PDF
// subsetting.
package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

type tableEntry struct {
	offset uint32
	length uint32
}

// ParsedMeta carries name-table and post-table data not part of
// fontcore.FontMetrics but useful to the scanner/resolver.
type ParsedMeta struct {
	FamilyName     string
	FullName       string
	PostScriptName string
	IsFixedPitch   bool
	IsBold         bool
	IsItalic       bool
}

// ParseMetrics reads just enough of a TTF/OTF file to populate
// fontcore.FontMetrics and ParsedMeta. Returns fontcore.KindUnsupportedFormat
// unless the data starts with a single-font sfnt signature (0x00010000,
// 'true' or 'OTTO'); TrueType collections ('ttcf') are not parsed and are
// reported as unsupported too.
func ParseMetrics(data []byte) (fontcore.FontMetrics, ParsedMeta, error) {
	if len(data) < 12 {
		return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindUnsupportedFormat, "font data too short", nil)
	}

	r := bytes.NewReader(data)
	var sfntVersion uint32
	if err := binary.Read(r, binary.BigEndian, &sfntVersion); err != nil {
		return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read sfnt version", err)
	}
	switch sfntVersion {
	case 0x00010000, 0x4F54544F, 0x74727565: // TTF, OTF ('OTTO'), 'true'
	default:
		return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindUnsupportedFormat, "not a TTF/OTF signature", nil)
	}

	var numTables uint16
	if err := binary.Read(r, binary.BigEndian, &numTables); err != nil {
		return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read table count", err)
	}
	if _, err := r.Seek(6, 1); err != nil { // skip searchRange/entrySelector/rangeShift
		return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "skip offset table tail", err)
	}

	tables := make(map[string]tableEntry, numTables)
	for i := uint16(0); i < numTables; i++ {
		var tag [4]byte
		var checksum, offset, length uint32
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read table tag", err)
		}
		if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
			return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read table checksum", err)
		}
		if err := binary.Read(r, binary.BigEndian, &offset); err != nil {
			return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read table offset", err)
		}
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return fontcore.FontMetrics{}, ParsedMeta{}, fontcore.NewError(fontcore.KindParse, "read table length", err)
		}
		tables[string(tag[:])] = tableEntry{offset: offset, length: length}
	}

	metrics := fontcore.FontMetrics{}
	meta := ParsedMeta{}

	if head, ok := tables["head"]; ok {
		if err := readHead(data, head, &metrics); err != nil {
			return metrics, meta, err
		}
	}
	if hhea, ok := tables["hhea"]; ok {
		readHhea(data, hhea, &metrics)
	}
	if os2, ok := tables["OS/2"]; ok {
		readOS2(data, os2, &metrics, &meta)
	}
	if post, ok := tables["post"]; ok {
		readPost(data, post, &meta)
	}
	if name, ok := tables["name"]; ok {
		readName(data, name, &meta)
	}

	if metrics.UnitsPerEm == 0 {
		return metrics, meta, fontcore.NewError(fontcore.KindParse, "missing or invalid head table", nil)
	}
	return metrics, meta, nil
}

func tableSlice(data []byte, t tableEntry) ([]byte, error) {
	end := t.offset + t.length
	if int(end) > len(data) || t.offset > end {
		return nil, fmt.Errorf("table bounds out of range")
	}
	return data[t.offset:end], nil
}

func readHead(data []byte, t tableEntry, metrics *fontcore.FontMetrics) error {
	slice, err := tableSlice(data, t)
	if err != nil || len(slice) < 54 {
		return fontcore.NewError(fontcore.KindParse, "head table too short", err)
	}
	metrics.UnitsPerEm = binary.BigEndian.Uint16(slice[18:20])
	metrics.MaxAdvanceWidth = 0 // filled from hhea
	return nil
}

func readHhea(data []byte, t tableEntry, metrics *fontcore.FontMetrics) {
	slice, err := tableSlice(data, t)
	if err != nil || len(slice) < 36 {
		return
	}
	metrics.Ascender = int16(binary.BigEndian.Uint16(slice[4:6]))
	metrics.Descender = int16(binary.BigEndian.Uint16(slice[6:8]))
	metrics.MaxAdvanceWidth = binary.BigEndian.Uint16(slice[10:12])
}

func readOS2(data []byte, t tableEntry, metrics *fontcore.FontMetrics, meta *ParsedMeta) {
	slice, err := tableSlice(data, t)
	if err != nil || len(slice) < 2 {
		return
	}
	version := binary.BigEndian.Uint16(slice[0:2])
	if len(slice) >= 10 {
		metrics.AverageWidth = int16(binary.BigEndian.Uint16(slice[2:4]))
	}
	if len(slice) >= 64 {
		weightClass := binary.BigEndian.Uint16(slice[4:6])
		meta.IsBold = weightClass >= 700
	}
	if version >= 2 && len(slice) >= 90 {
		metrics.XHeight = int16(binary.BigEndian.Uint16(slice[86:88]))
		metrics.CapHeight = int16(binary.BigEndian.Uint16(slice[88:90]))
	}
	if len(slice) >= 62 {
		selection := binary.BigEndian.Uint16(slice[62:64])
		meta.IsItalic = selection&0x01 != 0
	}
}

func readPost(data []byte, t tableEntry, meta *ParsedMeta) {
	slice, err := tableSlice(data, t)
	if err != nil || len(slice) < 32 {
		return
	}
	isFixedPitch := binary.BigEndian.Uint32(slice[12:16])
	meta.IsFixedPitch = isFixedPitch != 0
}

// readName extracts the family/full/PostScript name strings (IDs 1, 4, 6)
// from the Windows (platform 3) records, the last record read for an ID
// winning; simplified relative to a
// full name-table decoder since only metrics-adjacent identity is needed
// here.
func readName(data []byte, t tableEntry, meta *ParsedMeta) {
	slice, err := tableSlice(data, t)
	if err != nil || len(slice) < 6 {
		return
	}
	count := binary.BigEndian.Uint16(slice[2:4])
	stringOffset := binary.BigEndian.Uint16(slice[4:6])
	recordsStart := 6

	for i := uint16(0); i < count; i++ {
		recOff := recordsStart + int(i)*12
		if recOff+12 > len(slice) {
			break
		}
		record := slice[recOff : recOff+12]
		platformID := binary.BigEndian.Uint16(record[0:2])
		nameID := binary.BigEndian.Uint16(record[6:8])
		length := binary.BigEndian.Uint16(record[8:10])
		offset := binary.BigEndian.Uint16(record[10:12])

		if platformID != 3 { // Windows platform, UTF-16BE
			continue
		}
		start := int(stringOffset) + int(offset)
		end := start + int(length)
		if end > len(slice) || start < 0 {
			continue
		}
		value := decodeUTF16BE(slice[start:end])

		switch nameID {
		case 1:
			meta.FamilyName = value
		case 4:
			meta.FullName = value
		case 6:
			meta.PostScriptName = value
		}
	}
}

func decodeUTF16BE(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[i*2 : i*2+2])
	}
	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			u2 := units[i+1]
			if u2 >= 0xDC00 && u2 <= 0xDFFF {
				r := (rune(u-0xD800) << 10) + rune(u2-0xDC00) + 0x10000
				runes = append(runes, r)
				i++
				continue
			}
		}
		runes = append(runes, rune(u))
	}
	return string(runes)
}
