package parser

import (
	"encoding/binary"
	"testing"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
	"github.com/stretchr/testify/require"
)

// buildMinimalSfnt assembles a syntactically valid (but otherwise empty)
// sfnt wrapper around a head and hhea table, enough to exercise ParseMetrics
// without needing a real font file on disk.
func buildMinimalSfnt(t *testing.T, unitsPerEm uint16, ascender, descender int16) []byte {
	t.Helper()

	head := make([]byte, 54)
	binary.BigEndian.PutUint16(head[18:20], unitsPerEm)

	hhea := make([]byte, 36)
	binary.BigEndian.PutUint16(hhea[4:6], uint16(ascender))
	binary.BigEndian.PutUint16(hhea[6:8], uint16(descender))

	tables := []struct {
		tag  string
		data []byte
	}{
		{"head", head},
		{"hhea", hhea},
	}

	const headerSize = 12
	const entrySize = 16
	offset := uint32(headerSize + entrySize*len(tables))

	buf := make([]byte, 0, 512)
	var u32 [4]byte
	var u16 [2]byte

	binary.BigEndian.PutUint32(u32[:], 0x00010000)
	buf = append(buf, u32[:]...)
	binary.BigEndian.PutUint16(u16[:], uint16(len(tables)))
	buf = append(buf, u16[:]...)
	buf = append(buf, 0, 0, 0, 0, 0, 0) // searchRange/entrySelector/rangeShift

	bodies := make([][]byte, len(tables))
	for i, tbl := range tables {
		buf = append(buf, []byte(tbl.tag)...)
		binary.BigEndian.PutUint32(u32[:], 0) // checksum, unused by ParseMetrics
		buf = append(buf, u32[:]...)
		binary.BigEndian.PutUint32(u32[:], offset)
		buf = append(buf, u32[:]...)
		binary.BigEndian.PutUint32(u32[:], uint32(len(tbl.data)))
		buf = append(buf, u32[:]...)
		bodies[i] = tbl.data
		offset += uint32(len(tbl.data))
	}
	for _, b := range bodies {
		buf = append(buf, b...)
	}
	return buf
}

func TestParseMetricsReadsHeadAndHhea(t *testing.T) {
	data := buildMinimalSfnt(t, 2048, 1900, -500)

	metrics, _, err := ParseMetrics(data)
	require.NoError(t, err)
	require.Equal(t, uint16(2048), metrics.UnitsPerEm)
	require.Equal(t, int16(1900), metrics.Ascender)
	require.Equal(t, int16(-500), metrics.Descender)
}

func TestParseMetricsRejectsBadSignature(t *testing.T) {
	data := make([]byte, 16)
	_, _, err := ParseMetrics(data)
	require.Error(t, err)

	var ferr *fontcore.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, fontcore.KindUnsupportedFormat, ferr.Kind)
}

func TestParseMetricsRejectsTooShort(t *testing.T) {
	_, _, err := ParseMetrics([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseMetricsMissingHeadIsParseError(t *testing.T) {
	// Valid sfnt header, zero tables: head table is absent so UnitsPerEm
	// never gets set, which ParseMetrics treats as a parse failure.
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], 0x00010000)
	binary.BigEndian.PutUint16(buf[4:6], 0)

	_, _, err := ParseMetrics(buf)
	require.Error(t, err)

	var ferr *fontcore.Error
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, fontcore.KindParse, ferr.Kind)
}
