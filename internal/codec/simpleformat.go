package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// EncodeSimpleFormat implements spec.md §4.4's fallback format: used when a
// build only has family/weight/italic triples (no full metadata). Layout:
// 10-byte ASCII magic, LE u32 font count, then per font: LE u8 name length,
// UTF-8 name bytes, LE u16 weight, u8 italic flag.
func EncodeSimpleFormat(faces []SimpleFace) []byte {
	var buf bytes.Buffer
	buf.WriteString(simpleFormatMagic)

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(faces)))
	buf.Write(count[:])

	for _, f := range faces {
		buf.WriteByte(byte(len(f.Name)))
		buf.WriteString(f.Name)
		var weight [2]byte
		binary.LittleEndian.PutUint16(weight[:], uint16(f.Weight))
		buf.Write(weight[:])
		if f.Italic {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

// SimpleFace is one entry of the simple fallback format.
type SimpleFace struct {
	Name   string
	Weight int
	Italic bool
}

func decodeSimpleFormat(data []byte) (fontcore.CompressedFontDatabase, error) {
	if len(data) < len(simpleFormatMagic)+4 || string(data[:len(simpleFormatMagic)]) != simpleFormatMagic {
		return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "not a simple-format database", nil)
	}
	r := bytes.NewReader(data[len(simpleFormatMagic):])

	var countBytes [4]byte
	if _, err := r.Read(countBytes[:]); err != nil {
		return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "read font count", err)
	}
	count := binary.LittleEndian.Uint32(countBytes[:])

	fonts := make([]fontcore.CompressedFontData, 0, count)
	for i := uint32(0); i < count; i++ {
		nameLen, err := r.ReadByte()
		if err != nil {
			return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "read name length", err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := r.Read(nameBytes); err != nil {
			return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "read name", err)
		}
		var weightBytes [2]byte
		if _, err := r.Read(weightBytes[:]); err != nil {
			return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "read weight", err)
		}
		italicByte, err := r.ReadByte()
		if err != nil {
			return fontcore.CompressedFontDatabase{}, fontcore.NewError(fontcore.KindParse, "read italic flag", err)
		}

		fonts = append(fonts, fontcore.CompressedFontData{
			Family: string(nameBytes),
			Weight: int(binary.LittleEndian.Uint16(weightBytes[:])),
			Italic: italicByte == 1,
		})
	}

	return fontcore.CompressedFontDatabase{
		Metadata: fontcore.FontDatabaseMetadata{Version: "simple", FontCount: len(fonts)},
		Fonts:    fonts,
	}, nil
}
