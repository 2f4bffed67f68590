// Package woff2 wraps TrueType fonts in the WOFF 2.0 container.
//
// Tables are stored without the glyf/loca transform: every table is copied
// into a single brotli stream as is.
package woff2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/andybalholm/brotli"

	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// Signature is the magic number at the start of every WOFF2 file.
const Signature uint32 = 0x774F4632 // "wOF2"

const headerSize = 48

// arbitraryTag marks a directory entry whose tag follows the flags byte.
const arbitraryTag = 0x3F

// nullTransform is the transform version of untransformed glyf and loca.
const nullTransform = 3

var knownTags = [...]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

// ErrNoTables is returned for fonts without any table.
var ErrNoTables = errors.New("woff2: font has no tables")

// Options carries the optional parts of a WOFF2 file.
type Options struct {
	// Metadata is an XML document stored, compressed, after the font data.
	Metadata string
}

// KnownTagIndex returns the directory index of a well-known table tag.
func KnownTagIndex(tag string) (int, bool) {
	for i, t := range knownTags {
		if t == tag {
			return i, true
		}
	}
	return 0, false
}

// Encode converts a TrueType font into WOFF2.
func Encode(ttf []byte, opts Options) ([]byte, error) {
	flavor, tables, err := sfnt.ReadTables(ttf)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	tables = order(tables)

	var dir, data []byte
	totalSfntSize := 12 + 16*len(tables)
	for _, t := range tables {
		dir = appendDirEntry(dir, t)
		data = append(data, t.Data...)
		totalSfntSize += (len(t.Data) + 3) &^ 3
	}

	compressed, err := compress(data)
	if err != nil {
		return nil, fmt.Errorf("woff2: compress font data: %w", err)
	}

	offset := headerSize + len(dir)
	body := append([]byte(nil), compressed...)
	body = append(body, make([]byte, pad4(offset+len(body))-(offset+len(body)))...)

	var metaOffset, metaLength, metaOrigLength int
	if opts.Metadata != "" {
		meta, err := compress([]byte(opts.Metadata))
		if err != nil {
			return nil, fmt.Errorf("woff2: compress metadata: %w", err)
		}
		metaOffset = offset + len(body)
		metaLength = len(meta)
		metaOrigLength = len(opts.Metadata)
		body = append(body, meta...)
	}

	length := offset + len(body)
	out := make([]byte, 0, length)
	out = binary.BigEndian.AppendUint32(out, Signature)
	out = binary.BigEndian.AppendUint32(out, flavor)
	out = binary.BigEndian.AppendUint32(out, uint32(length))
	out = binary.BigEndian.AppendUint16(out, uint16(len(tables)))
	out = binary.BigEndian.AppendUint16(out, 0) // reserved
	out = binary.BigEndian.AppendUint32(out, uint32(totalSfntSize))
	out = binary.BigEndian.AppendUint32(out, uint32(len(compressed)))
	out = binary.BigEndian.AppendUint16(out, 0) // majorVersion
	out = binary.BigEndian.AppendUint16(out, 0) // minorVersion
	out = binary.BigEndian.AppendUint32(out, uint32(metaOffset))
	out = binary.BigEndian.AppendUint32(out, uint32(metaLength))
	out = binary.BigEndian.AppendUint32(out, uint32(metaOrigLength))
	out = binary.BigEndian.AppendUint32(out, 0) // privOffset
	out = binary.BigEndian.AppendUint32(out, 0) // privLength
	out = append(out, dir...)
	out = append(out, body...)

	debug.Debug("WOFF2 encoded", "tables", len(tables), "sfntSize", totalSfntSize,
		"compressed", len(compressed), "bytes", len(out))
	return out, nil
}

// order keeps the sfnt tag order but places loca directly after glyf.
func order(tables []sfnt.Table) []sfnt.Table {
	var loca *sfnt.Table
	out := make([]sfnt.Table, 0, len(tables))
	for i := range tables {
		if tables[i].Tag == "loca" {
			loca = &tables[i]
			continue
		}
		out = append(out, tables[i])
	}
	if loca == nil {
		return out
	}
	for i, t := range out {
		if t.Tag == "glyf" {
			out = append(out[:i+1], append([]sfnt.Table{*loca}, out[i+1:]...)...)
			return out
		}
	}
	return append(out, *loca)
}

func appendDirEntry(b []byte, t sfnt.Table) []byte {
	var version byte
	if t.Tag == "glyf" || t.Tag == "loca" {
		version = nullTransform
	}
	if idx, ok := KnownTagIndex(t.Tag); ok {
		b = append(b, version<<6|byte(idx))
	} else {
		b = append(b, version<<6|arbitraryTag)
		b = append(b, t.Tag...)
	}
	return AppendUintBase128(b, uint32(len(t.Data)))
}

// AppendUintBase128 appends v in the variable-length UIntBase128 encoding.
func AppendUintBase128(b []byte, v uint32) []byte {
	var tmp [5]byte
	n := 0
	for {
		tmp[4-n] = byte(v & 0x7F)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	enc := tmp[5-n:]
	for i := 0; i < len(enc)-1; i++ {
		enc[i] |= 0x80
	}
	return append(b, enc...)
}

// ReadUintBase128 decodes a UIntBase128 value and returns the bytes used.
func ReadUintBase128(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 5 && i < len(b); i++ {
		c := b[i]
		if i == 0 && c == 0x80 {
			return 0, 0, errors.New("woff2: UIntBase128 has leading zeros")
		}
		if v&0xFE000000 != 0 {
			return 0, 0, errors.New("woff2: UIntBase128 overflows")
		}
		v = v<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, errors.New("woff2: truncated UIntBase128")
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterOptions(&buf, brotli.WriterOptions{Quality: brotli.BestCompression, LGWin: 22})
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}
