// Package sfnt builds TrueType fonts from SVG font documents and reads the
// table directory of existing sfnt files.
package sfnt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"sort"
)

// TrueTypeFlavor is the sfnt version of fonts with TrueType outlines.
const TrueTypeFlavor uint32 = 0x00010000

// checksumMagic is the value the whole-font checksum must add up to.
const checksumMagic uint32 = 0xB1B0AFBA

var errTruncated = errors.New("sfnt: truncated font data")

// Table is one sfnt table.
type Table struct {
	Tag  string
	Data []byte
}

// Checksum returns the sfnt table checksum of b, zero-padded to 4 bytes.
func Checksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += binary.BigEndian.Uint32(b[i:])
	}
	if rest := b[n:]; len(rest) > 0 {
		var tail [4]byte
		copy(tail[:], rest)
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// searchParams returns the binary-search hints stored in sfnt and cmap
// headers for n entries of the given size.
func searchParams(n, size int) (searchRange, entrySelector, rangeShift uint16) {
	if n == 0 {
		return 0, 0, 0
	}
	log := bits.Len(uint(n)) - 1
	sr := (1 << log) * size
	return uint16(sr), uint16(log), uint16(n*size - sr)
}

// ReadTables parses the table directory of an sfnt font.
func ReadTables(b []byte) (flavor uint32, tables []Table, err error) {
	if len(b) < 12 {
		return 0, nil, errTruncated
	}
	flavor = binary.BigEndian.Uint32(b)
	numTables := int(binary.BigEndian.Uint16(b[4:]))
	if len(b) < 12+16*numTables {
		return 0, nil, errTruncated
	}

	tables = make([]Table, 0, numTables)
	for i := 0; i < numTables; i++ {
		rec := b[12+16*i:]
		offset := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		end := uint64(offset) + uint64(length)
		if end > uint64(len(b)) {
			return 0, nil, fmt.Errorf("sfnt: table %q exceeds font data", rec[:4])
		}
		tables = append(tables, Table{
			Tag:  string(rec[:4]),
			Data: b[offset:end],
		})
	}
	return flavor, tables, nil
}

// WriteFont lays out tables into an sfnt file, sorted by tag, and fixes up
// head.checkSumAdjustment.
func WriteFont(flavor uint32, tables []Table) []byte {
	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	n := len(sorted)
	size := 12 + 16*n
	for _, t := range sorted {
		size += pad4(len(t.Data))
	}
	out := make([]byte, 0, size)

	sr, es, rs := searchParams(n, 16)
	out = binary.BigEndian.AppendUint32(out, flavor)
	out = binary.BigEndian.AppendUint16(out, uint16(n))
	out = binary.BigEndian.AppendUint16(out, sr)
	out = binary.BigEndian.AppendUint16(out, es)
	out = binary.BigEndian.AppendUint16(out, rs)

	headOffset := -1
	offset := 12 + 16*n
	for _, t := range sorted {
		if t.Tag == "head" {
			headOffset = offset
		}
		out = append(out, t.Tag...)
		out = binary.BigEndian.AppendUint32(out, Checksum(t.Data))
		out = binary.BigEndian.AppendUint32(out, uint32(offset))
		out = binary.BigEndian.AppendUint32(out, uint32(len(t.Data)))
		offset += pad4(len(t.Data))
	}
	for _, t := range sorted {
		out = append(out, t.Data...)
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
	}

	if headOffset >= 0 && headOffset+12 <= len(out) {
		adj := out[headOffset+8 : headOffset+12]
		binary.BigEndian.PutUint32(adj, 0)
		binary.BigEndian.PutUint32(adj, checksumMagic-Checksum(out))
	}
	return out
}
