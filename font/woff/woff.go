// Package woff wraps TrueType fonts in the WOFF 1.0 container.
package woff

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// Signature is the magic number at the start of every WOFF file.
const Signature uint32 = 0x774F4646 // "wOFF"

const (
	headerSize   = 44
	dirEntrySize = 20
)

// ErrNoTables is returned for fonts without any table.
var ErrNoTables = errors.New("woff: font has no tables")

// Options carries the optional parts of a WOFF file.
type Options struct {
	// Metadata is an XML document stored, compressed, in the metadata block.
	Metadata string
}

// Encode converts a TrueType font into WOFF. Each table is zlib compressed
// when that makes it smaller and stored as is otherwise.
func Encode(ttf []byte, opts Options) ([]byte, error) {
	flavor, tables, err := sfnt.ReadTables(ttf)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	type entry struct {
		tag        string
		data       []byte
		origLength int
		checksum   uint32
	}
	entries := make([]entry, len(tables))
	totalSfntSize := 12 + 16*len(tables)
	for i, t := range tables {
		data, err := compress(t.Data)
		if err != nil {
			return nil, fmt.Errorf("woff: compress %s: %w", t.Tag, err)
		}
		entries[i] = entry{
			tag:        t.Tag,
			data:       data,
			origLength: len(t.Data),
			checksum:   sfnt.Checksum(t.Data),
		}
		totalSfntSize += pad4(len(t.Data))
	}

	offset := headerSize + dirEntrySize*len(entries)
	dir := make([]byte, 0, dirEntrySize*len(entries))
	var body []byte
	for _, e := range entries {
		dir = append(dir, e.tag...)
		dir = binary.BigEndian.AppendUint32(dir, uint32(offset+len(body)))
		dir = binary.BigEndian.AppendUint32(dir, uint32(len(e.data)))
		dir = binary.BigEndian.AppendUint32(dir, uint32(e.origLength))
		dir = binary.BigEndian.AppendUint32(dir, e.checksum)
		body = append(body, e.data...)
		body = append(body, make([]byte, pad4(len(body))-len(body))...)
	}

	var metaOffset, metaLength, metaOrigLength int
	if opts.Metadata != "" {
		meta, err := deflate([]byte(opts.Metadata))
		if err != nil {
			return nil, fmt.Errorf("woff: compress metadata: %w", err)
		}
		metaOffset = offset + len(body)
		metaLength = len(meta)
		metaOrigLength = len(opts.Metadata)
		body = append(body, meta...)
	}

	length := offset + len(body)
	out := make([]byte, 0, pad4(length))
	out = binary.BigEndian.AppendUint32(out, Signature)
	out = binary.BigEndian.AppendUint32(out, flavor)
	out = binary.BigEndian.AppendUint32(out, uint32(length))
	out = binary.BigEndian.AppendUint16(out, uint16(len(entries)))
	out = binary.BigEndian.AppendUint16(out, 0) // reserved
	out = binary.BigEndian.AppendUint32(out, uint32(totalSfntSize))
	out = binary.BigEndian.AppendUint16(out, 0) // majorVersion
	out = binary.BigEndian.AppendUint16(out, 0) // minorVersion
	out = binary.BigEndian.AppendUint32(out, uint32(metaOffset))
	out = binary.BigEndian.AppendUint32(out, uint32(metaLength))
	out = binary.BigEndian.AppendUint32(out, uint32(metaOrigLength))
	out = binary.BigEndian.AppendUint32(out, 0) // privOffset
	out = binary.BigEndian.AppendUint32(out, 0) // privLength
	out = append(out, dir...)
	out = append(out, body...)

	debug.Debug("WOFF encoded", "tables", len(entries), "sfntSize", totalSfntSize, "bytes", len(out))
	return out, nil
}

// compress returns the zlib stream of b when it is shorter than b.
func compress(b []byte) ([]byte, error) {
	z, err := deflate(b)
	if err != nil {
		return nil, err
	}
	if len(z) < len(b) {
		return z, nil
	}
	return b, nil
}

func deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
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
