package woff2

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/iconfont-go/font/sfnt"
)

func testFont() []byte {
	return sfnt.WriteFont(sfnt.TrueTypeFlavor, []sfnt.Table{
		{Tag: "cmap", Data: []byte{0, 0, 0, 0}},
		{Tag: "glyf", Data: bytes.Repeat([]byte{1, 2, 3}, 40)},
		{Tag: "head", Data: make([]byte, 54)},
		{Tag: "loca", Data: []byte{0, 0, 0, 0, 0, 0, 0, 120}},
		{Tag: "zzzz", Data: []byte{7}},
	})
}

type dirEntry struct {
	flags  byte
	tag    string
	length uint32
}

func readDirectory(t *testing.T, b []byte, n int) ([]dirEntry, int) {
	t.Helper()
	var entries []dirEntry
	pos := headerSize
	for i := 0; i < n; i++ {
		e := dirEntry{flags: b[pos]}
		pos++
		if idx := int(e.flags & 0x3F); idx == arbitraryTag {
			e.tag = string(b[pos : pos+4])
			pos += 4
		} else {
			e.tag = knownTags[idx]
		}
		v, used, err := ReadUintBase128(b[pos:])
		require.NoError(t, err)
		e.length = v
		pos += used
		entries = append(entries, e)
	}
	return entries, pos
}

func TestEncode(t *testing.T) {
	ttf := testFont()
	out, err := Encode(ttf, Options{})
	require.NoError(t, err)

	assert.Equal(t, Signature, binary.BigEndian.Uint32(out))
	assert.Equal(t, sfnt.TrueTypeFlavor, binary.BigEndian.Uint32(out[4:]))
	assert.Equal(t, uint32(len(out)), binary.BigEndian.Uint32(out[8:]))
	assert.Equal(t, uint16(5), binary.BigEndian.Uint16(out[12:]))
	assert.Equal(t, uint32(len(ttf)), binary.BigEndian.Uint32(out[16:]))
	assert.Zero(t, len(out)%4)

	entries, pos := readDirectory(t, out, 5)
	tags := make([]string, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	assert.Equal(t, []string{"cmap", "glyf", "loca", "head", "zzzz"}, tags)
	assert.Equal(t, byte(0xC0|10), entries[1].flags)
	assert.Equal(t, byte(0xC0|11), entries[2].flags)
	assert.Equal(t, byte(0), entries[0].flags)
	assert.Equal(t, byte(arbitraryTag), entries[4].flags)

	compLength := binary.BigEndian.Uint32(out[20:])
	stream, err := io.ReadAll(brotli.NewReader(bytes.NewReader(out[pos : pos+int(compLength)])))
	require.NoError(t, err)

	_, tables, err := sfnt.ReadTables(ttf)
	require.NoError(t, err)
	byTag := map[string][]byte{}
	for _, tb := range tables {
		byTag[tb.Tag] = tb.Data
	}
	for _, e := range entries {
		require.GreaterOrEqual(t, len(stream), int(e.length))
		assert.Equal(t, byTag[e.tag], stream[:e.length], e.tag)
		stream = stream[e.length:]
	}
	assert.Empty(t, stream)
}

func TestEncodeMetadata(t *testing.T) {
	meta := `<?xml version="1.0"?><metadata version="1.0"/>`
	out, err := Encode(testFont(), Options{Metadata: meta})
	require.NoError(t, err)

	offset := binary.BigEndian.Uint32(out[28:])
	length := binary.BigEndian.Uint32(out[32:])
	assert.Zero(t, offset%4)
	assert.Equal(t, uint32(len(meta)), binary.BigEndian.Uint32(out[36:]))

	got, err := io.ReadAll(brotli.NewReader(bytes.NewReader(out[offset : offset+length])))
	require.NoError(t, err)
	assert.Equal(t, meta, string(got))
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode([]byte("nope"), Options{})
	assert.Error(t, err)

	_, err = Encode(sfnt.WriteFont(sfnt.TrueTypeFlavor, nil), Options{})
	assert.ErrorIs(t, err, ErrNoTables)
}

func TestUintBase128(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{v: 0, want: []byte{0x00}},
		{v: 63, want: []byte{0x3F}},
		{v: 128, want: []byte{0x81, 0x00}},
		{v: 16383, want: []byte{0xFF, 0x7F}},
		{v: 0xFFFFFFFF, want: []byte{0x8F, 0xFF, 0xFF, 0xFF, 0x7F}},
	}
	for _, tt := range tests {
		got := AppendUintBase128(nil, tt.v)
		assert.Equal(t, tt.want, got)

		v, n, err := ReadUintBase128(got)
		require.NoError(t, err)
		assert.Equal(t, tt.v, v)
		assert.Equal(t, len(got), n)
	}

	_, _, err := ReadUintBase128([]byte{0x80, 0x01})
	assert.Error(t, err)
	_, _, err = ReadUintBase128([]byte{0x81})
	assert.Error(t, err)
}

func TestKnownTagIndex(t *testing.T) {
	idx, ok := KnownTagIndex("glyf")
	assert.True(t, ok)
	assert.Equal(t, 10, idx)

	idx, ok = KnownTagIndex("loca")
	assert.True(t, ok)
	assert.Equal(t, 11, idx)

	_, ok = KnownTagIndex("zzzz")
	assert.False(t, ok)
	assert.Len(t, knownTags, 63)
}
