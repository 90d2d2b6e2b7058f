package format_test

import (
	"bytes"
	"crypto/md5" //nolint:gosec // format checksum
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdtweak/pck/internal/format"
)

func TestHeaderRoundTrip(t *testing.T) {
	in := format.Header{
		Version:    format.Version,
		GodotMajor: 4,
		GodotMinor: 2,
		GodotPatch: 1,
		FileCount:  17,
	}
	in.Reserved[3] = 0xdeadbeef

	var buf bytes.Buffer
	require.NoError(t, format.WriteHeader(&buf, in))
	assert.Equal(t, format.HeaderSize, buf.Len())

	out, err := format.ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadHeaderBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteHeader(&buf, format.Header{Version: format.Version, FileCount: 1}))

	raw := buf.Bytes()
	raw[0] = 'X'

	_, err := format.ReadHeader(bytes.NewReader(raw))
	assert.ErrorIs(t, err, format.ErrMalformedHeader)
}

func TestReadHeaderTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteHeader(&buf, format.Header{Version: format.Version, FileCount: 1}))

	_, err := format.ReadHeader(bytes.NewReader(buf.Bytes()[:20]))
	assert.ErrorIs(t, err, format.ErrMalformedHeader)
}

func TestReadHeaderUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteHeader(&buf, format.Header{Version: 2, FileCount: 1}))

	_, err := format.ReadHeader(&buf)
	assert.ErrorIs(t, err, format.ErrUnsupportedVersion)
}

func TestReadHeaderZeroEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteHeader(&buf, format.Header{Version: format.Version}))

	_, err := format.ReadHeader(&buf)
	assert.ErrorIs(t, err, format.ErrEmptyArchive)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"", 0},
		{"a", 4},
		{"abcd", 4},
		{"res://a.txt", 12},
		{"res://file.gde", 16},
	}
	for _, tt := range tests {
		got := format.NormalizePath(tt.path)
		assert.Len(t, got, tt.want, "path %q", tt.path)
		assert.Equal(t, tt.path, string(bytes.TrimRight(got, "\x00")))
	}
}

func TestEntryRoundTrip(t *testing.T) {
	in := format.NewEntry("res://a.txt", 200, 10, md5.Sum([]byte("payload"))) //nolint:gosec // format checksum
	assert.Equal(t, uint64(48), in.RecordSize())

	var buf bytes.Buffer
	require.NoError(t, format.WriteEntry(&buf, &in))
	require.EqualValues(t, in.RecordSize(), buf.Len())

	out, err := format.ReadEntry(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadEntryStripsPadding(t *testing.T) {
	e := format.NewEntry("res://x", 0, 0, [16]byte{})
	require.Len(t, e.PathBytes, 8)

	var buf bytes.Buffer
	require.NoError(t, format.WriteEntry(&buf, &e))

	out, err := format.ReadEntry(&buf)
	require.NoError(t, err)
	assert.Equal(t, "res://x", out.Path)
	assert.Equal(t, e.PathBytes, out.PathBytes)
}

func TestReadEntryInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(4)))
	buf.Write([]byte{0xff, 0xfe, 0xfd, 0xfc})
	buf.Write(make([]byte, 8+8+16))

	_, err := format.ReadEntry(&buf)
	assert.ErrorIs(t, err, format.ErrInvalidPath)
}

func TestReadEntryPathLengthBound(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(format.MaxPathLen+1)))

	_, err := format.ReadEntry(&buf)
	assert.ErrorIs(t, err, format.ErrSizeOverflow)
}

func TestEntrySize(t *testing.T) {
	assert.Equal(t, uint64(36), format.EntrySize(0))
	assert.Equal(t, uint64(48), format.EntrySize(12))
}
