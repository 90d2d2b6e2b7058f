package index_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdtweak/pck/internal/format"
	"github.com/gdtweak/pck/internal/index"
)

// buildTable serializes entries back to back starting at format.HeaderSize
// and returns the raw bytes plus the path to table-offset map an archive
// walk would produce.
func buildTable(t *testing.T, entries ...format.Entry) ([]byte, map[string]uint64) {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(make([]byte, format.HeaderSize))

	offsets := make(map[string]uint64, len(entries))
	off := uint64(format.HeaderSize)
	for i := range entries {
		offsets[entries[i].Path] = off
		require.NoError(t, format.WriteEntry(&buf, &entries[i]))
		off += entries[i].RecordSize()
	}
	return buf.Bytes(), offsets
}

func TestBuild(t *testing.T) {
	a := format.NewEntry("res://a.txt", 400, 10, [16]byte{1})
	b := format.NewEntry("res://b.txt", 200, 20, [16]byte{2})
	raw, offsets := buildTable(t, a, b)

	idx, err := index.Build(bytes.NewReader(raw), offsets)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	rec, ok := idx.Get("res://a.txt")
	require.True(t, ok)
	assert.Equal(t, a, rec.Entry)
	assert.Equal(t, uint64(format.HeaderSize), rec.TableOffset)

	_, ok = idx.Get("res://missing.txt")
	assert.False(t, ok)
}

func TestRecordsOrderedByTableOffset(t *testing.T) {
	a := format.NewEntry("res://a.txt", 400, 10, [16]byte{})
	b := format.NewEntry("res://b.txt", 200, 20, [16]byte{})
	c := format.NewEntry("res://c.txt", 300, 30, [16]byte{})
	raw, offsets := buildTable(t, a, b, c)

	idx, err := index.Build(bytes.NewReader(raw), offsets)
	require.NoError(t, err)

	var paths []string
	var last uint64
	for rec := range idx.Records() {
		assert.GreaterOrEqual(t, rec.TableOffset, last)
		last = rec.TableOffset
		paths = append(paths, rec.Entry.Path)
	}
	assert.Equal(t, []string{"res://a.txt", "res://b.txt", "res://c.txt"}, paths)
}

func TestTableBounds(t *testing.T) {
	a := format.NewEntry("res://a.txt", 400, 10, [16]byte{})
	b := format.NewEntry("res://b.txt", 200, 20, [16]byte{})
	raw, offsets := buildTable(t, a, b)

	idx, err := index.Build(bytes.NewReader(raw), offsets)
	require.NoError(t, err)

	start, ok := idx.TableStart()
	require.True(t, ok)
	assert.Equal(t, uint64(format.HeaderSize), start)
	assert.Equal(t, a.RecordSize()+b.RecordSize(), idx.TableSize())

	minData, ok := idx.MinDataOffset()
	require.True(t, ok)
	assert.Equal(t, uint64(200), minData)
}

func TestEmptyIndex(t *testing.T) {
	idx := index.New()
	assert.Equal(t, 0, idx.Len())

	_, ok := idx.TableStart()
	assert.False(t, ok)
	_, ok = idx.MinDataOffset()
	assert.False(t, ok)
	assert.Zero(t, idx.TableSize())
}

func TestInsertRejectsDuplicates(t *testing.T) {
	idx := index.New()
	a := format.NewEntry("res://a.txt", 100, 1, [16]byte{})
	require.NoError(t, idx.Insert(&index.Record{Entry: a, TableOffset: 88}))

	dupPath := format.NewEntry("res://a.txt", 200, 1, [16]byte{})
	assert.Error(t, idx.Insert(&index.Record{Entry: dupPath, TableOffset: 136}))

	dupOffset := format.NewEntry("res://b.txt", 300, 1, [16]byte{})
	assert.Error(t, idx.Insert(&index.Record{Entry: dupOffset, TableOffset: 88}))

	assert.Equal(t, 1, idx.Len())
}

func TestInsertKeepsOffsetOrder(t *testing.T) {
	idx := index.New()
	for _, rec := range []index.Record{
		{Entry: format.NewEntry("res://c.txt", 3, 1, [16]byte{}), TableOffset: 184},
		{Entry: format.NewEntry("res://a.txt", 1, 1, [16]byte{}), TableOffset: 88},
		{Entry: format.NewEntry("res://b.txt", 2, 1, [16]byte{}), TableOffset: 136},
	} {
		require.NoError(t, idx.Insert(&rec))
	}

	var paths []string
	for rec := range idx.Records() {
		paths = append(paths, rec.Entry.Path)
	}
	assert.Equal(t, []string{"res://a.txt", "res://b.txt", "res://c.txt"}, paths)
}
