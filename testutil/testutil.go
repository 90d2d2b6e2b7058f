// Package testutil builds synthetic PCK archives for tests.
package testutil

import (
	"bytes"
	"crypto/md5" //nolint:gosec // the PCK format mandates MD5 entry checksums
	"os"
	"path/filepath"
	"testing"

	"github.com/gdtweak/pck/internal/format"
)

// File is one file to pack into a test archive.
type File struct {
	Path string
	Data []byte
}

// ArchiveSpec describes a synthetic archive.
type ArchiveSpec struct {
	// GodotVersion fills the header's major/minor/patch fields.
	GodotVersion [3]uint32

	// DataStart places the first data byte at this offset, leaving a gap
	// after the entry table. Zero packs data right after the table.
	DataStart uint64

	// Files are packed in order; the entry table lists them in the same order.
	Files []File
}

// Build writes a PCK archive described by spec into t's temp directory and
// returns its path.
func Build(t *testing.T, spec ArchiveSpec) string {
	t.Helper()

	if len(spec.Files) == 0 {
		t.Fatal("testutil: archive spec needs at least one file")
	}

	entries := make([]format.Entry, len(spec.Files))
	tableEnd := uint64(format.HeaderSize)
	for i, file := range spec.Files {
		entries[i] = format.NewEntry(file.Path, 0, uint64(len(file.Data)), md5.Sum(file.Data)) //nolint:gosec // format checksum
		tableEnd += entries[i].RecordSize()
	}

	dataStart := tableEnd
	if spec.DataStart > dataStart {
		dataStart = spec.DataStart
	}
	offset := dataStart
	for i, file := range spec.Files {
		entries[i].Offset = offset
		offset += uint64(len(file.Data))
	}

	var buf bytes.Buffer
	header := format.Header{
		Version:    format.Version,
		GodotMajor: spec.GodotVersion[0],
		GodotMinor: spec.GodotVersion[1],
		GodotPatch: spec.GodotVersion[2],
		FileCount:  uint32(len(spec.Files)),
	}
	if err := format.WriteHeader(&buf, header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i := range entries {
		if err := format.WriteEntry(&buf, &entries[i]); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	buf.Write(make([]byte, dataStart-tableEnd))
	for _, file := range spec.Files {
		buf.Write(file.Data)
	}

	path := filepath.Join(t.TempDir(), "test.pck")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// Open opens a test archive read-write and closes it when the test ends.
func Open(t *testing.T, path string) *os.File {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// ReadRange returns size bytes starting at offset.
func ReadRange(t *testing.T, f *os.File, offset, size uint64) []byte {
	t.Helper()

	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, int64(offset)); err != nil {
		t.Fatalf("read range [%d, %d): %v", offset, offset+size, err)
	}
	return buf
}
