// Package format implements the binary layout of the Godot PCK container:
// the fixed-size header and the variable-size entry records that make up
// the entry table. All multi-byte fields are little-endian.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Format constants.
const (
	// Version is the only supported container version.
	Version = 1

	// HeaderSize is the fixed byte size of the header: magic (4),
	// version (4), godot major/minor/patch (12), reserved (64),
	// file count (4).
	HeaderSize = 88

	// MaxPathLen bounds the stored path length of a single entry record.
	// Real archives stay far below this; the bound keeps a corrupted
	// length field from driving a huge allocation.
	MaxPathLen = 32 << 10

	// checksumSize is the byte size of an entry's MD5 checksum.
	checksumSize = 16
)

// Magic identifies a PCK container.
var Magic = [4]byte{'G', 'D', 'P', 'C'}

// Sentinel errors shared across the module.
var (
	// ErrMalformedHeader is returned when the header magic is wrong or the
	// header cannot be read in full.
	ErrMalformedHeader = errors.New("pck: malformed header")

	// ErrUnsupportedVersion is returned for any container version other than 1.
	ErrUnsupportedVersion = errors.New("pck: unsupported container version")

	// ErrEmptyArchive is returned when an archive holds no entries.
	ErrEmptyArchive = errors.New("pck: archive has no entries")

	// ErrInvalidPath is returned when stored path bytes are not valid UTF-8.
	ErrInvalidPath = errors.New("pck: invalid path encoding")

	// ErrSizeOverflow is returned when a count or size exceeds its field capacity.
	ErrSizeOverflow = errors.New("pck: size overflow")
)

// Header is the fixed-layout PCK header.
type Header struct {
	Version      uint32
	GodotMajor   uint32
	GodotMinor   uint32
	GodotPatch   uint32
	Reserved     [16]uint32
	FileCount    uint32
}

// Entry describes one file inside the archive.
//
// PathBytes is the wire form of the path: UTF-8 bytes padded with NUL to a
// 4-byte boundary. It is preserved verbatim from disk so that rewriting an
// entry never changes its record size. Path is the decoded form with
// trailing NULs stripped.
type Entry struct {
	Path      string
	PathBytes []byte
	Offset    uint64
	Size      uint64
	MD5       [16]byte
}

// RecordSize returns the serialized byte size of the entry record.
func (e *Entry) RecordSize() uint64 {
	return EntrySize(uint32(len(e.PathBytes)))
}

// EntrySize returns the serialized record size for a given stored path length:
// path_len field (4) + path bytes + offset (8) + size (8) + checksum (16).
func EntrySize(pathLen uint32) uint64 {
	return 4 + uint64(pathLen) + 8 + 8 + checksumSize
}

// NormalizePath converts a path to its wire form: UTF-8 bytes padded with
// NUL to a multiple of 4.
func NormalizePath(path string) []byte {
	b := []byte(path)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// NewEntry builds an entry with a normalized path.
func NewEntry(path string, offset, size uint64, sum [16]byte) Entry {
	return Entry{
		Path:      path,
		PathBytes: NormalizePath(path),
		Offset:    offset,
		Size:      size,
		MD5:       sum,
	}
}

// ReadHeader decodes and validates the header.
func ReadHeader(r io.Reader) (Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, magic[:])
	}

	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.FileCount == 0 {
		return Header{}, ErrEmptyArchive
	}
	return h, nil
}

// WriteHeader encodes the header.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return fmt.Errorf("write header magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("write header fields: %w", err)
	}
	return nil
}

// ReadEntry decodes one entry record. The stored path must be valid UTF-8;
// trailing NUL padding is stripped from the decoded path.
func ReadEntry(r io.Reader) (Entry, error) {
	var pathLen uint32
	if err := binary.Read(r, binary.LittleEndian, &pathLen); err != nil {
		return Entry{}, fmt.Errorf("read entry path length: %w", err)
	}
	if pathLen > MaxPathLen {
		return Entry{}, fmt.Errorf("%w: path length %d", ErrSizeOverflow, pathLen)
	}

	pathBytes := make([]byte, pathLen)
	if _, err := io.ReadFull(r, pathBytes); err != nil {
		return Entry{}, fmt.Errorf("read entry path: %w", err)
	}
	if !utf8.Valid(pathBytes) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidPath, pathBytes)
	}

	e := Entry{
		Path:      strings.TrimRight(string(pathBytes), "\x00"),
		PathBytes: pathBytes,
	}
	if err := binary.Read(r, binary.LittleEndian, &e.Offset); err != nil {
		return Entry{}, fmt.Errorf("read entry offset: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &e.Size); err != nil {
		return Entry{}, fmt.Errorf("read entry size: %w", err)
	}
	if _, err := io.ReadFull(r, e.MD5[:]); err != nil {
		return Entry{}, fmt.Errorf("read entry checksum: %w", err)
	}
	return e, nil
}

// WriteEntry encodes one entry record, mirroring ReadEntry field by field.
func WriteEntry(w io.Writer, e *Entry) error {
	pathLen := uint32(len(e.PathBytes))
	if err := binary.Write(w, binary.LittleEndian, pathLen); err != nil {
		return fmt.Errorf("write path length for %s: %w", e.Path, err)
	}
	if _, err := w.Write(e.PathBytes); err != nil {
		return fmt.Errorf("write path bytes for %s: %w", e.Path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, e.Offset); err != nil {
		return fmt.Errorf("write offset for %s: %w", e.Path, err)
	}
	if err := binary.Write(w, binary.LittleEndian, e.Size); err != nil {
		return fmt.Errorf("write size for %s: %w", e.Path, err)
	}
	if _, err := w.Write(e.MD5[:]); err != nil {
		return fmt.Errorf("write checksum for %s: %w", e.Path, err)
	}
	return nil
}
