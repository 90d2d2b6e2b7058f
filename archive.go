package pck

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"

	"github.com/gdtweak/pck/internal/format"
	"github.com/gdtweak/pck/internal/index"
	"github.com/gdtweak/pck/internal/sizing"
)

// Archive provides mutation access to an open PCK file.
//
// The header and the path to table-offset map are read on Open and kept
// current across mutations; the full entry index is rebuilt from the file
// at the start of every mutation call and discarded at the end. The file
// on disk is the only durable state.
type Archive struct {
	f       File
	header  Header
	offsets map[string]uint64
	logger  *slog.Logger
}

// Open reads and validates the header and entry table of f.
//
// The caller keeps ownership of f and must not touch it concurrently with
// any method of the returned Archive.
func Open(f File, opts ...Option) (*Archive, error) {
	a := &Archive{f: f}
	for _, opt := range opts {
		opt(a)
	}

	header, offsets, err := ReadHeaderAndIndex(f)
	if err != nil {
		return nil, err
	}
	a.header = header
	a.offsets = offsets
	return a, nil
}

// ReadHeaderAndIndex decodes the header and walks the entry table, returning
// the header and a map from each decoded path to the byte offset of that
// entry's record within the file (not its data offset).
func ReadHeaderAndIndex(r io.ReaderAt) (Header, map[string]uint64, error) {
	br := bufio.NewReader(io.NewSectionReader(r, 0, math.MaxInt64))

	header, err := format.ReadHeader(br)
	if err != nil {
		return Header{}, nil, err
	}

	offsets := make(map[string]uint64, header.FileCount)
	off := uint64(format.HeaderSize)
	for i := uint32(0); i < header.FileCount; i++ {
		entry, err := format.ReadEntry(br)
		if err != nil {
			return Header{}, nil, fmt.Errorf("read entry %d: %w", i, err)
		}
		offsets[entry.Path] = off
		off += entry.RecordSize()
	}
	return header, offsets, nil
}

// Header returns the header as of the last successful read or mutation.
func (a *Archive) Header() Header {
	return a.header
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int {
	return len(a.offsets)
}

// Has reports whether the archive contains an entry for path.
func (a *Archive) Has(path string) bool {
	_, ok := a.offsets[path]
	return ok
}

// Entry reads the current record for path from the entry table.
func (a *Archive) Entry(path string) (Entry, error) {
	off, ok := a.offsets[path]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}
	start, err := sizing.ToInt64(off, ErrSizeOverflow)
	if err != nil {
		return Entry{}, fmt.Errorf("entry offset for %s: %w", path, err)
	}
	section := io.NewSectionReader(a.f, start, int64(format.EntrySize(format.MaxPathLen)))
	entry, err := format.ReadEntry(section)
	if err != nil {
		return Entry{}, fmt.Errorf("read entry %s: %w", path, err)
	}
	return entry, nil
}

// Paths iterates over all entry paths in unspecified order.
func (a *Archive) Paths() iter.Seq[string] {
	return func(yield func(string) bool) {
		for path := range a.offsets {
			if !yield(path) {
				return
			}
		}
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// writeHeader rewrites the header in place at offset 0.
func (a *Archive) writeHeader(header Header) error {
	var buf bytes.Buffer
	if err := format.WriteHeader(&buf, header); err != nil {
		return err
	}
	if _, err := a.f.WriteAt(buf.Bytes(), 0); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// writeTable rewrites the full entry table starting at tableStart, emitting
// records back to back in table-offset order.
func (a *Archive) writeTable(tableStart uint64, records iter.Seq[*index.Record]) error {
	var buf bytes.Buffer
	for rec := range records {
		if err := format.WriteEntry(&buf, &rec.Entry); err != nil {
			return err
		}
	}

	start, err := sizing.ToInt64(tableStart, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("entry table start: %w", err)
	}
	if _, err := a.f.WriteAt(buf.Bytes(), start); err != nil {
		return fmt.Errorf("write entry table: %w", err)
	}
	return nil
}

// checkTableFits verifies the table-size invariant: the rewritten table,
// starting at tableStart, must not reach into the lowest data offset.
func (a *Archive) checkTableFits(tableStart uint64, idx *index.Index) error {
	minData, ok := idx.MinDataOffset()
	if !ok {
		return ErrEmptyArchive
	}
	tableEnd, ok := sizing.AddUint64(tableStart, idx.TableSize())
	if !ok {
		return fmt.Errorf("entry table end: %w", ErrSizeOverflow)
	}
	if tableEnd > minData {
		return fmt.Errorf("%w: table [%d, %d) reaches data at %d", ErrTableOverflow, tableStart, tableEnd, minData)
	}
	return nil
}

// refresh replaces the cached header and offset map after a successful
// mutation, re-deriving each record's physical position from the contiguous
// layout writeTable produced.
func (a *Archive) refresh(header Header, tableStart uint64, idx *index.Index) {
	offsets := make(map[string]uint64, idx.Len())
	off := tableStart
	for rec := range idx.Records() {
		offsets[rec.Entry.Path] = off
		off += rec.Entry.RecordSize()
	}
	a.header = header
	a.offsets = offsets
}

// fileEnd returns the current size of the underlying file.
func (a *Archive) fileEnd() (uint64, error) {
	end, err := a.f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek to file end: %w", err)
	}
	return uint64(end), nil
}
