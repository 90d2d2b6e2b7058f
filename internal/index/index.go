// Package index maintains the in-memory view over a PCK entry table.
//
// The index is dual-keyed: a hash map from path to record for O(1) lookups,
// and a slice sorted by table offset for ordered iteration. Both structures
// reference the same records, and the table-offset order is the physical
// order the table has on disk.
package index

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"

	"github.com/gdtweak/pck/internal/format"
)

// Record is one live entry plus the byte offset of its record within the
// entry table.
type Record struct {
	Entry       format.Entry
	TableOffset uint64
}

// Index holds the live entry set for one mutation pass.
type Index struct {
	byPath   map[string]*Record
	byOffset []*Record // sorted by TableOffset, unique
}

// New returns an empty index.
func New() *Index {
	return &Index{byPath: make(map[string]*Record)}
}

// Build reads the full record for every (path, table offset) pair and
// indexes it by both keys.
func Build(r io.ReaderAt, offsets map[string]uint64) (*Index, error) {
	idx := &Index{
		byPath:   make(map[string]*Record, len(offsets)),
		byOffset: make([]*Record, 0, len(offsets)),
	}

	maxRecord := int64(format.EntrySize(format.MaxPathLen))
	for path, off := range offsets {
		section := io.NewSectionReader(r, int64(off), maxRecord)
		entry, err := format.ReadEntry(section)
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", path, err)
		}
		if err := idx.Insert(&Record{Entry: entry, TableOffset: off}); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Get returns the record for a path. The returned pointer stays valid for
// the lifetime of the index; callers may update the entry's data fields in
// place (offset, size, checksum) but must not change its path or table offset.
func (idx *Index) Get(path string) (*Record, bool) {
	rec, ok := idx.byPath[path]
	return rec, ok
}

// Insert adds a new record. Both the path and the table offset must be
// unused.
func (idx *Index) Insert(rec *Record) error {
	if _, ok := idx.byPath[rec.Entry.Path]; ok {
		return fmt.Errorf("index: duplicate path %s", rec.Entry.Path)
	}

	pos := sort.Search(len(idx.byOffset), func(i int) bool {
		return idx.byOffset[i].TableOffset >= rec.TableOffset
	})
	if pos < len(idx.byOffset) && idx.byOffset[pos].TableOffset == rec.TableOffset {
		return fmt.Errorf("index: duplicate table offset %d for %s", rec.TableOffset, rec.Entry.Path)
	}

	idx.byPath[rec.Entry.Path] = rec
	idx.byOffset = slices.Insert(idx.byOffset, pos, rec)
	return nil
}

// Len returns the number of live entries.
func (idx *Index) Len() int {
	return len(idx.byOffset)
}

// Records iterates over all records in table-offset order.
func (idx *Index) Records() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, rec := range idx.byOffset {
			if !yield(rec) {
				return
			}
		}
	}
}

// TableStart returns the table offset of the first record in offset order.
// ok is false for an empty index.
func (idx *Index) TableStart() (uint64, bool) {
	if len(idx.byOffset) == 0 {
		return 0, false
	}
	return idx.byOffset[0].TableOffset, true
}

// TableSize returns the summed serialized size of all records.
func (idx *Index) TableSize() uint64 {
	var total uint64
	for _, rec := range idx.byOffset {
		total += rec.Entry.RecordSize()
	}
	return total
}

// MinDataOffset returns the smallest data offset across all records.
// ok is false for an empty index.
func (idx *Index) MinDataOffset() (uint64, bool) {
	if len(idx.byOffset) == 0 {
		return 0, false
	}
	minOff := idx.byOffset[0].Entry.Offset
	for _, rec := range idx.byOffset[1:] {
		if rec.Entry.Offset < minOff {
			minOff = rec.Entry.Offset
		}
	}
	return minOff, true
}
