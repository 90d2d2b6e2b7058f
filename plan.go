package pck

import (
	"fmt"

	"github.com/gdtweak/pck/internal/format"
	"github.com/gdtweak/pck/internal/index"
	"github.com/gdtweak/pck/internal/sizing"
)

// tablePlan is the projected shape of the entry table once a batch of
// additions is accounted for. It is derived per mutation call and discarded.
type tablePlan struct {
	// tableStart is the byte offset of the first entry record.
	tableStart uint64

	// tableEndAfter is the projected end of the table with all additions
	// included. Any non-replaced entry whose data starts below this offset
	// must be relocated before the table is rewritten.
	tableEndAfter uint64

	// nextNewTableOffset is the table position where the first newly added
	// record goes; existing records keep their positions.
	nextNewTableOffset uint64
}

// checkDuplicatePaths rejects a batch that names the same path twice.
func checkDuplicatePaths(paths []string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		seen[path] = struct{}{}
	}
	return nil
}

// splitInputs partitions a batch into replacements (path already indexed)
// and additions (path unknown), preserving batch order within each group.
func splitInputs(files []Replacement, idx *index.Index) (replaces, adds []Replacement) {
	for _, file := range files {
		if _, ok := idx.Get(file.Path); ok {
			replaces = append(replaces, file)
		} else {
			adds = append(adds, file)
		}
	}
	return replaces, adds
}

// planTable computes the projected table bounds for the current entry set
// plus the additions. Replacements reuse their existing records and do not
// change the table size.
func planTable(idx *index.Index, adds []Replacement) (tablePlan, error) {
	tableStart, ok := idx.TableStart()
	if !ok {
		return tablePlan{}, ErrEmptyArchive
	}

	currentSize := idx.TableSize()

	var additional uint64
	for _, add := range adds {
		pathLen := uint32(len(format.NormalizePath(add.Path)))
		recordSize := format.EntrySize(pathLen)
		var addOK bool
		if additional, addOK = sizing.AddUint64(additional, recordSize); !addOK {
			return tablePlan{}, fmt.Errorf("projected table size: %w", ErrSizeOverflow)
		}
	}

	currentEnd, ok := sizing.AddUint64(tableStart, currentSize)
	if !ok {
		return tablePlan{}, fmt.Errorf("current table end: %w", ErrSizeOverflow)
	}
	endAfter, ok := sizing.AddUint64(currentEnd, additional)
	if !ok {
		return tablePlan{}, fmt.Errorf("projected table end: %w", ErrSizeOverflow)
	}

	return tablePlan{
		tableStart:         tableStart,
		tableEndAfter:      endAfter,
		nextNewTableOffset: currentEnd,
	}, nil
}
