package pck

import (
	"fmt"

	"github.com/gdtweak/pck/internal/index"
	"github.com/gdtweak/pck/internal/sizing"
)

// Delete removes the named entries from the archive.
//
// Surviving entries are re-laid-out contiguously from the table start in
// their existing relative order; their data is not moved. After the header
// and table rewrite the file is truncated to the end of the last referenced
// byte, reclaiming space freed by the deletion.
//
// Paths not present in the archive are silently ignored; an empty batch or
// a batch of only unknown paths is a no-op. Deleting every remaining entry
// fails with ErrEmptyArchive, since the format requires at least one entry.
// A batch naming the same path twice fails with ErrDuplicatePath before
// anything is written.
func (a *Archive) Delete(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := checkDuplicatePaths(paths); err != nil {
		return err
	}

	idx, err := index.Build(a.f, a.offsets)
	if err != nil {
		return err
	}

	remove := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if _, ok := idx.Get(path); ok {
			remove[path] = struct{}{}
		} else {
			a.log().Debug("ignoring delete of missing path", "path", path)
		}
	}
	if len(remove) == 0 {
		return nil
	}

	tableStart, ok := idx.TableStart()
	if !ok {
		return ErrEmptyArchive
	}

	// Re-lay out the survivors back to back from the table start.
	rebuilt := index.New()
	offset := tableStart
	for rec := range idx.Records() {
		if _, gone := remove[rec.Entry.Path]; gone {
			continue
		}
		if err := rebuilt.Insert(&index.Record{Entry: rec.Entry, TableOffset: offset}); err != nil {
			return err
		}
		offset += rec.Entry.RecordSize()
	}
	if rebuilt.Len() == 0 {
		return fmt.Errorf("%w: deletion would remove every entry", ErrEmptyArchive)
	}

	if err := a.checkTableFits(tableStart, rebuilt); err != nil {
		return err
	}

	count, err := sizing.ToUint32(rebuilt.Len(), ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("entry count: %w", err)
	}
	header := a.header
	header.FileCount = count

	if err := a.writeHeader(header); err != nil {
		return err
	}
	if err := a.writeTable(tableStart, rebuilt.Records()); err != nil {
		return err
	}

	// Truncate to the last referenced byte: the table end or the furthest
	// data end, whichever is greater.
	tableEnd, ok := sizing.AddUint64(tableStart, rebuilt.TableSize())
	if !ok {
		return fmt.Errorf("table end: %w", ErrSizeOverflow)
	}
	finalSize := tableEnd
	for rec := range rebuilt.Records() {
		dataEnd, ok := sizing.AddUint64(rec.Entry.Offset, rec.Entry.Size)
		if !ok {
			return fmt.Errorf("data end for %s: %w", rec.Entry.Path, ErrSizeOverflow)
		}
		if dataEnd > finalSize {
			finalSize = dataEnd
		}
	}

	size, err := sizing.ToInt64(finalSize, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("final size: %w", err)
	}
	if err := a.f.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}
	a.log().Debug("deleted entries", "removed", len(remove), "remaining", rebuilt.Len(), "size", finalSize)

	a.refresh(header, tableStart, rebuilt)
	return nil
}
