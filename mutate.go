package pck

import (
	"crypto/md5" //nolint:gosec // the PCK format mandates MD5 entry checksums
	"fmt"

	"github.com/gdtweak/pck/internal/appendio"
	"github.com/gdtweak/pck/internal/format"
	"github.com/gdtweak/pck/internal/index"
	"github.com/gdtweak/pck/internal/sizing"
)

// Replace applies a batch of replacements and additions in one pass.
//
// Paths already present in the archive receive new data offsets, sizes, and
// checksums; their table positions are unchanged. Unknown paths become new
// entries appended to the end of the table. Existing entries whose data
// would be overwritten by the grown table are relocated to the end of the
// file first, content and checksum unchanged.
//
// All data movement happens strictly before the header and entry table are
// rewritten in place, so a failure partway through can leave appended but
// unreferenced bytes past the old end of file, never a half-written header
// or table. The file is not truncated after a replace; stale data regions
// remain behind as unreferenced space.
//
// An empty batch is a no-op. A batch naming the same path twice fails with
// ErrDuplicatePath before anything is written.
func (a *Archive) Replace(files []Replacement) error {
	if len(files) == 0 {
		return nil
	}

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = file.Path
	}
	if err := checkDuplicatePaths(paths); err != nil {
		return err
	}

	idx, err := index.Build(a.f, a.offsets)
	if err != nil {
		return err
	}

	replaces, adds := splitInputs(files, idx)
	plan, err := planTable(idx, adds)
	if err != nil {
		return err
	}

	replaceSet := make(map[string]struct{}, len(replaces))
	for _, rep := range replaces {
		replaceSet[rep.Path] = struct{}{}
	}

	end, err := a.fileEnd()
	if err != nil {
		return err
	}
	app := appendio.New(a.f, end)

	a.log().Debug("planned mutation",
		"replace", len(replaces), "add", len(adds),
		"table_start", plan.tableStart, "table_end_after", plan.tableEndAfter)

	// Relocate entries whose data the grown table would overwrite. Entries
	// being replaced get brand-new data offsets anyway and are exempt.
	var moves []*index.Record
	for rec := range idx.Records() {
		if _, ok := replaceSet[rec.Entry.Path]; ok {
			continue
		}
		if rec.Entry.Offset < plan.tableEndAfter {
			moves = append(moves, rec)
		}
	}
	for _, rec := range moves {
		newOffset, err := app.MoveRange(rec.Entry.Offset, rec.Entry.Size, rec.Entry.Path)
		if err != nil {
			return err
		}
		a.log().Debug("relocated entry data",
			"path", rec.Entry.Path, "from", rec.Entry.Offset, "to", newOffset)
		rec.Entry.Offset = newOffset
	}

	// Additions before replacements, so table positions for new records are
	// assigned exactly once.
	next := plan.nextNewTableOffset
	for _, add := range adds {
		offset, err := app.AppendBytes(add.Data, add.Path)
		if err != nil {
			return err
		}
		entry := format.NewEntry(add.Path, offset, uint64(len(add.Data)), md5.Sum(add.Data)) //nolint:gosec // format checksum
		if err := idx.Insert(&index.Record{Entry: entry, TableOffset: next}); err != nil {
			return err
		}
		a.log().Debug("added entry", "path", add.Path, "offset", offset, "size", len(add.Data))
		next += entry.RecordSize()
	}

	for _, rep := range replaces {
		rec, ok := idx.Get(rep.Path)
		if !ok {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, rep.Path)
		}
		offset, err := app.AppendBytes(rep.Data, rep.Path)
		if err != nil {
			return err
		}
		rec.Entry.Offset = offset
		rec.Entry.Size = uint64(len(rep.Data))
		rec.Entry.MD5 = md5.Sum(rep.Data) //nolint:gosec // format checksum
		a.log().Debug("replaced entry", "path", rep.Path, "offset", offset, "size", len(rep.Data))
	}

	if err := app.Flush(); err != nil {
		return err
	}

	if err := a.checkTableFits(plan.tableStart, idx); err != nil {
		return err
	}

	count, err := sizing.ToUint32(idx.Len(), ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("entry count: %w", err)
	}
	header := a.header
	header.FileCount = count

	if err := a.writeHeader(header); err != nil {
		return err
	}
	if err := a.writeTable(plan.tableStart, idx.Records()); err != nil {
		return err
	}

	a.refresh(header, plan.tableStart, idx)
	return nil
}
