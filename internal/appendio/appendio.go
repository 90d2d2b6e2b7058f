// Package appendio provides the append channel used during archive
// mutation: every new or relocated byte range lands strictly after the end
// of file the appender was created with.
package appendio

import (
	"fmt"
	"io"

	"github.com/gdtweak/pck/internal/format"
	"github.com/gdtweak/pck/internal/sizing"
)

// File is the handle subset the appender needs. Reads and writes are
// positional, so the appender never depends on shared seek state.
type File interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
}

// Appender tracks the append position over a single file handle.
type Appender struct {
	f   File
	pos uint64
}

// New returns an appender positioned at end, normally the current file size.
func New(f File, end uint64) *Appender {
	return &Appender{f: f, pos: end}
}

// Pos returns the current append position.
func (a *Appender) Pos() uint64 {
	return a.pos
}

// AppendBytes writes data at the append position and returns the offset the
// data now starts at. path is used only for error context.
func (a *Appender) AppendBytes(data []byte, path string) (uint64, error) {
	offset := a.pos
	off64, err := sizing.ToInt64(offset, format.ErrSizeOverflow)
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", path, err)
	}
	if _, err := a.f.WriteAt(data, off64); err != nil {
		return 0, fmt.Errorf("append data for %s: %w", path, err)
	}
	a.pos += uint64(len(data))
	return offset, nil
}

// MoveRange copies size bytes starting at offset to the append position and
// returns the new offset of the range.
func (a *Appender) MoveRange(offset, size uint64, path string) (uint64, error) {
	n, err := sizing.ToInt(size, format.ErrSizeOverflow)
	if err != nil {
		return 0, fmt.Errorf("move %s: %w", path, err)
	}
	off64, err := sizing.ToInt64(offset, format.ErrSizeOverflow)
	if err != nil {
		return 0, fmt.Errorf("move %s: %w", path, err)
	}

	buf := make([]byte, n)
	section := io.NewSectionReader(a.f, off64, int64(n))
	if _, err := io.ReadFull(section, buf); err != nil {
		return 0, fmt.Errorf("read data for %s: %w", path, err)
	}
	return a.AppendBytes(buf, path)
}

// Flush makes all appended data durable. Call before any in-place
// header or table rewrite.
func (a *Appender) Flush() error {
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("flush appended data: %w", err)
	}
	return nil
}
