package pck

import (
	"io"

	"github.com/gdtweak/pck/internal/format"
)

// Types re-exported from internal/format for the public API.
type (
	// Header is the fixed-layout PCK header.
	Header = format.Header

	// Entry describes one file inside the archive.
	Entry = format.Entry
)

// HeaderSize is the fixed byte size of the PCK header; the entry table
// starts immediately after it.
const HeaderSize = format.HeaderSize

// File is the archive handle the package mutates. *os.File satisfies it.
//
// All reads and writes are positional, so the package never relies on a
// shared seek cursor; Seek is used only to find the end of file before
// appending.
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Seeker
	Truncate(size int64) error
	Sync() error
}

// Replacement pairs an archive path with its new content. Paths already in
// the archive are replaced; unknown paths are added.
type Replacement struct {
	Path string
	Data []byte
}
