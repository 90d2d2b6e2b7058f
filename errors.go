package pck

import (
	"errors"

	"github.com/gdtweak/pck/internal/format"
)

// Errors re-exported from the container codec.
var (
	// ErrMalformedHeader is returned when the header magic is wrong or the
	// header cannot be read in full.
	ErrMalformedHeader = format.ErrMalformedHeader

	// ErrUnsupportedVersion is returned for any container version other than 1.
	ErrUnsupportedVersion = format.ErrUnsupportedVersion

	// ErrEmptyArchive is returned when an archive holds no entries, or when
	// a deletion would remove the last one.
	ErrEmptyArchive = format.ErrEmptyArchive

	// ErrInvalidPath is returned when stored path bytes are not valid UTF-8.
	ErrInvalidPath = format.ErrInvalidPath

	// ErrSizeOverflow is returned when a count or size exceeds its field capacity.
	ErrSizeOverflow = format.ErrSizeOverflow
)

// Errors raised by the mutation workflow.
var (
	// ErrDuplicatePath is returned when one batch names the same path twice.
	// The check runs before any write, so the archive is untouched.
	ErrDuplicatePath = errors.New("pck: duplicate path in batch")

	// ErrEntryNotFound is returned when a replacement targets a path that
	// disappeared between planning and writing.
	ErrEntryNotFound = errors.New("pck: entry not found")

	// ErrTableOverflow is returned when the rewritten entry table would
	// reach into the data region. Data appended earlier in the same call
	// stays behind past the old end of file; the header and table are
	// untouched.
	ErrTableOverflow = errors.New("pck: entry table overflows into data region")
)
