package archive

import "errors"

var (
	// ErrNoSuchSample is returned when a sample index is out of range.
	ErrNoSuchSample = errors.New("archive: no such sample")
	// ErrUnsupportedFormat is returned when no reader handles a file.
	ErrUnsupportedFormat = errors.New("archive: unsupported format")
	// ErrKindMismatch is returned when an object's schema does not match its kind.
	ErrKindMismatch = errors.New("archive: schema does not match object kind")
)
