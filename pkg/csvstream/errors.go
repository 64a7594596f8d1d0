package csvstream

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDialect is returned when a dialect name is not registered.
	ErrUnknownDialect = errors.New("csvstream: unknown dialect")
	// ErrReadInProgress is returned by Read while the previous read is neither
	// done nor closed.
	ErrReadInProgress = errors.New("csvstream: read already in progress")
	// ErrNotStarted is returned by row accessors before Read.
	ErrNotStarted = errors.New("csvstream: read not started")
)

// FileOpenError reports that the input file could not be opened.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("csvstream: cannot open %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}
