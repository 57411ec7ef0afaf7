package vfs

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrBoundaryViolation = errors.New("page boundary violation")
	ErrBusy              = errors.New("database is busy")
	ErrHandleClosed      = errors.New("database handle is closed")
	ErrNotFound          = errors.New("database not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnexpectedEOF     = fmt.Errorf("page data unavailable: %w", io.ErrUnexpectedEOF)

	// ErrPastEnd is returned for reads of pages the database does not hold
	// yet. It also matches ErrUnexpectedEOF.
	ErrPastEnd = fmt.Errorf("%w: read past the end of the database", ErrUnexpectedEOF)
)
