package memvfs

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the filesystem engine and the parser.
// Callers distinguish them with errors.Is.
var (
	// ErrNotFound indicates a path segment does not exist during resolution.
	ErrNotFound = errors.New("does not exist")

	// ErrExists indicates the destination already holds a child with the same name.
	ErrExists = errors.New("already exists")

	// ErrCycle indicates a move would place a directory inside itself.
	ErrCycle = errors.New("destination is inside source")

	// ErrInvalidPath indicates a path that cannot be used for the operation,
	// such as one containing ".." or naming the root for delete/move.
	ErrInvalidPath = errors.New("invalid path")

	// ErrParse indicates a line does not match any command shape.
	ErrParse = errors.New("invalid command")
)

// Side identifies which path of a two-path operation failed
type Side string

const (
	SourceSide      Side = "source"
	DestinationSide Side = "destination"
)

// PathError records the operation and path that caused an engine error
type PathError struct {
	Op   string // create, list, move or delete
	Path string // path as supplied by the caller
	Side Side   // only set for move
	Err  error
}

func (e *PathError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Side, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
