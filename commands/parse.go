// Package commands turns lines of the command language into [memvfs.Command]
// values.
package commands

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/memvfs"
)

// ParseError describes a line that does not match any command shape
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q: %s", memvfs.ErrParse, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return memvfs.ErrParse
}

// arity lists the accepted argument counts per keyword
var arity = map[memvfs.CommandKind][]int{
	memvfs.CreateCmd: {1},
	memvfs.ListCmd:   {0, 1},
	memvfs.MoveCmd:   {2},
	memvfs.DeleteCmd: {1},
}

// Parse tokenizes line on whitespace and classifies it by its first token
// (case-sensitive) and the number of remaining tokens. Paths are passed
// through unmodified.
func Parse(line string) (memvfs.Command, error) {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return memvfs.Command{}, &ParseError{Line: line, Reason: "empty line"}
	}

	kind := memvfs.CommandKind(argv[0])
	args := argv[1:]
	counts, ok := arity[kind]
	if !ok {
		return memvfs.Command{}, &ParseError{Line: line, Reason: fmt.Sprintf("unknown keyword %q", argv[0])}
	}

	switch {
	case kind == memvfs.CreateCmd && len(args) == 1:
		return memvfs.Create(args[0]), nil
	case kind == memvfs.ListCmd && len(args) == 0:
		return memvfs.ListRoot(), nil
	case kind == memvfs.ListCmd && len(args) == 1:
		return memvfs.List(args[0]), nil
	case kind == memvfs.MoveCmd && len(args) == 2:
		return memvfs.Move(args[0], args[1]), nil
	case kind == memvfs.DeleteCmd && len(args) == 1:
		return memvfs.Delete(args[0]), nil
	}
	return memvfs.Command{}, &ParseError{
		Line:   line,
		Reason: fmt.Sprintf("%s takes %s argument(s), got %d", kind, joinCounts(counts), len(args)),
	}
}

// IsBlank reports whether line carries no command: only whitespace or a
// comment starting with '#'
func IsBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func joinCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, " or ")
}
