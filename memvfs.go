// Package memvfs contains core domain types for the in-memory virtual
// filesystem: the command values produced by the parser and the error
// taxonomy returned by the engine.
package memvfs

import "strings"

// CommandKind valid kinds are CreateCmd, ListCmd, MoveCmd, DeleteCmd
type CommandKind string

const (
	CreateCmd CommandKind = "CREATE"
	ListCmd   CommandKind = "LIST"
	MoveCmd   CommandKind = "MOVE"
	DeleteCmd CommandKind = "DELETE"
)

// Command is a single parsed directive.
//
// Path is the target for Create, List and Delete and the source for Move.
// Dest is only set for Move. HasPath is false only for a bare LIST, which
// lists from the root.
type Command struct {
	Kind    CommandKind
	Path    string
	Dest    string
	HasPath bool
}

// Create returns a CREATE command for path
func Create(path string) Command {
	return Command{Kind: CreateCmd, Path: path, HasPath: true}
}

// List returns a LIST command for path
func List(path string) Command {
	return Command{Kind: ListCmd, Path: path, HasPath: true}
}

// ListRoot returns a LIST command without a path
func ListRoot() Command {
	return Command{Kind: ListCmd}
}

// Move returns a MOVE command relocating src into dst
func Move(src, dst string) Command {
	return Command{Kind: MoveCmd, Path: src, Dest: dst, HasPath: true}
}

// Delete returns a DELETE command for path
func Delete(path string) Command {
	return Command{Kind: DeleteCmd, Path: path, HasPath: true}
}

// String renders the command back into its line form
func (c Command) String() string {
	parts := []string{string(c.Kind)}
	if c.HasPath {
		parts = append(parts, c.Path)
	}
	if c.Kind == MoveCmd {
		parts = append(parts, c.Dest)
	}
	return strings.Join(parts, " ")
}

// Op returns the lowercase verb used in diagnostics, i.e. "delete"
func (c Command) Op() string {
	return strings.ToLower(string(c.Kind))
}
