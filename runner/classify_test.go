package runner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brettbedarf/memvfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathErr(op, path string, side memvfs.Side, err error) error {
	return &memvfs.PathError{Op: op, Path: path, Side: side, Err: err}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  memvfs.Command
		err  error
		msg  string
	}{
		{
			"delete missing",
			memvfs.Delete("missing/x"),
			pathErr("delete", "missing/x", "", memvfs.ErrNotFound),
			"Cannot delete missing/x - x does not exist",
		},
		{
			"move missing source",
			memvfs.Move("missing/x", "a"),
			pathErr("move", "missing/x", memvfs.SourceSide, memvfs.ErrNotFound),
			"Cannot move missing/x - x does not exist",
		},
		{
			"move missing destination",
			memvfs.Move("a", "missing/y"),
			pathErr("move", "missing/y", memvfs.DestinationSide, memvfs.ErrNotFound),
			"Cannot move a - y does not exist",
		},
		{
			"move name taken",
			memvfs.Move("a/b", "d"),
			pathErr("move", "d", memvfs.DestinationSide, memvfs.ErrExists),
			"Cannot move a/b - b already exists in d",
		},
		{
			"move into descendant",
			memvfs.Move("a", "a/b"),
			pathErr("move", "a/b", memvfs.DestinationSide, memvfs.ErrCycle),
			"Cannot move a - a/b is inside a",
		},
		{
			"list missing",
			memvfs.List("a/nope"),
			pathErr("list", "a/nope", "", memvfs.ErrNotFound),
			"Cannot list a/nope - nope does not exist",
		},
		{
			"delete root",
			memvfs.Delete("/"),
			pathErr("delete", "/", "", memvfs.ErrInvalidPath),
			"Cannot delete / - invalid path",
		},
		{
			"move invalid destination",
			memvfs.Move("a", "../b"),
			pathErr("move", "../b", memvfs.DestinationSide, memvfs.ErrInvalidPath),
			"Cannot move a - invalid path ../b",
		},
		{
			"create invalid",
			memvfs.Create("a/../b"),
			pathErr("create", "a/../b", "", memvfs.ErrInvalidPath),
			"Cannot create a/../b - invalid path",
		},
		{
			"wrapped sentinel without PathError",
			memvfs.Delete("a/b"),
			fmt.Errorf("outer: %w", memvfs.ErrNotFound),
			"Cannot delete a/b - b does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, fatal := Classify(tt.cmd, tt.err)
			require.NoError(t, fatal)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestClassify_Fatal(t *testing.T) {
	t.Parallel()

	other := errors.New("boom")
	tests := []struct {
		name string
		cmd  memvfs.Command
		err  error
	}{
		{"unclassified error", memvfs.Delete("a"), other},
		{"not found on create", memvfs.Create("a"), pathErr("create", "a", "", memvfs.ErrNotFound)},
		{"exists outside move", memvfs.Create("a"), pathErr("create", "a", "", memvfs.ErrExists)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, fatal := Classify(tt.cmd, tt.err)
			assert.Empty(t, msg)
			assert.Same(t, tt.err, fatal)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	t.Parallel()

	msg, fatal := Classify(memvfs.ListRoot(), nil)
	assert.Empty(t, msg)
	assert.NoError(t, fatal)
}
