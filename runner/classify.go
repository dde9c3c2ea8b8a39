package runner

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/memvfs"
	"github.com/brettbedarf/memvfs/filesystem"
)

// Classify converts an engine error for cmd into a user-facing diagnostic.
// Classified errors return a message and a nil fatal error; anything else is
// returned unchanged as fatal with an empty message.
func Classify(cmd memvfs.Command, err error) (msg string, fatal error) {
	if err == nil {
		return "", nil
	}

	var side memvfs.Side
	failedPath := cmd.Path
	var pErr *memvfs.PathError
	if errors.As(err, &pErr) {
		side = pErr.Side
		failedPath = pErr.Path
	}

	op := cmd.Op()
	switch {
	case errors.Is(err, memvfs.ErrNotFound):
		switch cmd.Kind {
		case memvfs.DeleteCmd, memvfs.ListCmd:
			return fmt.Sprintf("Cannot %s %s - %s does not exist", op, cmd.Path, filesystem.Basename(cmd.Path)), nil
		case memvfs.MoveCmd:
			missing := cmd.Path
			if side == memvfs.DestinationSide {
				missing = cmd.Dest
			}
			return fmt.Sprintf("Cannot move %s - %s does not exist", cmd.Path, filesystem.Basename(missing)), nil
		}
	case errors.Is(err, memvfs.ErrExists) && cmd.Kind == memvfs.MoveCmd:
		return fmt.Sprintf("Cannot move %s - %s already exists in %s", cmd.Path, filesystem.Basename(cmd.Path), cmd.Dest), nil
	case errors.Is(err, memvfs.ErrCycle) && cmd.Kind == memvfs.MoveCmd:
		return fmt.Sprintf("Cannot move %s - %s is inside %s", cmd.Path, cmd.Dest, cmd.Path), nil
	case errors.Is(err, memvfs.ErrInvalidPath):
		if failedPath != cmd.Path {
			return fmt.Sprintf("Cannot %s %s - invalid path %s", op, cmd.Path, failedPath), nil
		}
		return fmt.Sprintf("Cannot %s %s - invalid path", op, cmd.Path), nil
	}
	return "", err
}
