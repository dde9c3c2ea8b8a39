package filesystem

import (
	"strings"

	"github.com/brettbedarf/memvfs"
)

// SplitPath splits a slash-delimited path into its segments.
// Empty and "." segments are dropped so "/a", "a/" and "a//b" are valid;
// ".." is rejected since resolution only ever walks down from the root.
// A path with no segments refers to the root.
func SplitPath(p string) ([]string, error) {
	raw := strings.Split(p, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		switch s {
		case "", ".":
			continue
		case "..":
			return nil, memvfs.ErrInvalidPath
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// Basename returns the last segment of p, or "/" when p names the root
func Basename(p string) string {
	raw := strings.Split(p, "/")
	for i := len(raw) - 1; i >= 0; i-- {
		if raw[i] != "" && raw[i] != "." {
			return raw[i]
		}
	}
	return "/"
}
