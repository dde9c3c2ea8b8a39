package filesystem

import (
	"bufio"
	"io"
	"strings"
)

// WriteHierarchy renders entries as an indented outline, one name per line,
// each prefixed by indent*Depth spaces.
func WriteHierarchy(w io.Writer, entries []Entry, indent int) error {
	indent = max(indent, 0)
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(strings.Repeat(" ", indent*e.Depth)); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Name); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
