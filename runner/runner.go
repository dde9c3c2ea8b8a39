// Package runner feeds lines of the command language to a filesystem and
// reports the outcome of each one.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/brettbedarf/memvfs"
	"github.com/brettbedarf/memvfs/commands"
	"github.com/brettbedarf/memvfs/config"
	"github.com/brettbedarf/memvfs/internal/util"
	"github.com/google/uuid"
)

// Applier applies a parsed command, writing any listing to w.
// Implemented by [filesystem.FileSystem].
type Applier interface {
	Apply(cmd memvfs.Command, w io.Writer) error
}

// Result counts what happened during a run
type Result struct {
	Lines       int // lines read, including blank ones
	Applied     int // commands applied without error
	Diagnostics int // lines that produced a diagnostic instead of applying
}

// Runner processes a script one line at a time
type Runner struct {
	fs     Applier
	cfg    *config.Config
	out    io.Writer
	result Result
	logger util.Logger
}

// New creates a Runner writing echoes, listings and diagnostics to out
func New(fs Applier, cfg *config.Config, out io.Writer) *Runner {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Runner{
		fs:     fs,
		cfg:    cfg,
		out:    out,
		logger: util.GetLogger("Runner").With().Str("run", uuid.NewString()).Logger(),
	}
}

// Result returns the counters accumulated so far
func (r *Runner) Result() Result {
	return r.result
}

// Run processes every line of in until EOF, a fatal error or ctx is done.
// Classified errors are reported inline and do not stop the run.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().Err(err).Int("line", r.result.Lines).Msg("Run cancelled")
			return err
		}
		if err := r.Line(scanner.Text()); err != nil {
			r.logger.Error().Err(err).Int("line", r.result.Lines).Msg("Run aborted")
			return fmt.Errorf("line %d: %w", r.result.Lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	r.logger.Debug().
		Int("lines", r.result.Lines).
		Int("applied", r.result.Applied).
		Int("diagnostics", r.result.Diagnostics).
		Msg("Run finished")
	return nil
}

// Line processes a single line. A non-nil error means the run must stop.
func (r *Runner) Line(line string) error {
	r.result.Lines++
	if r.cfg.Echo {
		if err := r.println(line); err != nil {
			return err
		}
	}
	if r.cfg.SkipBlank && commands.IsBlank(line) {
		return nil
	}

	cmd, err := commands.Parse(line)
	if err != nil {
		if r.cfg.HaltOnParseError {
			return err
		}
		r.logger.Debug().Err(err).Msg("Skipping unparsable line")
		return r.diagnose("Invalid command: " + line)
	}

	err = r.fs.Apply(cmd, r.out)
	if err == nil {
		r.result.Applied++
		return nil
	}
	msg, fatal := Classify(cmd, err)
	if fatal != nil {
		return fatal
	}
	r.logger.Debug().Err(err).Stringer("cmd", cmd).Msg("Command rejected")
	return r.diagnose(msg)
}

func (r *Runner) diagnose(msg string) error {
	r.result.Diagnostics++
	return r.println(msg)
}

func (r *Runner) println(s string) error {
	if _, err := io.WriteString(r.out, s+"\n"); err != nil {
		return errors.Join(errors.New("failed to write output"), err)
	}
	return nil
}
