package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var (
	memvfsBin string
	projRoot  string
)

func TestMain(m *testing.M) {
	// Build the memvfs binary once for all tests
	tmpBinDir, err := os.MkdirTemp("", "memvfs-bin")
	if err != nil {
		panic(err)
	}

	memvfsBin = filepath.Join(tmpBinDir, "memvfs")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot = filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", memvfsBin, "./cmd")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	code := m.Run()
	if err := os.RemoveAll(tmpBinDir); err != nil {
		panic(err)
	}
	os.Exit(code)
}

// memvfsRun holds the result of one invocation of the binary
type memvfsRun struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runMemvfs executes the binary with args, feeding stdin
func runMemvfs(t *testing.T, stdin string, args ...string) memvfsRun {
	t.Helper()
	cmd := exec.Command(memvfsBin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	run := memvfsRun{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("failed to run memvfs: %v", err)
		}
		run.ExitCode = exitErr.ExitCode()
	}
	run.Stdout = stdout.String()
	run.Stderr = stderr.String()
	return run
}

// writeTemp writes content into a new file named name under a temp dir
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestE2EScriptFromStdin(t *testing.T) {
	run := runMemvfs(t, "CREATE a/b/c\nLIST\nDELETE missing/x\nLIST a\n", "-v", "1")

	expected := "CREATE a/b/c\nLIST\na\n  b\n    c\nDELETE missing/x\nCannot delete missing/x - x does not exist\nLIST a\nb\n  c\n"
	if run.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d, stderr:\n%s", run.ExitCode, run.Stderr)
	}
	if run.Stdout != expected {
		t.Fatalf("output mismatch:\nexpected: %q\ngot:      %q", expected, run.Stdout)
	}
}

func TestE2EScriptFile(t *testing.T) {
	script := writeTemp(t, "script.txt", "CREATE b\nCREATE a\nMOVE b a\nLIST\n")

	run := runMemvfs(t, "", "--script", script, "-v", "1")

	expected := "CREATE b\nCREATE a\nMOVE b a\nLIST\na\n  b\n"
	if run.Stdout != expected {
		t.Fatalf("output mismatch:\nexpected: %q\ngot:      %q", expected, run.Stdout)
	}
}

func TestE2EConfigFileAndOrderFlag(t *testing.T) {
	cfgPath := writeTemp(t, "memvfs.yaml", "echo: false\nindent_width: 1\nverbose: 1\n")
	stdin := "CREATE z/y\nCREATE a\nLIST\n"

	run := runMemvfs(t, stdin, "-c", cfgPath)
	if expected := "z\n y\na\n"; run.Stdout != expected {
		t.Fatalf("insertion order mismatch:\nexpected: %q\ngot:      %q", expected, run.Stdout)
	}

	run = runMemvfs(t, stdin, "-c", cfgPath, "--order", "name")
	if expected := "a\nz\n y\n"; run.Stdout != expected {
		t.Fatalf("name order mismatch:\nexpected: %q\ngot:      %q", expected, run.Stdout)
	}
}

func TestE2EParseErrorPolicy(t *testing.T) {
	stdin := "CREATE a\nBOGUS\nLIST\n"

	run := runMemvfs(t, stdin, "-v", "1")
	if run.ExitCode != 0 {
		t.Fatalf("parse errors must not fail the run by default, stderr:\n%s", run.Stderr)
	}
	if !strings.Contains(run.Stdout, "Invalid command: BOGUS\nLIST\na\n") {
		t.Fatalf("expected diagnostic and continued processing, got %q", run.Stdout)
	}

	cfgPath := writeTemp(t, "strict.json", `{"halt_on_parse_error": true}`)
	run = runMemvfs(t, stdin, "-v", "1", "-c", cfgPath)
	if run.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", run.ExitCode)
	}
	if strings.Contains(run.Stdout, "LIST") {
		t.Fatalf("processing must stop at the bad line, got %q", run.Stdout)
	}
}

func TestE2EInvalidConfig(t *testing.T) {
	run := runMemvfs(t, "", "--order", "random")
	if run.ExitCode == 0 {
		t.Fatalf("expected failure for unknown order, stdout: %q", run.Stdout)
	}
	if !strings.Contains(run.Stderr, "unknown list order") {
		t.Fatalf("expected validation error in logs, got:\n%s", run.Stderr)
	}
}
