package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/manifest"
	"github.com/fasttortoise/fast/internal/testutil"
)

// recordingShell records every invocation instead of running it
type recordingShell struct {
	calls   []string
	fail    map[string]bool   // tool name (after "poetry run") that fails
	missing map[string]bool   // executables reported as not installed
	outputs map[string]string // full command line -> output
	onCall  func(line string, opts command.RunOptions)
}

func (r *recordingShell) Execute(_ context.Context, name string, args []string, opts command.RunOptions) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, line)

	if r.missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	if r.onCall != nil {
		r.onCall(line, opts)
	}

	tool := name
	if name == "poetry" && len(args) > 1 && args[0] == "run" {
		tool = args[1]
	}
	output := r.outputs[line]
	if r.fail[tool] {
		if output == "" {
			output = tool + " failed"
		}
		return output, errors.New("exit status 1")
	}
	return output, nil
}

// setupProject creates a project directory with the given manifest and
// points the command helpers at it.
func setupProject(t *testing.T, content string) (string, *recordingShell) {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteFile(t, dir, manifest.FileName, content)

	shell := &recordingShell{
		fail:    map[string]bool{},
		missing: map[string]bool{},
		outputs: map[string]string{},
	}

	prevGetwd, prevShell, prevGetenv, prevLookPath := osGetwd, newShell, getenv, lookPath
	prevNoColor := color.NoColor
	t.Cleanup(func() {
		osGetwd, newShell, getenv, lookPath = prevGetwd, prevShell, prevGetenv, prevLookPath
		color.NoColor = prevNoColor
	})

	osGetwd = func() (string, error) { return dir, nil }
	newShell = func() command.ShellExecutor { return shell }
	getenv = func(string) string { return "" }
	lookPath = func(name string) (string, error) { return "", &exec.Error{Name: name, Err: exec.ErrNotFound} }
	color.NoColor = true

	return dir, shell
}

// runFast runs the CLI and returns the exit code and both outputs
func runFast(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"fast"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, manifest.FileName))
	require.NoError(t, err)
	return string(data)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
