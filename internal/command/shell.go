package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// realShellExecutor implements ShellExecutor using os/exec
type realShellExecutor struct{}

// NewRealShellExecutor creates a new shell executor that executes real commands
func NewRealShellExecutor() ShellExecutor {
	return &realShellExecutor{}
}

// Execute runs the command using os/exec. Combined output is captured and,
// when opts.Stream is set, copied to it as the tool writes.
func (s *realShellExecutor) Execute(ctx context.Context, name string, args []string, opts RunOptions) (string, error) {
	// #nosec G204 - tool names come from fast itself or the project's .fast.yml
	cmd := exec.CommandContext(ctx, name, args...)

	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if opts.Stream != nil {
		out = io.MultiWriter(&buf, opts.Stream)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}
