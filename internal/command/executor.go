package command

import (
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"strings"

	"github.com/fasttortoise/fast/internal/errors"
	"github.com/fasttortoise/fast/internal/logging"
)

// executor implements Executor on top of a ShellExecutor
type executor struct {
	shell  ShellExecutor
	log    *logging.Logger
	stream io.Writer
}

// NewExecutor creates an executor that echoes each command through log and
// streams tool output to stream (nil disables streaming).
func NewExecutor(shell ShellExecutor, log *logging.Logger, stream io.Writer) Executor {
	return &executor{
		shell:  shell,
		log:    log,
		stream: stream,
	}
}

// Execute runs the commands strictly in sequence and collects their results.
// Only a missing required executable or a cancelled context is returned as
// an error; tool failures are recorded in the result.
func (e *executor) Execute(ctx context.Context, commands []Command, policy Policy) (*ExecutionResult, error) {
	result := &ExecutionResult{
		Policy:  policy,
		Results: make([]CommandResult, 0, len(commands)),
	}

	stopped := false
	for _, cmd := range commands {
		if stopped {
			result.Results = append(result.Results, CommandResult{Command: cmd, Skipped: true})
			continue
		}

		e.log.Command(cmd.String())
		output, err := e.shell.Execute(ctx, cmd.Name, cmd.Args, RunOptions{
			WorkDir: cmd.WorkDir,
			Env:     cmd.Env,
			Stream:  e.stream,
		})

		if err != nil && stderrors.Is(err, exec.ErrNotFound) {
			if !cmd.Optional {
				return result, errors.ToolNotFound(cmd.Name)
			}
			e.log.Warn("skip", "%s is not installed", cmd.Name)
			result.Results = append(result.Results, CommandResult{Command: cmd, Skipped: true, Error: err})
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		if err != nil && cmd.Optional && missingInEnv(cmd, output) {
			e.log.Warn("skip", "%s is not installed", cmd.Program())
			result.Results = append(result.Results, CommandResult{Command: cmd, Output: output, Skipped: true, Error: err})
			continue
		}

		result.Results = append(result.Results, CommandResult{
			Command:  cmd,
			Output:   output,
			ExitCode: exitCode(err),
			Streamed: e.stream != nil,
			Error:    err,
		})

		if err != nil && policy == StopOnFailure {
			stopped = true
		}
	}

	return result, nil
}

// missingInEnv reports whether "poetry run" failed because the wrapped
// executable is not installed in the project environment.
func missingInEnv(cmd Command, output string) bool {
	program := cmd.Program()
	if program == cmd.Name {
		return false
	}
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Command not found: "+program) {
			return true
		}
		if strings.Contains(line, "No such file or directory") && strings.Contains(line, program) {
			return true
		}
	}
	return false
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// dryRunExecutor prints commands without running them
type dryRunExecutor struct {
	log *logging.Logger
}

// NewDryRunExecutor creates an executor that only echoes the commands
func NewDryRunExecutor(log *logging.Logger) Executor {
	return &dryRunExecutor{log: log}
}

func (d *dryRunExecutor) Execute(_ context.Context, commands []Command, policy Policy) (*ExecutionResult, error) {
	result := &ExecutionResult{
		Policy:  policy,
		Results: make([]CommandResult, 0, len(commands)),
	}
	for _, cmd := range commands {
		d.log.Command(cmd.String())
		result.Results = append(result.Results, CommandResult{Command: cmd})
	}
	return result, nil
}
