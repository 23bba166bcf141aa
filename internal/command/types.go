package command

import (
	"context"
	"io"
	"strings"
)

// Command represents an external tool invocation
type Command struct {
	Name     string   // Executable name (e.g., "poetry")
	Args     []string // Command arguments
	WorkDir  string   // Optional working directory
	Env      []string // Extra KEY=VALUE pairs appended to the process environment
	Optional bool     // A missing executable skips the step instead of aborting
}

// String renders the command the way it is echoed to the user
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Program is the executable the step ultimately runs, looking through a
// "poetry run" prefix.
func (c Command) Program() string {
	if c.Name == PoetryRun[0] && len(c.Args) > 1 && c.Args[0] == PoetryRun[1] {
		return c.Args[1]
	}
	return c.Name
}

// Policy decides what happens to the remaining steps after a failure
type Policy int

const (
	// RunAll gives every step the chance to run and aggregates the outcome
	RunAll Policy = iota
	// StopOnFailure marks every step after the first failure as skipped
	StopOnFailure
)

// CommandResult represents the result of a single command execution
type CommandResult struct {
	Command  Command
	Output   string
	ExitCode int
	Skipped  bool
	Streamed bool // Output was already relayed to the terminal
	Error    error
}

// Failed reports whether the step ran and did not succeed
func (r CommandResult) Failed() bool {
	return !r.Skipped && r.Error != nil
}

// RunOptions carries per-invocation settings for a ShellExecutor
type RunOptions struct {
	WorkDir string
	Env     []string
	Stream  io.Writer
}

// ShellExecutor interface abstracts the actual process execution
type ShellExecutor interface {
	Execute(ctx context.Context, name string, args []string, opts RunOptions) (string, error)
}

// Executor runs an ordered list of commands under a failure policy
type Executor interface {
	Execute(ctx context.Context, commands []Command, policy Policy) (*ExecutionResult, error)
}
