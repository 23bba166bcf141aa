package command

import (
	"github.com/fasttortoise/fast/internal/errors"
)

const streamedDetails = "see the tool output above"

// ExecutionResult represents the result of executing multiple commands
type ExecutionResult struct {
	Policy  Policy
	Results []CommandResult
}

// Success is true when no executed step failed
func (r *ExecutionResult) Success() bool {
	return r.FirstFailure() == nil
}

// FirstFailure returns the earliest failed step, or nil
func (r *ExecutionResult) FirstFailure() *CommandResult {
	for i := range r.Results {
		if r.Results[i].Failed() {
			return &r.Results[i]
		}
	}
	return nil
}

// Failures returns every failed step in execution order
func (r *ExecutionResult) Failures() []CommandResult {
	var failed []CommandResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err converts the aggregate outcome into an error carrying the first
// failing tool's exit code. Output that was streamed is not repeated.
func (r *ExecutionResult) Err() error {
	first := r.FirstFailure()
	if first == nil {
		return nil
	}
	others := make([]string, 0)
	for _, res := range r.Failures()[1:] {
		others = append(others, res.Command.String())
	}
	output := first.Output
	if first.Streamed {
		output = streamedDetails
	}
	return errors.ToolFailed(first.Command.String(), output, first.ExitCode, others)
}
