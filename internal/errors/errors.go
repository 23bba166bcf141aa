package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes used when an error does not carry its own
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCoder is implemented by errors that decide the process exit code
type ExitCoder interface {
	error
	ExitCode() int
}

type exitError struct {
	msg  string
	code int
}

func (e *exitError) Error() string { return e.msg }

func (e *exitError) ExitCode() int { return e.code }

// ExitCode returns the exit code the process should end with for err
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) && coder.ExitCode() > 0 {
		return coder.ExitCode()
	}
	return ExitFailure
}

// Usage Errors
func UnknownCommand(name string, available []string) error {
	msg := fmt.Sprintf("unknown command: '%s'", name)

	if len(available) > 0 {
		msg += "\n\nAvailable commands:"
		for _, c := range available {
			msg += fmt.Sprintf("\n  • %s", c)
		}
	}

	msg += "\n\nTip: Run 'fast --help' for usage"
	return &exitError{msg: msg, code: ExitUsage}
}

func InvalidBumpPart(part string) error {
	msg := fmt.Sprintf(`invalid part: '%s'

Usage: fast bump [major|minor|patch]

Examples:
  • fast bump          (patch)
  • fast bump minor
  • fast bump 3        (major)`, part)
	return &exitError{msg: msg, code: ExitUsage}
}

func TooManyArguments(command string, max int) error {
	msg := fmt.Sprintf("too many arguments for '%s' (expected at most %d)\n\nTip: Run 'fast %s --help' for usage",
		command, max, command)
	return &exitError{msg: msg, code: ExitUsage}
}

// InvalidUsage wraps a flag or argument parsing error reported by the CLI
func InvalidUsage(command string, err error) error {
	msg := fmt.Sprintf("%v\n\nTip: Run 'fast %s --help' for usage", err, command)
	return &exitError{msg: msg, code: ExitUsage}
}

// External Tool Errors
func ToolFailed(command, output string, code int, alsoFailed []string) error {
	cleanOutput := strings.TrimSpace(output)
	if cleanOutput == "" {
		cleanOutput = "no additional details available"
	}
	if code <= 0 {
		code = ExitFailure
	}

	msg := fmt.Sprintf(`command failed (exit %d): %s

Details: %s`, code, command, cleanOutput)

	if len(alsoFailed) > 0 {
		msg += "\n\nAlso failed:"
		for _, c := range alsoFailed {
			msg += fmt.Sprintf("\n  • %s", c)
		}
	}

	return &exitError{msg: msg, code: code}
}

func ToolNotFound(name string) error {
	msg := fmt.Sprintf(`required tool not found: %s

Solutions:
  • Install it into the project environment (e.g. 'poetry add --group dev %s')
  • Make sure it is on your PATH
  • Activate the project's virtual environment`, name, name)
	return errors.New(msg)
}

// Manifest Errors
func ManifestNotFound(name, start string, depth int) error {
	msg := fmt.Sprintf(`%s not found (searched '%s' and upward, %d directories)

Solutions:
  • Run fast from inside a poetry project
  • Create one with 'poetry new <name>' or 'poetry init'`, name, start, depth)
	return errors.New(msg)
}

func ManifestParseFailed(path string, parseError error) error {
	msg := fmt.Sprintf(`failed to parse manifest '%s'

Cause: TOML syntax error
Solution: Fix the file, 'poetry check' shows the details`, path)
	msg += fmt.Sprintf("\n\nOriginal error: %v", parseError)
	return errors.New(msg)
}

func VersionFieldMissing(path string) error {
	msg := fmt.Sprintf(`no version field found in '%s'

Looked in:
  • [tool.poetry] version
  • [project] version
  • top-level version`, path)
	return errors.New(msg)
}

func InvalidVersion(path, value string) error {
	msg := fmt.Sprintf(`invalid version '%s' in '%s'

Expected three numeric components, e.g. 1.2.3
The file was not modified`, value, path)
	return errors.New(msg)
}

func VersionEditAmbiguous(path, value string) error {
	msg := fmt.Sprintf(`could not set version '%s' in '%s'

Cause: the version line could not be located unambiguously
Solution: Keep 'version = "x.y.z"' on a line of its own in the version table
The file was not modified`, value, path)
	return errors.New(msg)
}

func InvalidDependencyLine(path, line string) error {
	msg := fmt.Sprintf(`cannot parse dependency line in '%s':
  %s

Expected: name = "constraint" or name = { version = "...", ... }`, path, strings.TrimSpace(line))
	return errors.New(msg)
}

func ManifestWriteFailed(path string, originalError error) error {
	msg := fmt.Sprintf("failed to write manifest: %s", path)

	if strings.Contains(originalError.Error(), "permission denied") {
		msg += `

Cause: Permission denied
Solution: Check file and directory permissions`
	}

	msg += "\n\nThe original file was left unchanged."
	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}

// Git Errors
func NotInGitRepository() error {
	msg := `not in a git repository

Solutions:
  • Run 'git init' to create a new repository
  • Navigate to an existing git repository
  • Check if you're in the correct directory`
	return errors.New(msg)
}

func WorkingTreeDirty() error {
	msg := `working tree is not clean

Solution: Run 'git commit' (or 'git stash') so the release points at committed code`
	return errors.New(msg)
}

func GitOperationFailed(operation string, gitError error) error {
	msg := fmt.Sprintf("git %s failed", operation)

	errorStr := gitError.Error()
	if strings.Contains(errorStr, "tag already exists") {
		msg += `

Cause: A tag with this version already exists
Solution: Bump the version first with 'fast bump'`
	} else if strings.Contains(errorStr, "reference not found") {
		msg += `

Cause: The repository has no commits yet
Solution: Create an initial commit first`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", gitError)
	return errors.New(msg)
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	if strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal") {
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Run 'fast init' in an empty project to see a valid example`
	} else if strings.Contains(parseErrorStr, "permission denied") {
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions with 'ls -la .fast.yml'`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", parseError)
	return errors.New(msg)
}

func ConfigAlreadyExists(configPath string) error {
	msg := fmt.Sprintf(`configuration file already exists: %s

Options:
  • Edit the existing file manually
  • Delete it and run 'fast init' again`, configPath)
	return errors.New(msg)
}

// File System Errors
func DirectoryAccessFailed(operation, path string, originalError error) error {
	msg := fmt.Sprintf("failed to %s directory: %s", operation, path)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check directory permissions
  • Run with appropriate privileges`
	} else if strings.Contains(errorStr, "no such file or directory") {
		msg += `

Cause: Directory does not exist
Solution: Check the path spelling`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}

// Hook Errors
func HookExecutionFailed(hookIndex int, hookType string, originalError error) error {
	msg := fmt.Sprintf("failed to execute %s hook #%d", hookType, hookIndex+1)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check file permissions
  • Ensure the command is executable`
	} else if strings.Contains(errorStr, "not found") {
		msg += `

Cause: Command not found
Solutions:
  • Install the required command
  • Check command spelling in .fast.yml`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}
