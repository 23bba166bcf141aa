// Package lint builds the formatter and linter chain run by fast lint and
// fast check.
package lint

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/config"
)

const (
	envNoFix    = "NO_FIX"
	envSkipMypy = "SKIP_MYPY"
	envVenv     = "VIRTUAL_ENV"

	importSorter = "isort"
	formatter    = "black"
	fixFlag      = "--fix"
)

// Options describes one lint run
type Options struct {
	Paths     []string
	CheckOnly bool
	// Root is the project root (the directory holding pyproject.toml)
	Root string
	// Cwd is where the tools run
	Cwd string

	Getenv   func(string) string
	LookPath func(string) (string, error)
}

func (o *Options) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

func (o *Options) lookPath(name string) (string, error) {
	if o.LookPath != nil {
		return o.LookPath(name)
	}
	return exec.LookPath(name)
}

// Plan returns the tool chain in its fixed order: import sorter, formatter,
// linter, then the type checker.
func Plan(cfg config.Lint, opts Options) []command.Command {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	tools := cfg.Tools
	if opts.CheckOnly {
		tools = cfg.CheckTools
	}

	prefix := Prefix(formatter, opts.getenv, opts.lookPath)
	noFix := LoadBool(opts.getenv(envNoFix))
	src := SourceDir(opts.Root, opts.Cwd)

	var cmds []command.Command
	for _, line := range tools {
		fields := strings.Fields(line)
		if noFix && !opts.CheckOnly {
			fields = without(fields, fixFlag)
		}
		if len(fields) > 0 && fields[0] == importSorter && src != "" {
			fields = append(fields, "--src="+src)
		}

		cmd := command.Tool(prefix, strings.Join(fields, " "), paths...)
		cmd.WorkDir = opts.Cwd
		cmds = append(cmds, cmd)
	}

	if cfg.TypeChecker != "" && !LoadBool(opts.getenv(envSkipMypy)) {
		cmd := command.Tool(prefix, cfg.TypeChecker, paths...)
		cmd.WorkDir = opts.Cwd
		cmd.Optional = true
		cmds = append(cmds, cmd)
	}

	return cmds
}

// Run executes the chain with every tool running regardless of earlier
// failures. The returned error carries the first failing tool's exit code.
func Run(ctx context.Context, executor command.Executor, cmds []command.Command) (*command.ExecutionResult, error) {
	result, err := executor.Execute(ctx, cmds, command.RunAll)
	if err != nil {
		return result, err
	}
	return result, result.Err()
}

// Prefix returns the prefix for running project tools: nothing inside an
// activated virtualenv that provides probe, "poetry run" otherwise.
func Prefix(probe string, getenv func(string) string, lookPath func(string) (string, error)) []string {
	if getenv(envVenv) != "" {
		if _, err := lookPath(probe); err == nil {
			return nil
		}
	}
	return command.PoetryRun
}

// LoadBool reads a boolean environment value. Unset, empty and
// 0/false/off/no/n (any case) are false.
func LoadBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "off", "no", "n":
		return false
	}
	return true
}

// SourceDir returns the isort --src value relative to cwd, or "" when the
// project has no application package. The package is <root>/<name> with
// dashes turned into underscores, falling back to <root>/app.
func SourceDir(root, cwd string) string {
	if root == "" {
		return ""
	}

	appDir := ""
	for _, name := range []string{strings.ReplaceAll(filepath.Base(root), "-", "_"), "app"} {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			appDir = candidate
			break
		}
	}
	if appDir == "" {
		return ""
	}

	root = filepath.Clean(root)
	cwd = filepath.Clean(cwd)
	switch cwd {
	case appDir:
		return "."
	case root:
		return filepath.Base(appDir)
	}

	depth := 1
	if rel, err := filepath.Rel(root, cwd); err == nil && !strings.HasPrefix(rel, "..") {
		depth = len(strings.Split(rel, string(filepath.Separator)))
	}
	return strings.Repeat("../", depth) + filepath.Base(appDir)
}

func without(fields []string, drop string) []string {
	kept := fields[:0:0]
	for _, f := range fields {
		if f != drop {
			kept = append(kept, f)
		}
	}
	return kept
}
