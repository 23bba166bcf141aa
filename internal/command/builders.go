package command

import "strings"

// PoetryRun is the prefix used to run a tool inside the project's environment
var PoetryRun = []string{"poetry", "run"}

// Tool builds a command from a tool line such as "ruff --fix", optionally
// prefixed (e.g. with PoetryRun), followed by extra arguments.
func Tool(prefix []string, line string, extra ...string) Command {
	fields := append(append([]string{}, prefix...), strings.Fields(line)...)
	if len(fields) == 0 {
		return Command{}
	}

	args := append([]string{}, fields[1:]...)
	args = append(args, extra...)

	return Command{
		Name: fields[0],
		Args: args,
	}
}

// PoetryExportOptions represents options for poetry export
type PoetryExportOptions struct {
	WithDev bool
	Extras  string
}

// PoetryExport builds a poetry export command writing a pinned requirements file
func PoetryExport(output string, opts PoetryExportOptions) Command {
	args := []string{"export"}

	if opts.Extras != "" {
		args = append(args, "--extras="+opts.Extras)
	}
	if opts.WithDev {
		args = append(args, "--with=dev")
	}

	args = append(args, "--without-hashes", "-o", output)

	return Command{
		Name: "poetry",
		Args: args,
	}
}

// PipInstall builds a pip install -r command
func PipInstall(prefix []string, requirements string) Command {
	return Tool(prefix, "pip install -r", requirements)
}

// PoetryAdd builds a poetry add command. Flags are placed before the
// packages and trailing flags after them.
func PoetryAdd(flags []string, packages []string, trailing []string) Command {
	args := []string{"add"}
	args = append(args, flags...)
	args = append(args, packages...)
	args = append(args, trailing...)

	return Command{
		Name: "poetry",
		Args: args,
	}
}

// GitPush builds a git push command
func GitPush(tags bool) Command {
	args := []string{"push"}
	if tags {
		args = append(args, "--tags")
	}
	return Command{
		Name: "git",
		Args: args,
	}
}

// GitStatusBranch builds a git status command whose output reports how far
// the current branch is ahead of its upstream
func GitStatusBranch() Command {
	return Command{
		Name: "git",
		Args: []string{"status", "--porcelain=v2", "--branch"},
	}
}
