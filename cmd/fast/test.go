package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/lint"
)

// NewTestCommand creates the test command definition
func NewTestCommand() *cli.Command {
	return &cli.Command{
		Name:         "test",
		Usage:        "Run the test suite under coverage",
		Description:  "Runs 'coverage run -m pytest -s' then 'coverage report --omit=tests/* -m'.",
		Flags:        []cli.Flag{newDryFlag()},
		OnUsageError: usageError,
		Action:       testCommand,
	}
}

func testCommand(ctx context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}
	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	result, err := newExecutor(log, cmd.Bool("dry")).Execute(ctx, testCommands(p.root), command.StopOnFailure)
	if err != nil {
		return err
	}
	return result.Err()
}

func testCommands(root string) []command.Command {
	prefix := lint.Prefix("coverage", getenv, lookPath)
	cmds := []command.Command{
		command.Tool(prefix, "coverage run -m pytest -s"),
		command.Tool(prefix, "coverage report --omit=tests/* -m"),
	}
	for i := range cmds {
		cmds[i].WorkDir = root
	}
	return cmds
}
