package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/lint"
)

// NewLintCommand creates the lint command definition
func NewLintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Reformat code with isort, black and ruff, then type check with mypy",
		ArgsUsage: "[path...]",
		Description: "Runs isort, black, ruff --fix and mypy in that order on the given paths (default: .). " +
			"Every tool runs even when an earlier one fails; the exit code is the first failing tool's.\n\n" +
			"Environment:\n" +
			"  NO_FIX=1     run ruff without --fix\n" +
			"  SKIP_MYPY=1  skip the type checker",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "check-only",
				Aliases: []string{"c"},
				Usage:   "Only check, do not modify files",
			},
			newDryFlag(),
		},
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runLint(ctx, cmd, cmd.Args().Slice(), cmd.Bool("check-only"))
		},
	}
}

// NewCheckCommand creates the check command definition
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:         "check",
		Usage:        "Check code style without modifying files",
		Description:  "Same as 'fast lint --check-only .'",
		Flags:        []cli.Flag{newDryFlag()},
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := maxArgs(cmd, 0); err != nil {
				return err
			}
			return runLint(ctx, cmd, nil, true)
		},
	}
}

func runLint(ctx context.Context, cmd *cli.Command, paths []string, checkOnly bool) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	cmds := lint.Plan(p.config.Lint, lint.Options{
		Paths:     paths,
		CheckOnly: checkOnly,
		Root:      p.root,
		Cwd:       p.cwd,
		Getenv:    getenv,
		LookPath:  lookPath,
	})
	log.Debug("lint", "%d tools, project root %s", len(cmds), p.root)

	_, err = lint.Run(ctx, newExecutor(log, cmd.Bool("dry")), cmds)
	return err
}
