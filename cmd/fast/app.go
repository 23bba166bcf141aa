package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/errors"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "fast",
		Usage: "Run the Python dev tool chain of a FastAPI + Tortoise ORM project",
		Description: "fast wraps isort, black, ruff, mypy, poetry, pip, coverage and git: " +
			"it builds their invocations, runs them in a fixed order and bumps the version in pyproject.toml.",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "version",
				Usage: "Show version information",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Print debug information",
			},
		},
		Commands: []*cli.Command{
			NewLintCommand(),
			NewCheckCommand(),
			NewBumpCommand(),
			NewSyncCommand(),
			NewUpgradeCommand(),
			NewTagCommand(),
			NewTestCommand(),
			NewVersionCommand(),
			NewInitCommand(),
		},
		Action:       rootAction,
		OnUsageError: usageError,
		// errors are mapped to exit codes by run, never by os.Exit inside cli
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// rootAction runs when no subcommand matched
func rootAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return cli.ShowAppHelp(cmd)
	}

	available := make([]string, 0, len(cmd.Commands))
	for _, c := range cmd.Commands {
		if !c.Hidden {
			available = append(available, c.Name)
		}
	}
	return errors.UnknownCommand(cmd.Args().First(), available)
}

func usageError(_ context.Context, cmd *cli.Command, err error, _ bool) error {
	return errors.InvalidUsage(cmd.Name, err)
}

// maxArgs rejects extra positional arguments
func maxArgs(cmd *cli.Command, max int) error {
	if cmd.Args().Len() > max {
		return errors.TooManyArguments(cmd.Name, max)
	}
	return nil
}

func newDryFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "dry",
		Usage: "Only print the commands, do not run them",
	}
}
