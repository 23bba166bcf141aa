package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// NewVersionCommand creates the version command definition
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:         "version",
		Usage:        "Print the project version from pyproject.toml",
		OnUsageError: usageError,
		Action:       versionCommand,
	}
}

func versionCommand(_ context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}
	p, err := loadProject()
	if err != nil {
		return err
	}

	v, err := p.manifest.Version()
	if err != nil {
		return err
	}
	newLogger(cmd).Out("%s", v)
	return nil
}
