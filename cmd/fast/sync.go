package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/deps"
	"github.com/fasttortoise/fast/internal/errors"
)

// NewSyncCommand creates the sync command definition
func NewSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Export dependencies to a requirements file and install them with pip",
		Description: "Runs 'poetry export' (including the dev group when the project declares one) " +
			"followed by 'pip install -r'. The requirements file is removed afterwards unless it " +
			"already existed or --save is given. Stops at the first failing step.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filename",
				Aliases: []string{"f"},
				Usage:   "Requirements file to export to (default from .fast.yml, else dev_requirements.txt)",
			},
			&cli.StringFlag{
				Name:    "extras",
				Aliases: []string{"E"},
				Usage:   "Extras to include in the export",
			},
			&cli.BoolFlag{
				Name:    "save",
				Aliases: []string{"s"},
				Usage:   "Keep the requirements file after installing",
			},
			newDryFlag(),
		},
		OnUsageError: usageError,
		Action:       syncCommand,
	}
}

func syncCommand(ctx context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}
	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	filename := cmd.String("filename")
	if filename == "" {
		filename = p.config.Sync.Requirements
	}

	plan := deps.PlanSync(p.manifest, deps.SyncOptions{
		Requirements: filename,
		WorkDir:      p.root,
		Extras:       cmd.String("extras"),
		Save:         cmd.Bool("save"),
		Prefix:       command.PoetryRun,
	})

	dry := cmd.Bool("dry")
	result, err := newExecutor(log, dry).Execute(ctx, plan.Commands, command.StopOnFailure)
	if err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}

	if plan.Cleanup != "" {
		if dry {
			log.Command("rm -f " + plan.Cleanup)
			return nil
		}
		log.Debug("sync", "removing %s", plan.Cleanup)
		if err := os.Remove(plan.Cleanup); err != nil && !os.IsNotExist(err) {
			return errors.DirectoryAccessFailed("remove", plan.Cleanup, err)
		}
	}
	return nil
}
