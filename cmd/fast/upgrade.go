package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/deps"
)

// NewUpgradeCommand creates the upgrade command definition
func NewUpgradeCommand() *cli.Command {
	return &cli.Command{
		Name:  "upgrade",
		Usage: "Upgrade dependencies to their latest compatible versions",
		Description: "Runs 'poetry add <pkg>@latest' for every caret (^) or tilde (~) dependency of the " +
			"main and dev groups. Exact pins, explicit bounds, wildcards, python and url/git/path " +
			"dependencies are left alone. Stops at the first failing step.",
		Flags:        []cli.Flag{newDryFlag()},
		OnUsageError: usageError,
		Action:       upgradeCommand,
	}
}

func upgradeCommand(ctx context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}
	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	plan, err := deps.PlanUpgrade(p.manifest)
	if err != nil {
		return err
	}
	for _, s := range plan.Skipped {
		log.Debug("skip", "%s (%s)", s.Dependency.Name, s.Reason)
	}

	cmds := plan.Commands()
	if len(cmds) == 0 {
		log.Info("upgrade", "nothing to upgrade")
		return nil
	}
	for i := range cmds {
		cmds[i].WorkDir = p.root
	}

	result, err := newExecutor(log, cmd.Bool("dry")).Execute(ctx, cmds, command.StopOnFailure)
	if err != nil {
		return err
	}
	return result.Err()
}
