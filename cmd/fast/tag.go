package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/errors"
	"github.com/fasttortoise/fast/internal/git"
	"github.com/fasttortoise/fast/internal/logging"
)

// NewTagCommand creates the tag command definition
func NewTagCommand() *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Tag the current version and push it",
		Description: "Creates an annotated tag named after the version in pyproject.toml and pushes tags " +
			"(and the branch when it is ahead of its upstream). The working tree must be clean.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Tag message (default: the version)",
			},
			newDryFlag(),
		},
		OnUsageError: usageError,
		Action:       tagCommand,
	}
}

func tagCommand(ctx context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}
	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	repo, err := git.Open(p.root)
	if err != nil {
		return err
	}

	clean, listing, err := repo.Status()
	if err != nil {
		return err
	}
	if !clean {
		log.Out("%s", listing)
		return errors.WorkingTreeDirty()
	}

	tag, err := p.manifest.Version()
	if err != nil {
		return err
	}
	message := cmd.String("message")
	if message == "" {
		message = tag
	}

	dry := cmd.Bool("dry")
	pushes := []command.Command{command.GitPush(true)}
	if branchAhead(ctx, log, repo.Path()) {
		pushes = append(pushes, command.GitPush(false))
	}
	for i := range pushes {
		pushes[i].WorkDir = repo.Path()
	}

	if dry {
		cmds := append([]command.Command{{Name: "git", Args: []string{"tag", "-a", tag, "-m", message}}}, pushes...)
		_, err := newExecutor(log, true).Execute(ctx, cmds, command.StopOnFailure)
		return err
	}

	log.Command("git tag -a " + tag + " -m " + message)
	if err := repo.CreateTag(tag, message); err != nil {
		return err
	}

	result, err := newExecutor(log, false).Execute(ctx, pushes, command.StopOnFailure)
	if err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}

	log.Out("You may want to publish package:\n poetry publish --build")
	return nil
}

// branchAhead reports whether the current branch has commits its upstream
// does not. Any failure to tell counts as not ahead.
func branchAhead(ctx context.Context, log *logging.Logger, root string) bool {
	status := command.GitStatusBranch()
	output, err := newShell().Execute(ctx, status.Name, status.Args, command.RunOptions{WorkDir: root})
	if err != nil {
		log.Debug("tag", "cannot read upstream status: %v", err)
		return false
	}
	return git.ParseAhead(output) > 0
}
