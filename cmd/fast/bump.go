package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/errors"
	"github.com/fasttortoise/fast/internal/git"
	"github.com/fasttortoise/fast/internal/hooks"
	"github.com/fasttortoise/fast/internal/logging"
	semver "github.com/fasttortoise/fast/internal/version"
)

// NewBumpCommand creates the bump command definition
func NewBumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "bump",
		Usage:     "Bump the version in pyproject.toml",
		ArgsUsage: "[major|minor|patch]",
		Description: "Increments one component of the project version and zeroes the lower ones. " +
			"The part defaults to patch; 1, 2 and 3 are accepted as patch, minor and major.\n\n" +
			"With --commit the manifest is committed as 'Bump version: A → B', " +
			"non-patch bumps are tagged, and the branch and tags are pushed.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "commit",
				Aliases: []string{"c"},
				Usage:   "Commit, tag (minor/major) and push after the version changed",
			},
			newDryFlag(),
		},
		OnUsageError: usageError,
		Action:       bumpCommand,
	}
}

func bumpCommand(ctx context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 1); err != nil {
		return err
	}
	part, err := semver.ParsePart(cmd.Args().First())
	if err != nil {
		return errors.InvalidBumpPart(cmd.Args().First())
	}

	p, err := loadProject()
	if err != nil {
		return err
	}
	log := newLogger(cmd)

	return bumpProject(ctx, log, p, part, cmd.Bool("commit"), cmd.Bool("dry"))
}

func bumpProject(ctx context.Context, log *logging.Logger, p *project, part semver.Part, commit, dry bool) error {
	m := p.manifest
	raw, err := m.Version()
	if err != nil {
		return err
	}
	current, err := semver.Parse(raw)
	if err != nil {
		return errors.InvalidVersion(m.Path, raw)
	}
	next, err := current.Bump(part)
	if err != nil {
		return err
	}

	message := bumpMessage(current, next)
	log.Out("Current version(@%s): %s", m.Path, current)

	if dry {
		log.Out("%s (dry run, nothing written)", message)
		if commit {
			_, err := newExecutor(log, true).Execute(ctx, releaseCommands(p.root, part, message, next.String()), command.StopOnFailure)
			return err
		}
		return nil
	}

	var repo *git.Repository
	if commit {
		if repo, err = git.Open(p.root); err != nil {
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
	}

	if err := m.SetVersion(next.String()); err != nil {
		return err
	}
	if err := m.Save(); err != nil {
		return err
	}
	log.Out("%s", message)

	if err := hooks.NewExecutor(p.config, p.root).ExecutePostBumpHooks(ctx, log.Writer(), current.String(), next.String()); err != nil {
		return err
	}

	if !commit {
		if part != semver.Patch {
			log.Out("You may want to pin tag by `fast tag`")
		}
		return nil
	}

	return commitRelease(ctx, log, repo, p.manifest.Path, part, message, next.String())
}

// commitRelease commits the manifest, tags non-patch releases and pushes
func commitRelease(
	ctx context.Context, log *logging.Logger, repo *git.Repository, manifestPath string,
	part semver.Part, message, tag string,
) error {
	log.Command(fmt.Sprintf("git commit -m %q %s", message, manifestPath))
	if _, err := repo.Commit(message, manifestPath); err != nil {
		return err
	}
	if part != semver.Patch {
		log.Command(fmt.Sprintf("git tag -a %s -m %q", tag, message))
		if err := repo.CreateTag(tag, message); err != nil {
			return err
		}
	}

	result, err := newExecutor(log, false).Execute(ctx, pushCommands(repo.Path()), command.StopOnFailure)
	if err != nil {
		return err
	}
	return result.Err()
}

// releaseCommands is what --commit runs, as shown by --dry
func releaseCommands(root string, part semver.Part, message, tag string) []command.Command {
	cmds := []command.Command{
		{Name: "git", Args: []string{"commit", "-m", message}, WorkDir: root},
	}
	if part != semver.Patch {
		cmds = append(cmds, command.Command{Name: "git", Args: []string{"tag", "-a", tag, "-m", message}, WorkDir: root})
	}
	return append(cmds, pushCommands(root)...)
}

func pushCommands(root string) []command.Command {
	cmds := []command.Command{command.GitPush(false), command.GitPush(true), {Name: "git", Args: []string{"log", "-1"}}}
	for i := range cmds {
		cmds[i].WorkDir = root
	}
	return cmds
}

func bumpMessage(from, to semver.Version) string {
	return fmt.Sprintf("Bump version: %s → %s", from, to)
}
