package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/config"
	"github.com/fasttortoise/fast/internal/errors"
	"github.com/fasttortoise/fast/internal/manifest"
)

const configFileMode = 0o644

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates a .fast.yml configuration file next to pyproject.toml " +
			"with the default tool chain and example hooks.",
		OnUsageError: usageError,
		Action:       initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	if err := maxArgs(cmd, 0); err != nil {
		return err
	}

	cwd, err := osGetwd()
	if err != nil {
		return errors.DirectoryAccessFailed("access current", ".", err)
	}

	root, err := manifest.FindRoot(cwd)
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return errors.ConfigAlreadyExists(configPath)
	}

	if err := os.WriteFile(configPath, []byte(config.Template), configFileMode); err != nil {
		return errors.DirectoryAccessFailed("create configuration file", configPath, err)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "Configuration file created: %s\n", configPath)
	fmt.Fprintln(w, "Edit this file to customize the tool chain and hooks.")
	return nil
}
