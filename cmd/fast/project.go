package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/config"
	"github.com/fasttortoise/fast/internal/errors"
	fastio "github.com/fasttortoise/fast/internal/io"
	"github.com/fasttortoise/fast/internal/logging"
	"github.com/fasttortoise/fast/internal/manifest"
)

// Variables to allow mocking in tests
var (
	osGetwd  = os.Getwd
	getenv   = os.Getenv
	lookPath = exec.LookPath
	newShell = command.NewRealShellExecutor
)

// project is the poetry project fast was started in
type project struct {
	root     string
	cwd      string
	manifest *manifest.Manifest
	config   *config.Config
}

func loadProject() (*project, error) {
	cwd, err := osGetwd()
	if err != nil {
		return nil, errors.DirectoryAccessFailed("access current", ".", err)
	}

	root, err := manifest.FindRoot(cwd)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(filepath.Join(root, manifest.FileName))
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, errors.ConfigLoadFailed(filepath.Join(root, config.ConfigFileName), err)
	}

	return &project{root: root, cwd: cwd, manifest: m, config: cfg}, nil
}

// newLogger builds the logger writing to the root command's writers
func newLogger(cmd *cli.Command) *logging.Logger {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	errW := cmd.Root().ErrWriter
	if errW == nil {
		errW = os.Stderr
	}
	return logging.NewLogger(w, errW, cmd.Root().Bool("verbose"))
}

// newExecutor returns the dry-run executor when dry is set, otherwise one
// that runs real processes and relays their output as it arrives.
func newExecutor(log *logging.Logger, dry bool) command.Executor {
	if dry {
		return command.NewDryRunExecutor(log)
	}
	return command.NewExecutor(newShell(), log, fastio.NewFlushingWriter(log.Writer()))
}
