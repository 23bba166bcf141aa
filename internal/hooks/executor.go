package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fasttortoise/fast/internal/config"
	"github.com/fasttortoise/fast/internal/errors"
)

const (
	EnvOldVersion  = "FAST_OLD_VERSION"
	EnvNewVersion  = "FAST_NEW_VERSION"
	EnvProjectRoot = "FAST_PROJECT_ROOT"

	hookTypeCommand = "command"
)

// Executor handles hook execution
type Executor struct {
	config      *config.Config
	projectRoot string
}

// NewExecutor creates a new hook executor
func NewExecutor(cfg *config.Config, projectRoot string) *Executor {
	return &Executor{
		config:      cfg,
		projectRoot: projectRoot,
	}
}

// ExecutePostBumpHooks runs every post-bump hook in order and streams their
// output to w. The first failing hook stops the sequence.
func (e *Executor) ExecutePostBumpHooks(ctx context.Context, w io.Writer, oldVersion, newVersion string) error {
	if !e.config.HasHooks() {
		return nil
	}

	env := []string{
		fmt.Sprintf("%s=%s", EnvOldVersion, oldVersion),
		fmt.Sprintf("%s=%s", EnvNewVersion, newVersion),
		fmt.Sprintf("%s=%s", EnvProjectRoot, e.projectRoot),
	}

	for i, hook := range e.config.Hooks.PostBump {
		if err := e.executeCommandHook(ctx, w, &hook, env); err != nil {
			return errors.HookExecutionFailed(i, hookTypeCommand, err)
		}
	}

	return nil
}

// executeCommandHook runs a hook through the platform shell
func (e *Executor) executeCommandHook(ctx context.Context, w io.Writer, hook *config.Hook, extraEnv []string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		// #nosec G204 - Commands come from project configuration file controlled by developer
		cmd = exec.CommandContext(ctx, "cmd", "/c", hook.Command)
	} else {
		// #nosec G204 - Commands come from project configuration file controlled by developer
		cmd = exec.CommandContext(ctx, "sh", "-c", hook.Command)
	}

	workDir := hook.WorkDir
	if workDir == "" {
		workDir = e.projectRoot
	} else if !filepath.IsAbs(workDir) {
		workDir = filepath.Join(e.projectRoot, workDir)
	}
	cmd.Dir = workDir

	cmd.Env = os.Environ()
	for key, value := range hook.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = append(cmd.Env, extraEnv...)

	fmt.Fprintf(w, "  Running: %s\n", hook.Command)

	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
