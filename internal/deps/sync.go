package deps

import (
	"os"
	"path/filepath"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/manifest"
)

// SyncOptions configures the export-and-install sequence
type SyncOptions struct {
	Requirements string   // file name, relative to WorkDir unless absolute
	WorkDir      string   // where the file is written and pip runs
	Extras       string   // passed to poetry export --extras
	Save         bool     // keep the requirements file afterwards
	Prefix       []string // prefix for pip, usually command.PoetryRun
}

// SyncPlan is the ordered list of steps for sync
type SyncPlan struct {
	Commands []command.Command
	// Cleanup is the file to delete after a successful install, or ""
	Cleanup string
}

// PlanSync exports the declared groups to a pinned requirements file and
// installs it. The file is removed afterwards only if it did not exist
// before and Save is false.
func PlanSync(m *manifest.Manifest, opts SyncOptions) SyncPlan {
	target := opts.Requirements
	if !filepath.IsAbs(target) && opts.WorkDir != "" {
		target = filepath.Join(opts.WorkDir, target)
	}

	export := command.PoetryExport(opts.Requirements, command.PoetryExportOptions{
		WithDev: m.Dependencies().HasDev,
		Extras:  opts.Extras,
	})
	install := command.PipInstall(opts.Prefix, opts.Requirements)
	export.WorkDir = opts.WorkDir
	install.WorkDir = opts.WorkDir

	plan := SyncPlan{Commands: []command.Command{export, install}}
	if _, err := os.Stat(target); os.IsNotExist(err) && !opts.Save {
		plan.Cleanup = target
	}
	return plan
}
