package e2e

import (
	"testing"

	"github.com/fasttortoise/fast/test/e2e/framework"
)

func TestErrorMessages(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	t.Run("UnknownCommand", func(t *testing.T) {
		project := env.CreateProject("error-unknown", "1.0.0")

		output, err := project.RunFast("deploy")
		framework.AssertExitCode(t, err, 2)
		framework.AssertOutputContains(t, output, "unknown command: 'deploy'")
		framework.AssertHelpfulError(t, output)
		framework.AssertNoCalls(t, project)
		framework.AssertManifestVersion(t, project, "1.0.0")
	})

	t.Run("ManifestNotFound", func(t *testing.T) {
		output, err := env.RunFast("lint")
		framework.AssertExitCode(t, err, 1)
		framework.AssertOutputContains(t, output, "pyproject.toml not found")
	})

	t.Run("InvalidBumpPart", func(t *testing.T) {
		project := env.CreateProject("error-part", "1.0.0")

		output, err := project.RunFast("bump", "build")
		framework.AssertExitCode(t, err, 2)
		framework.AssertOutputContains(t, output, "invalid part: 'build'")
		framework.AssertManifestVersion(t, project, "1.0.0")
	})

	t.Run("InvalidVersion", func(t *testing.T) {
		project := env.CreateProject("error-version", "1.0")

		output, err := project.RunFast("bump")
		framework.AssertExitCode(t, err, 1)
		framework.AssertOutputContains(t, output, "invalid version '1.0'")
	})

	t.Run("CommitOutsideRepository", func(t *testing.T) {
		project := env.CreateProject("error-no-repo", "1.0.0")

		output, err := project.RunFast("bump", "--commit")
		framework.AssertExitCode(t, err, 1)
		framework.AssertOutputContains(t, output, "not in a git repository")
		framework.AssertHelpfulError(t, output)
		framework.AssertManifestVersion(t, project, "1.0.0")
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		project := env.CreateProject("error-config", "1.0.0")
		project.WriteConfig("lint: [unterminated\n")

		output, err := project.RunFast("lint")
		framework.AssertExitCode(t, err, 1)
		framework.AssertOutputContains(t, output, "failed to load configuration")
		framework.AssertNoCalls(t, project)
	})
}
