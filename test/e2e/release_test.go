package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/fasttortoise/fast/test/e2e/framework"
)

func TestBumpCommand(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	t.Run("WritesManifestOnly", func(t *testing.T) {
		project := env.CreateProject("bump-plain", "1.2.3")

		output, err := project.RunFast("bump", "minor")
		framework.AssertNoError(t, err, output)
		framework.AssertManifestVersion(t, project, "1.3.0")
		framework.AssertOutputContains(t, output, "Bump version: 1.2.3 → 1.3.0")
		framework.AssertOutputContains(t, output, "fast tag")
		framework.AssertNoCalls(t, project)
	})

	t.Run("CommitTagAndPush", func(t *testing.T) {
		project := env.CreateRepoProject("bump-release", "1.2.3")

		output, err := project.RunFast("bump", "major", "--commit")
		framework.AssertNoError(t, err, output)
		framework.AssertManifestVersion(t, project, "2.0.0")
		framework.AssertEqual(t, "Bump version: 1.2.3 → 2.0.0", project.LastCommitMessage())
		framework.AssertEqual(t, project.Head(), project.OriginHead())
		framework.AssertOriginHasTag(t, project, "2.0.0")
		framework.AssertEqual(t, "", project.GitStatus())
	})

	t.Run("PatchIsNotTagged", func(t *testing.T) {
		project := env.CreateRepoProject("bump-patch", "1.2.3")

		output, err := project.RunFast("bump", "--commit")
		framework.AssertNoError(t, err, output)
		framework.AssertEqual(t, project.Head(), project.OriginHead())
		framework.AssertOriginHasNoTags(t, project)
	})

	t.Run("PostBumpHookOutputIsStreamed", func(t *testing.T) {
		project := env.CreateProject("bump-hook", "0.1.0")

		config := map[string]any{
			"version": "1.0",
			"hooks": map[string]any{
				"post_bump": []map[string]any{
					{"command": "echo \"released $FAST_NEW_VERSION\"; echo $FAST_OLD_VERSION > previous.txt"},
				},
			},
		}
		configData, err := yaml.Marshal(config)
		framework.AssertNoError(t, err, "")
		framework.AssertNoError(t, os.WriteFile(filepath.Join(project.Path(), ".fast.yml"), configData, 0644), "")

		output, err := project.RunFast("bump", "2")
		framework.AssertNoError(t, err, output)
		framework.AssertOutputContains(t, output, "released 0.2.0")
		framework.AssertFileContains(t, project, "previous.txt", "0.1.0")
	})
}

func TestTagCommand(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	defer env.Cleanup()

	t.Run("TagsAndPushes", func(t *testing.T) {
		project := env.CreateRepoProject("tag-clean", "0.4.0")

		output, err := project.RunFast("tag")
		framework.AssertNoError(t, err, output)
		framework.AssertOriginHasTag(t, project, "0.4.0")
		framework.AssertOutputContains(t, output, "poetry publish --build")
	})

	t.Run("PushesBranchWhenAhead", func(t *testing.T) {
		project := env.CreateRepoProject("tag-ahead", "0.4.0")
		project.WriteFile("CHANGELOG.md", "# 0.4.0\n")
		project.Commit("Add changelog")

		output, err := project.RunFast("tag")
		framework.AssertNoError(t, err, output)
		framework.AssertOutputContains(t, output, "--> git push\n")
		framework.AssertEqual(t, project.Head(), project.OriginHead())
	})

	t.Run("DirtyTree", func(t *testing.T) {
		project := env.CreateRepoProject("tag-dirty", "0.4.0")
		project.WriteFile("app/main.py", "print('wip')\n")

		output, err := project.RunFast("tag")
		framework.AssertExitCode(t, err, 1)
		framework.AssertOutputContains(t, output, "working tree is not clean")
		framework.AssertOriginHasNoTags(t, project)
	})
}
