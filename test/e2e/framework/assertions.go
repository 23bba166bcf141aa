package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output without '%s', got: %s", unexpected, output)
}

func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Solution:",
		"Tip:",
		"•",
		"Expected:",
		"Usage:",
	}

	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			return
		}
	}
	t.Errorf("Error message does not appear to be helpful. Got: %s", output)
}

func AssertMultipleStringsInOutput(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		assert.Contains(t, output, exp, "Expected output to contain '%s', got: %s", exp, output)
	}
}

func AssertNoError(t *testing.T, err error, output string) {
	t.Helper()
	assert.NoError(t, err, "Output: %s", output)
}

func AssertExitCode(t *testing.T, err error, expected int) {
	t.Helper()
	assert.Equal(t, expected, ExitCode(err), "Expected exit code %d, got error: %v", expected, err)
}

// AssertCalls checks the fake poetry invocations in order
func AssertCalls(t *testing.T, project *TestProject, expected ...string) {
	t.Helper()
	assert.Equal(t, expected, project.Calls())
}

func AssertNoCalls(t *testing.T, project *TestProject) {
	t.Helper()
	assert.Empty(t, project.Calls(), "Expected no tool to run")
}

func AssertFileExists(t *testing.T, project *TestProject, path string) {
	t.Helper()
	assert.True(t, project.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, project *TestProject, path string) {
	t.Helper()
	assert.False(t, project.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertFileContains(t *testing.T, project *TestProject, path, content string) {
	t.Helper()
	if !project.HasFile(path) {
		t.Errorf("File '%s' does not exist", path)
		return
	}
	fileContent := project.ReadFile(path)
	assert.Contains(t, fileContent, content, "Expected file '%s' to contain '%s', got: %s", path, content, fileContent)
}

func AssertManifestVersion(t *testing.T, project *TestProject, version string) {
	t.Helper()
	assert.Equal(t, Manifest(version), project.ReadFile("pyproject.toml"))
}

func AssertOriginHasTag(t *testing.T, project *TestProject, tag string) {
	t.Helper()
	assert.Contains(t, project.OriginTags(), tag)
}

func AssertOriginHasNoTags(t *testing.T, project *TestProject) {
	t.Helper()
	assert.Empty(t, project.OriginTags())
}

func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	assert.Equal(t, expected, actual)
}
