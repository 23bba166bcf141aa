package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasttortoise/fast/internal/command"
	"github.com/fasttortoise/fast/internal/manifest"
)

const upgradeManifest = `[tool.poetry]
name = "demo"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.11"
bumpversion = "*"
fastapi = {extras = ["all"], version = "*"}
ipython = "^8.15.0"
tortoise-orm = {extras = ["asyncpg", "aiomysql"], version = "^0.20"}
gunicorn = {version = "^21.2.0", platform = "linux"}
orjson = {version = "^3.9.7", source = "jumping"}
anyio = {version = ">=3.7.1", optional = true}
typer = {extras = ["all"], version = "^0.9.0", optional = true}
uvicorn = {version = "^0.23.2", platform = "linux", optional = true}
httpx = "0.25.0"
starlette = "==0.27.0"
pydantic = "<3"
mylib = {git = "https://github.com/example/mylib.git"}
other = {url = "https://example.com/other.tar.gz"}

[tool.poetry.group.dev.dependencies]
coveralls = "^3.3.1"
pytest-mock = "~3.11"
pytest = {version = "^7.4", platform = "linux"}

[build-system]
requires = ["poetry-core"]
`

func parse(t *testing.T, content string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse(manifest.FileName, []byte(content))
	require.NoError(t, err)
	return m
}

func commandLines(cmds []command.Command) []string {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, c.String())
	}
	return lines
}

func TestPlanUpgrade(t *testing.T) {
	plan, err := PlanUpgrade(parse(t, upgradeManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"ipython@latest", "tortoise-orm[asyncpg,aiomysql]@latest"}, plan.Main)
	assert.Equal(t, []string{"coveralls@latest", "pytest-mock@latest"}, plan.Dev)
	assert.Equal(t, []Group{
		{Flags: []string{"--platform=linux"}, Packages: []string{"gunicorn@latest"}},
		{Flags: []string{"--source=jumping"}, Packages: []string{"orjson@latest"}},
		{Flags: []string{"--optional"}, Packages: []string{"typer[all]@latest"}},
		{Flags: []string{"--platform=linux", "--optional"}, Packages: []string{"uvicorn@latest"}},
		{Flags: []string{"--platform=linux"}, Packages: []string{"pytest@latest"}, Trailing: []string{"--group", "dev"}},
	}, plan.Special)

	assert.Equal(t, []string{
		"poetry add ipython@latest tortoise-orm[asyncpg,aiomysql]@latest",
		"poetry add --group dev coveralls@latest pytest-mock@latest",
		"poetry add --platform=linux gunicorn@latest",
		"poetry add --source=jumping orjson@latest",
		"poetry add --optional typer[all]@latest",
		"poetry add --platform=linux --optional uvicorn@latest",
		"poetry add --platform=linux pytest@latest --group dev",
	}, commandLines(plan.Commands()))
}

func TestPlanUpgradeLeavesPinsAlone(t *testing.T) {
	plan, err := PlanUpgrade(parse(t, upgradeManifest))
	require.NoError(t, err)

	skipped := map[string]string{}
	for _, s := range plan.Skipped {
		skipped[s.Dependency.Name] = s.Reason
	}

	assert.Equal(t, "interpreter constraint", skipped["python"])
	assert.Equal(t, "wildcard", skipped["bumpversion"])
	assert.Equal(t, "wildcard", skipped["fastapi"])
	assert.Equal(t, "pinned or bounded version", skipped["anyio"])
	assert.Equal(t, "pinned or bounded version", skipped["httpx"])
	assert.Equal(t, "pinned or bounded version", skipped["starlette"])
	assert.Equal(t, "pinned or bounded version", skipped["pydantic"])
	assert.Equal(t, "url/git/path dependency", skipped["mylib"])
	assert.Equal(t, "url/git/path dependency", skipped["other"])

	for _, cmd := range plan.Commands() {
		for _, pinned := range []string{"httpx", "starlette", "pydantic", "anyio", "python"} {
			assert.NotContains(t, cmd.Args, pinned+"@latest")
		}
	}
}

func TestPlanUpgradeLegacyDevFlag(t *testing.T) {
	content := `[tool.poetry.dependencies]
anyio = "^4.0"

[tool.poetry.dev-dependencies]
pytest = {version = "^4.0", platform = "linux"}
`
	plan, err := PlanUpgrade(parse(t, content))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"poetry add anyio@latest",
		"poetry add --platform=linux pytest@latest --dev",
	}, commandLines(plan.Commands()))
}

func TestPlanUpgradeNothingToDo(t *testing.T) {
	plan, err := PlanUpgrade(parse(t, "[tool.poetry.dependencies]\npython = \"^3.11\"\n"))
	require.NoError(t, err)

	assert.Empty(t, plan.Commands())
	assert.Len(t, plan.Skipped, 1)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		text    string
		want    Dependency
		wantErr bool
	}{
		{
			text: `typer = {extras = ["all"], version = "^0.9.0", optional = true}`,
			want: Dependency{Name: "typer", Constraint: "^0.9.0", Extras: []string{"all"}, Optional: true},
		},
		{
			text: `"quoted-name" = "^1.0"  # comment`,
			want: Dependency{Name: "quoted-name", Constraint: "^1.0"},
		},
		{
			text: `foo = [{version = "^1", python = "<3.9"}, {version = "^2", python = ">=3.9"}]`,
			want: Dependency{Name: "foo", multiple: true},
		},
		{text: "[tool.isort]", wantErr: true},
		{text: `broken = {version = "^1"`, wantErr: true},
		{text: ` = "^1"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			line := manifest.Line{Number: 1, Text: tt.text}
			got, err := ParseLine(manifest.FileName, line)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "cannot parse dependency line")
				return
			}
			require.NoError(t, err)
			tt.want.Line = line
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanUpgradeUnusualValues(t *testing.T) {
	plan, err := PlanUpgrade(parse(t, "[tool.poetry.dependencies]\nfoo = 1\n"))
	require.NoError(t, err)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "multiple constraints", plan.Skipped[0].Reason)

	// multi-line values are valid TOML but cannot be edited per line
	m := parse(t, "[tool.poetry.dependencies]\nfoo = [\n  {version = \"^1\"},\n]\n")
	_, err = PlanUpgrade(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foo = [")
}

func TestPlanSync(t *testing.T) {
	t.Run("temporary file with dev group", func(t *testing.T) {
		dir := t.TempDir()
		m := parse(t, upgradeManifest)

		plan := PlanSync(m, SyncOptions{Requirements: "req.txt", WorkDir: dir, Prefix: command.PoetryRun})

		assert.Equal(t, []string{
			"poetry export --with=dev --without-hashes -o req.txt",
			"poetry run pip install -r req.txt",
		}, commandLines(plan.Commands))
		assert.Equal(t, filepath.Join(dir, "req.txt"), plan.Cleanup)
		for _, c := range plan.Commands {
			assert.Equal(t, dir, c.WorkDir)
		}
	})

	t.Run("extras without dev group", func(t *testing.T) {
		dir := t.TempDir()
		m := parse(t, "[tool.poetry]\nversion = \"0.1.0\"\n\n[tool.poetry.dependencies]\nclick = \">=7.1.1\"\n")

		plan := PlanSync(m, SyncOptions{Requirements: "req.txt", WorkDir: dir, Extras: "all", Prefix: command.PoetryRun})

		assert.Equal(t, "poetry export --extras=all --without-hashes -o req.txt", plan.Commands[0].String())
	})

	t.Run("save keeps the file", func(t *testing.T) {
		dir := t.TempDir()

		plan := PlanSync(parse(t, upgradeManifest), SyncOptions{Requirements: "req.txt", WorkDir: dir, Save: true})

		assert.Empty(t, plan.Cleanup)
		assert.Equal(t, "pip install -r req.txt", plan.Commands[1].String())
	})

	t.Run("existing file is never removed", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "req.txt"), []byte("x==1\n"), 0o644))

		plan := PlanSync(parse(t, upgradeManifest), SyncOptions{Requirements: "req.txt", WorkDir: dir})

		assert.Empty(t, plan.Cleanup)
	})
}

func TestPlanUpgradeKeepsFileOrder(t *testing.T) {
	plan, err := PlanUpgrade(parse(t, upgradeManifest))
	require.NoError(t, err)

	joined := strings.Join(plan.Main, " ")
	assert.Less(t, strings.Index(joined, "ipython"), strings.Index(joined, "tortoise-orm"))
}
