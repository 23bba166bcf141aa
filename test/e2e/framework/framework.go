package framework

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600
	execPerm = 0755

	callLogName = "calls.log"
)

// fakePoetry records its arguments and fails when any word listed in
// FAST_E2E_FAIL appears among them. poetry export writes the -o file.
const fakePoetry = `#!/bin/sh
echo "poetry $*" >> "$FAST_E2E_LOG"
for word in $FAST_E2E_FAIL; do
  case " $* " in
    *" $word "*) echo "$word failed"; exit 1 ;;
  esac
done
if [ "$1" = "export" ]; then
  for arg in "$@"; do out=$arg; done
  echo "fastapi==0.103.1" > "$out"
fi
echo "ok: $*"
`

type TestEnvironment struct {
	t          *testing.T
	tmpDir     string
	binDir     string
	fastBinary string
	cleanup    []func()
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("e2e tests rely on POSIX shell scripts")
	}

	tmpDir := t.TempDir()
	env := &TestEnvironment{
		t:       t,
		tmpDir:  tmpDir,
		binDir:  filepath.Join(tmpDir, "bin"),
		cleanup: []func(){},
	}

	env.buildFast()
	env.installFakeTools()

	return env
}

func (e *TestEnvironment) buildFast() {
	e.t.Helper()

	fastBinary := filepath.Join(e.tmpDir, "fast")
	if prebuilt := os.Getenv("FAST_E2E_BINARY"); prebuilt != "" {
		fastBinary = prebuilt
		if _, err := os.Stat(fastBinary); err != nil {
			e.t.Fatalf("Specified fast binary not found: %s", fastBinary)
		}
	} else {
		projectRoot := e.findProjectRoot()
		cmd := exec.Command("go", "build", "-o", fastBinary, "./cmd/fast")
		cmd.Dir = projectRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build fast binary: %v\nOutput: %s", err, output)
		}
	}

	fastBinary = filepath.Clean(fastBinary)
	if !filepath.IsAbs(fastBinary) {
		absPath, err := filepath.Abs(fastBinary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		fastBinary = absPath
	}

	e.fastBinary = fastBinary
}

func (e *TestEnvironment) installFakeTools() {
	e.t.Helper()

	if err := os.MkdirAll(e.binDir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create %s: %v", e.binDir, err)
	}
	path := filepath.Join(e.binDir, "poetry")
	if err := os.WriteFile(path, []byte(fakePoetry), execPerm); err != nil {
		e.t.Fatalf("Failed to install fake poetry: %v", err)
	}
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// CreateProject creates a poetry project declaring version with an app
// package, without version control.
func (e *TestEnvironment) CreateProject(name, version string) *TestProject {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	e.writeFile(filepath.Join(dir, "pyproject.toml"), Manifest(version))
	e.writeFile(filepath.Join(dir, "app", "__init__.py"), "")

	return &TestProject{env: e, path: dir}
}

// CreateRepoProject creates a project, commits it and connects it to a bare
// origin so pushes have somewhere to go.
func (e *TestEnvironment) CreateRepoProject(name, version string) *TestProject {
	e.t.Helper()

	p := e.CreateProject(name, version)
	origin := filepath.Join(e.tmpDir, name+"-origin.git")

	e.run("git", "init", "--bare", origin)
	e.runInDir(p.path, "git", "init")
	e.runInDir(p.path, "git", "config", "user.name", "Test User")
	e.runInDir(p.path, "git", "config", "user.email", "test@example.com")
	e.runInDir(p.path, "git", "add", ".")
	e.runInDir(p.path, "git", "commit", "-m", "Initial commit")
	e.runInDir(p.path, "git", "branch", "-M", "main")
	e.runInDir(p.path, "git", "remote", "add", "origin", origin)
	e.runInDir(p.path, "git", "push", "-u", "origin", "main")

	p.origin = origin
	return p
}

// CreateEmptyDir creates a directory with no pyproject.toml anywhere above
// it inside the test sandbox.
func (e *TestEnvironment) CreateEmptyDir(name string) *TestProject {
	e.t.Helper()

	dir := filepath.Join(e.tmpDir, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory: %v", err)
	}
	return &TestProject{env: e, path: dir}
}

func (e *TestEnvironment) run(command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed: %s %s\nOutput: %s\nError: %v",
			command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) runInDir(dir, command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+e.tmpDir, "GIT_CONFIG_NOSYSTEM=1")
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed in %s: %s %s\nOutput: %s\nError: %v",
			dir, command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// RunFast runs fast outside of any project
func (e *TestEnvironment) RunFast(args ...string) (string, error) {
	return e.CreateEmptyDir("outside").RunFast(args...)
}

func (e *TestEnvironment) TmpDir() string {
	return e.tmpDir
}

func (e *TestEnvironment) Cleanup() {
	for _, fn := range e.cleanup {
		fn()
	}
}

type TestProject struct {
	env    *TestEnvironment
	path   string
	origin string
	failOn []string
}

// FailOn makes the fake poetry exit 1 whenever one of words is among its
// arguments.
func (p *TestProject) FailOn(words ...string) {
	p.failOn = append(p.failOn, words...)
}

func (p *TestProject) RunFast(args ...string) (string, error) {
	for _, arg := range args {
		if err := validateArg(arg); err != nil {
			return "", fmt.Errorf("invalid argument: %w", err)
		}
	}

	cmd := createSafeCommand(p.env.fastBinary, args...)
	cmd.Dir = p.path
	cmd.Env = append(cleanEnviron(),
		"HOME="+p.env.tmpDir,
		"GIT_CONFIG_NOSYSTEM=1",
		"PATH="+p.env.binDir+string(os.PathListSeparator)+os.Getenv("PATH"),
		"FAST_E2E_LOG="+filepath.Join(p.env.tmpDir, callLogName),
		"FAST_E2E_FAIL="+strings.Join(p.failOn, " "),
	)

	_ = os.Remove(filepath.Join(p.env.tmpDir, callLogName))
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// Calls returns the fake poetry invocations of the last RunFast
func (p *TestProject) Calls() []string {
	data, err := os.ReadFile(filepath.Join(p.env.tmpDir, callLogName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		p.env.t.Fatalf("Failed to read call log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (p *TestProject) Path() string {
	return p.path
}

func (p *TestProject) Subdir(name string) *TestProject {
	dir := filepath.Join(p.path, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		p.env.t.Fatalf("Failed to create directory: %v", err)
	}
	return &TestProject{env: p.env, path: dir, origin: p.origin, failOn: p.failOn}
}

func (p *TestProject) WriteConfig(content string) {
	p.env.writeFile(filepath.Join(p.path, ".fast.yml"), content)
}

func (p *TestProject) WriteFile(name, content string) {
	p.env.writeFile(filepath.Join(p.path, name), content)
}

func (p *TestProject) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(p.path, path))
	return err == nil
}

func (p *TestProject) ReadFile(path string) string {
	content, err := os.ReadFile(filepath.Join(p.path, path))
	if err != nil {
		p.env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func (p *TestProject) Commit(message string) {
	p.env.runInDir(p.path, "git", "add", ".")
	p.env.runInDir(p.path, "git", "commit", "-m", message)
}

func (p *TestProject) GitStatus() string {
	return p.env.runInDir(p.path, "git", "status", "--porcelain")
}

func (p *TestProject) LastCommitMessage() string {
	return strings.TrimSpace(p.env.runInDir(p.path, "git", "log", "-1", "--format=%s"))
}

// OriginTags lists the tags the bare origin received
func (p *TestProject) OriginTags() []string {
	if p.origin == "" {
		return nil
	}
	output := strings.TrimSpace(p.env.runInDir(p.origin, "git", "tag", "--list"))
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

// OriginHead returns the commit main points at in origin
func (p *TestProject) OriginHead() string {
	return strings.TrimSpace(p.env.runInDir(p.origin, "git", "rev-parse", "main"))
}

func (p *TestProject) Head() string {
	return strings.TrimSpace(p.env.runInDir(p.path, "git", "rev-parse", "HEAD"))
}

// Manifest returns a pyproject.toml for version
func Manifest(version string) string {
	return fmt.Sprintf(`[tool.poetry]
name = "demo"
version = "%s"

[tool.poetry.dependencies]
python = "^3.11"
fastapi = "^0.103.1"
httpx = "0.25.0"

[tool.poetry.group.dev.dependencies]
pytest = "^7.4"
`, version)
}

// ExitCode extracts the process exit code from a RunFast error
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// cleanEnviron drops variables that change how fast picks tool prefixes
func cleanEnviron() []string {
	var env []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "VIRTUAL_ENV", "NO_FIX", "SKIP_MYPY", "PATH", "HOME":
			continue
		}
		env = append(env, kv)
	}
	return env
}

// validateArg checks if an argument is safe to pass to exec.Command
func validateArg(arg string) error {
	if arg == "" {
		return nil
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\n", "\r"}
	for _, char := range dangerousChars {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains potentially dangerous character: %s", char)
		}
	}

	return nil
}

// createSafeCommand creates an exec.Cmd with a validated binary path
func createSafeCommand(binary string, args ...string) *exec.Cmd {
	return exec.Command(binary, args...)
}
