// Package testutil provides helpers shared across tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	TestUserName  = "Test User"
	TestUserEmail = "test@example.com"
)

// PoetryManifest returns a minimal pyproject.toml declaring version
func PoetryManifest(version string) string {
	return fmt.Sprintf(`[tool.poetry]
name = "demo"
version = "%s"
description = ""

[tool.poetry.dependencies]
python = "^3.11"
fastapi = "^0.103.1"
httpx = "0.25.0"

[tool.poetry.group.dev.dependencies]
pytest = "^7.4"
`, version)
}

// WriteFile writes content to dir/name and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// InitRepo turns dir into a git repository with a configured test user and
// commits everything already in it.
func InitRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("failed to read repository config: %v", err)
	}
	cfg.User.Name = TestUserName
	cfg.User.Email = TestUserEmail
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("failed to write repository config: %v", err)
	}

	CommitAll(t, repo, "Initial commit")
	return repo
}

// CommitAll stages every change in the worktree and commits it
func CommitAll(t *testing.T, repo *gogit.Repository, message string) {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage changes: %v", err)
	}
	_, err = wt.Commit(message, &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  TestUserName,
			Email: TestUserEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}
