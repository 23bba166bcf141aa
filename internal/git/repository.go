// Package git wraps the repository operations fast needs for releases:
// status, commit and annotated tags. Pushing is left to the git binary so the
// user's credentials and remotes are used as configured.
package git

import (
	stderrors "errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/fasttortoise/fast/internal/errors"
)

const (
	defaultUserName  = "fast"
	defaultUserEmail = "fast@localhost"
)

type Repository struct {
	repo *gogit.Repository
	path string
}

// Open finds the repository containing path, walking up to its worktree root
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.NotInGitRepository()
		}
		return nil, errors.GitOperationFailed("open", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.GitOperationFailed("open", err)
	}

	return &Repository{repo: repo, path: wt.Filesystem.Root()}, nil
}

// Path returns the worktree root
func (r *Repository) Path() string {
	return r.path
}

// Status returns whether the worktree is clean and a short status listing
func (r *Repository) Status() (bool, string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, "", errors.GitOperationFailed("status", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, "", errors.GitOperationFailed("status", err)
	}
	return status.IsClean(), status.String(), nil
}

// Commit stages files (absolute or relative to the worktree root) and
// commits them with message.
func (r *Repository) Commit(message string, files ...string) (plumbing.Hash, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, errors.GitOperationFailed("commit", err)
	}

	for _, file := range files {
		rel := file
		if filepath.IsAbs(file) {
			if rel, err = filepath.Rel(r.path, file); err != nil {
				return plumbing.ZeroHash, errors.GitOperationFailed("add", err)
			}
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return plumbing.ZeroHash, errors.GitOperationFailed("add", err)
		}
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: r.signature()})
	if err != nil {
		return plumbing.ZeroHash, errors.GitOperationFailed("commit", err)
	}
	return hash, nil
}

// CreateTag creates an annotated tag on HEAD. An empty message falls back
// to the tag name.
func (r *Repository) CreateTag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return errors.GitOperationFailed("tag", err)
	}
	if strings.TrimSpace(message) == "" {
		message = name
	}

	_, err = r.repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
		Tagger:  r.signature(),
		Message: message,
	})
	if err != nil {
		return errors.GitOperationFailed("tag", err)
	}
	return nil
}

// signature uses user.name and user.email from the repository config, then
// the global config.
func (r *Repository) signature() *object.Signature {
	sig := &object.Signature{When: time.Now()}

	for _, scope := range []gitconfig.Scope{gitconfig.LocalScope, gitconfig.GlobalScope} {
		cfg, err := r.repo.ConfigScoped(scope)
		if err != nil {
			continue
		}
		if sig.Name == "" {
			sig.Name = cfg.User.Name
		}
		if sig.Email == "" {
			sig.Email = cfg.User.Email
		}
	}

	if sig.Name == "" {
		sig.Name = defaultUserName
	}
	if sig.Email == "" {
		sig.Email = defaultUserEmail
	}
	return sig
}

// ParseAhead returns how many commits the branch is ahead of its upstream,
// from the output of "git status --porcelain=v2 --branch".
func ParseAhead(porcelain string) int {
	for _, line := range strings.Split(porcelain, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# branch.ab ")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return 0
		}
		ahead, err := strconv.Atoi(strings.TrimPrefix(fields[0], "+"))
		if err != nil {
			return 0
		}
		return ahead
	}
	return 0
}
