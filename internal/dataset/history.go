package dataset

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryOptions configures git-backed dataset history.
type HistoryOptions struct {
	// Init creates a repository in the dataset directory when none is found.
	Init        bool
	AuthorName  string
	AuthorEmail string
}

// Revision is a single recorded dataset change.
type Revision struct {
	Hash    string
	Message string
	When    time.Time
}

// History records dataset saves as git commits.
type History struct {
	repo   *git.Repository
	root   string
	author string
	email  string
}

// OpenHistory locates the git repository containing datasetPath.
func OpenHistory(datasetPath string, opts HistoryOptions) (*History, error) {
	dir, err := filepath.Abs(filepath.Dir(datasetPath))
	if err != nil {
		return nil, fmt.Errorf("resolve dataset directory: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) && opts.Init {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	name := opts.AuthorName
	if name == "" {
		name = "dsxform"
	}
	email := opts.AuthorEmail
	if email == "" {
		email = "dsxform@localhost"
	}

	return &History{repo: repo, root: wt.Filesystem.Root(), author: name, email: email}, nil
}

// Commit stages path and records a commit. A save that changed nothing returns "".
func (h *History) Commit(path, message string) (string, error) {
	rel, err := h.relative(path)
	if err != nil {
		return "", err
	}

	wt, err := h.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return "", fmt.Errorf("stage %s: %w", rel, err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: h.author, Email: h.email, When: time.Now()},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("commit %s: %w", rel, err)
	}
	return hash.String(), nil
}

// Log returns up to limit revisions touching path, newest first. limit <= 0 means all.
func (h *History) Log(path string, limit int) ([]Revision, error) {
	rel, err := h.relative(path)
	if err != nil {
		return nil, err
	}

	iter, err := h.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	var revisions []Revision
	for {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		revisions = append(revisions, Revision{
			Hash:    c.Hash.String(),
			Message: c.Message,
			When:    c.Author.When,
		})
		if limit > 0 && len(revisions) >= limit {
			break
		}
	}
	return revisions, nil
}

func (h *History) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	root, err := filepath.EvalSymlinks(h.root)
	if err != nil {
		root = h.root
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("dataset %s is outside repository %s: %w", path, h.root, err)
	}
	return filepath.ToSlash(rel), nil
}
