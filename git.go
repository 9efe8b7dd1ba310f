package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// gitMover stages renames of tracked files in their git work tree, like `git mv`.
// Anything git cannot move (no repository, untracked, directories) goes
// through the fallback mover instead.
type gitMover struct {
	fallback Mover
	logger   *zap.Logger
	trees    map[string]*git.Worktree // Keyed by the directory the lookup started from
}

func newGitMover(fallback Mover, logger *zap.Logger) *gitMover {
	if fallback == nil {
		fallback = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gitMover{fallback: fallback, logger: logger, trees: make(map[string]*git.Worktree)}
}

// Rename implements Mover.
func (g *gitMover) Rename(oldname, newname string) error {
	from, err := filepath.Abs(oldname)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", oldname, err)
	}
	to, err := filepath.Abs(newname)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", newname, err)
	}

	wt, err := g.worktreeFor(filepath.Dir(from))
	if err != nil {
		return err
	}
	if wt == nil {
		return g.fallback.Rename(oldname, newname)
	}

	root := wt.Filesystem.Root()
	relFrom, okFrom := relativeTo(root, from)
	relTo, okTo := relativeTo(root, to)
	if !okFrom || !okTo {
		return g.fallback.Rename(oldname, newname)
	}

	if _, err := wt.Move(relFrom, relTo); err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			// Untracked files and directories are not in the index.
			g.logger.Debug("not tracked, plain rename", zap.String("path", relFrom))
			return g.fallback.Rename(oldname, newname)
		}
		return fmt.Errorf("git mv %s: %w", relFrom, err)
	}
	g.logger.Debug("staged rename", zap.String("root", root), zap.String("from", relFrom), zap.String("to", relTo))
	return nil
}

// worktreeFor returns the work tree containing dir, or nil when dir is not
// inside a repository.
func (g *gitMover) worktreeFor(dir string) (*git.Worktree, error) {
	if wt, ok := g.trees[dir]; ok {
		return wt, nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			g.trees[dir] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			g.trees[dir] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("opening work tree at %s: %w", dir, err)
	}
	g.trees[dir] = wt
	return wt, nil
}

// relativeTo returns path relative to root in slash form, and false when
// path lies outside root.
func relativeTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
