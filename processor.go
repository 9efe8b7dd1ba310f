package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// candidateFilter controls which paths are offered by the interactive picker.
type candidateFilter struct {
	showHidden bool
	noIgnore   bool
	excludes   []string // Glob patterns matched against base names
}

// collectCandidates walks root and returns the files and directories that pass
// the filter, in walk order. Errors on single paths are logged and skipped.
func collectCandidates(root string, filter candidateFilter, logger *zap.Logger) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	// The matcher works on absolute paths below the .gitignore's directory.
	var ignoreMatcher gitignore.IgnoreMatcher
	if !filter.noIgnore {
		gitIgnorePath := filepath.Join(absRoot, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				logger.Warn("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	var candidates []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error accessing path", zap.String("path", path), zap.Error(err))
			return nil // Report and continue
		}
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		if isDir && baseName == ".git" {
			return fs.SkipDir
		}

		if !filter.showHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(filepath.Join(absRoot, relativePath(root, path)), isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		excluded, err := matchesAnyPattern(baseName, filter.excludes)
		if err != nil {
			return err // Same pattern would fail for every path
		}
		if excluded {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return candidates, nil
}

// relativePath returns path relative to root, or path itself when it cannot be made relative.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// parsePatterns splits a comma-separated string of patterns into a slice.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(patterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden checks if a base name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	baseName := filepath.Base(name)
	return len(baseName) > 0 && baseName[0] == '.'
}
