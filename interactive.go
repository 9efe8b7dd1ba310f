package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"go.uber.org/zap"
)

// runInteractiveFinder lets the user pick the entries to enumerate.
// It returns nil, nil when the user aborts the selection.
func runInteractiveFinder(filter candidateFilter, logger *zap.Logger) ([]string, error) {
	candidates, err := collectCandidates(".", filter, logger)
	if err != nil {
		return nil, fmt.Errorf("error scanning for files/directories: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files or directories found to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithHeader("Tab to select, Enter to enumerate in the listed order"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the files or directories to enumerate."
			}
			path := candidates[i]
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			fileType := "File"
			if info.IsDir() {
				fileType = "Directory"
			}
			return fmt.Sprintf("Path: %s\nType: %s\nSize: %d bytes", path, fileType, info.Size())
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := selectedPaths(candidates, idx)
	logger.Debug("interactive selection", zap.Strings("paths", selected))
	return selected, nil
}

// selectedPaths maps finder indices back to candidates in listed order.
// FindMulti does not return indices in a stable order, and the order of the
// entries decides their numbers.
func selectedPaths(candidates []string, idx []int) []string {
	sorted := slices.Clone(idx)
	slices.Sort(sorted)

	selected := make([]string, len(sorted))
	for i, index := range sorted {
		selected[i] = candidates[index]
	}
	return selected
}
