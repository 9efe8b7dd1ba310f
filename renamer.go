package main

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const defaultSeparator = " - "

// Mover renames a filesystem object. afero.Fs satisfies it.
type Mover interface {
	Rename(oldname, newname string) error
}

// Renamer enumerates entries by renaming each one with its position in the batch.
type Renamer struct {
	mover     Mover
	separator string // Placed between the padded index and the base name
	dryRun    bool
	logger    *zap.Logger
}

// NewRenamer returns a Renamer that moves entries with mover.
// A nil mover falls back to the OS filesystem, a nil logger to a no-op one,
// and an empty separator to " - ". The command line rejects an explicitly
// empty separator before it gets here.
func NewRenamer(mover Mover, separator string, dryRun bool, logger *zap.Logger) *Renamer {
	if mover == nil {
		mover = afero.NewOsFs()
	}
	if separator == "" {
		separator = defaultSeparator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renamer{mover: mover, separator: separator, dryRun: dryRun, logger: logger}
}

// Sequence returns the results of renaming entries, in input order.
// The sequence is lazy: each rename happens when the consumer pulls its result,
// so stopping early leaves the remaining entries untouched.
func (r *Renamer) Sequence(entries []string) iter.Seq[Result] {
	width := padWidth(len(entries)) // Shared by every label, even if later entries fail

	return func(yield func(Result) bool) {
		for i, raw := range entries {
			entry := splitEntry(raw)
			res := Result{
				Index:  i + 1,
				Entry:  entry,
				Target: targetName(entry, i+1, width, r.separator),
			}

			if r.dryRun {
				res.Outcome = OutcomePlanned
			} else if err := r.mover.Rename(raw, res.Target); err != nil {
				r.logger.Debug("rename failed",
					zap.String("source", raw),
					zap.String("target", res.Target),
					zap.Error(err))
				res.Outcome = OutcomeFailed
				res.Err = err
			} else {
				r.logger.Debug("renamed", zap.String("source", raw), zap.String("target", res.Target))
				res.Outcome = OutcomeRenamed
			}

			if !yield(res) {
				return
			}
		}
	}
}

// Run processes every entry, writing one mapping line per entry and one extra
// line per failure to w. It never stops on a failed entry.
func (r *Renamer) Run(entries []string, w io.Writer) ([]Result, Summary) {
	var summary Summary
	results := make([]Result, 0, len(entries))

	for res := range r.Sequence(entries) {
		writeResult(w, res)
		summary.add(res)
		results = append(results, res)
	}

	r.logger.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("renamed", summary.Renamed),
		zap.Int("failed", summary.Failed))
	return results, summary
}

// splitEntry splits a raw argument into directory and base name.
// Trailing separators are dropped first so "dir/" names the directory "dir".
func splitEntry(raw string) PathEntry {
	trimmed := trimTrailingSeparators(raw)

	i := len(trimmed) - 1
	for i >= 0 && !isSeparator(trimmed[i]) {
		i--
	}
	if i < 0 {
		return PathEntry{Raw: raw, Base: trimmed}
	}

	dir := trimTrailingSeparators(trimmed[:i])
	if dir == "" || (len(dir) == 1 && isSeparator(dir[0])) {
		// Rooted entry like "/a.txt": the root stays the directory.
		dir = trimmed[:1]
	}
	return PathEntry{Raw: raw, Dir: dir, Base: trimmed[i+1:], sep: trimmed[i]}
}

// trimTrailingSeparators removes trailing separators but never reduces a
// lone root separator to the empty string.
func trimTrailingSeparators(s string) string {
	for len(s) > 1 && isSeparator(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isSeparator(c byte) bool {
	return os.IsPathSeparator(c)
}

// padWidth returns the number of decimal digits needed to print n.
func padWidth(n int) int {
	if n < 1 {
		return 1
	}
	return len(strconv.Itoa(n))
}

// padIndex left-pads index with zeros to width digits.
func padIndex(index, width int) string {
	return fmt.Sprintf("%0*d", width, index)
}

// targetName composes the new path for entry at the given 1-based index.
func targetName(entry PathEntry, index, width int, separator string) string {
	return entry.Prefix() + padIndex(index, width) + separator + entry.Base
}
