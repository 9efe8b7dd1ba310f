package main

// PathEntry is one input argument split into its directory and base name.
type PathEntry struct {
	Raw  string // The argument exactly as given
	Dir  string // Empty when the entry has no directory component
	Base string
	sep  byte // Separator found between Dir and Base
}

// Prefix returns the directory with exactly one trailing separator, or "".
func (e PathEntry) Prefix() string {
	if e.Dir == "" {
		return ""
	}
	if isSeparator(e.Dir[len(e.Dir)-1]) { // Rooted entry, Dir is the root itself
		return e.Dir
	}
	return e.Dir + string(e.sep)
}

// Outcome describes what happened to a single entry.
type Outcome string

const (
	OutcomeRenamed Outcome = "renamed"
	OutcomeFailed  Outcome = "failed"
	OutcomePlanned Outcome = "planned" // Dry run, nothing touched
)

// Result holds the mapping and outcome for one entry of a batch.
type Result struct {
	Index   int // 1-based position in the input order
	Entry   PathEntry
	Target  string
	Outcome Outcome
	Err     error // Set only when Outcome is OutcomeFailed
}

// Summary holds aggregated counts for a batch.
// It is informational only; a batch has no aggregate failure state.
type Summary struct {
	Total   int
	Renamed int
	Failed  int
	Planned int
}

// add counts a result into the summary.
func (s *Summary) add(r Result) {
	s.Total++
	switch r.Outcome {
	case OutcomeRenamed:
		s.Renamed++
	case OutcomeFailed:
		s.Failed++
	case OutcomePlanned:
		s.Planned++
	}
}
