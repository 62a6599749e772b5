package entities

import "time"

// FetchResult is the outcome of fetching a single target
type FetchResult struct {
	Target       string
	ResolvedURL  string
	Success      bool
	BytesWritten int64
	Changed      *bool // nil when there was no previous copy to compare against
	Checksum     string
	Duration     time.Duration
	Err          error
}

// IsChanged reports whether the new file differs from its previous copy
func (r *FetchResult) IsChanged() bool {
	return r.Changed != nil && *r.Changed
}

// RunSummary aggregates the results of one fetch run
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Results    []*FetchResult
	AnyChanged bool
	Success    bool
	MarkerPath string // Empty unless a change marker was written
}

// ChangedTargets returns the names of targets whose content changed
func (s *RunSummary) ChangedTargets() []string {
	names := make([]string, 0)
	for _, r := range s.Results {
		if r.IsChanged() {
			names = append(names, r.Target)
		}
	}
	return names
}

// FailedTargets returns the names of targets that did not download cleanly
func (s *RunSummary) FailedTargets() []string {
	names := make([]string, 0)
	for _, r := range s.Results {
		if !r.Success {
			names = append(names, r.Target)
		}
	}
	return names
}

// ExitCode maps the run outcome to a process exit code
func (s *RunSummary) ExitCode() int {
	if s.Success {
		return 0
	}
	return 1
}
