package model

import "time"

// Mode is how a run selects its sections.
type Mode string

const (
	// ModeSweep visits every section of the registry in order.
	ModeSweep Mode = "sweep"

	// ModeSingle visits exactly one resolved section.
	ModeSingle Mode = "single"
)

// RunReport summarizes a complete capture run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"runId"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Mode is the section selection mode.
	Mode Mode `json:"mode"`

	// OutputDir is where screenshots were written.
	OutputDir string `json:"outputDir"`

	// Crop reports whether the crop transform was requested.
	Crop bool `json:"crop"`

	// Window is the discovered window geometry, nil if discovery failed.
	Window *WindowBounds `json:"window,omitempty"`

	// Results holds one entry per attempted section, in registry order.
	Results []CaptureResult `json:"results"`

	// Captured and Failed list section ids by outcome, in registry order.
	Captured []string `json:"captured"`
	Failed   []string `json:"failed"`

	// Fatal holds the error message that aborted the run, if any.
	Fatal string `json:"fatal,omitempty"`
}

// NewRunReport creates an empty report for a run starting now.
func NewRunReport(runID string, mode Mode, outputDir string, crop bool) *RunReport {
	return &RunReport{
		RunID:     runID,
		StartedAt: time.Now(),
		Mode:      mode,
		OutputDir: outputDir,
		Crop:      crop,
		Results:   make([]CaptureResult, 0),
		Captured:  make([]string, 0),
		Failed:    make([]string, 0),
	}
}

// Duration returns how long the run took. Zero until FinishedAt is set.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Attempted returns the number of sections attempted.
func (r *RunReport) Attempted() int {
	return len(r.Captured) + len(r.Failed)
}

// HasFailures reports whether any section failed or the run was aborted.
func (r *RunReport) HasFailures() bool {
	return len(r.Failed) > 0 || r.Fatal != ""
}
