package model

import "time"

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Mode       Mode      `json:"mode"`
	OutputDir  string    `json:"outputDir"`
	Captured   int       `json:"captured"`
	Failed     int       `json:"failed"`
	Fatal      string    `json:"fatal,omitempty"`
}

// CaptureRecord is one section outcome stored in the history.
type CaptureRecord struct {
	RunID string `json:"runId"`
	CaptureResult
}

// NewRunSummary summarizes a report.
func NewRunSummary(r *RunReport) RunSummary {
	return RunSummary{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Mode:       r.Mode,
		OutputDir:  r.OutputDir,
		Captured:   len(r.Captured),
		Failed:     len(r.Failed),
		Fatal:      r.Fatal,
	}
}
