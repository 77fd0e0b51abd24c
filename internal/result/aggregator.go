// Package result collects per-section outcomes of a capture run.
package result

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/docshot/internal/model"
)

// ErrDuplicateSection is returned when a section is recorded twice.
var ErrDuplicateSection = errors.New("section already recorded")

// Aggregator keeps outcomes in the order they are recorded. It is safe for
// concurrent use, though a run records from a single goroutine.
type Aggregator struct {
	mu      sync.Mutex
	results []model.CaptureResult
	seen    map[string]struct{}
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		results: make([]model.CaptureResult, 0),
		seen:    make(map[string]struct{}),
	}
}

// Record stores a result.
func (a *Aggregator) Record(r model.CaptureResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[r.SectionID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSection, r.SectionID)
	}
	a.seen[r.SectionID] = struct{}{}
	a.results = append(a.results, r)
	return nil
}

// Summary returns the captured and failed section ids, each in record
// order. Every recorded id appears in exactly one of the two lists.
func (a *Aggregator) Summary() (captured, failed []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	captured = make([]string, 0, len(a.results))
	failed = make([]string, 0)
	for _, r := range a.results {
		if r.Succeeded() {
			captured = append(captured, r.SectionID)
		} else {
			failed = append(failed, r.SectionID)
		}
	}
	return captured, failed
}

// Results returns a copy of the recorded results.
func (a *Aggregator) Results() []model.CaptureResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.CaptureResult, len(a.results))
	copy(out, a.results)
	return out
}

// Fill copies the aggregated outcomes into report.
func (a *Aggregator) Fill(report *model.RunReport) {
	report.Results = a.Results()
	report.Captured, report.Failed = a.Summary()
}
