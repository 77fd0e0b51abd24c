package report

import (
	"io"

	"github.com/nao1215/docshot/internal/model"
)

// Writer outputs a run report in a specific format.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText describes how a run ended.
func statusText(r *model.RunReport) string {
	switch {
	case r.Fatal != "":
		return "Aborted - " + r.Fatal
	case len(r.Failed) > 0:
		return "Completed with failures"
	default:
		return "Complete"
	}
}
