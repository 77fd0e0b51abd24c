package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/docshot/internal/model"
)

// SimpleWriter outputs plain-text reports.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     DOCUMENTATION SCREENSHOTS\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Run:        %s\n", report.RunID)
	fmt.Fprintf(&sb, "Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:   %s\n", report.Duration().Round(100_000_000))
	fmt.Fprintf(&sb, "Mode:       %s\n", report.Mode)
	fmt.Fprintf(&sb, "Output:     %s\n", report.OutputDir)
	if report.Window != nil {
		fmt.Fprintf(&sb, "Window:     %s\n", report.Window)
	}
	fmt.Fprintf(&sb, "Status:     %s\n\n", statusText(report))

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "CAPTURED (%d/%d)\n", len(report.Captured), report.Attempted())
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, r := range report.Results {
		if r.Succeeded() {
			fmt.Fprintf(&sb, "  [+] %-14s %s (%dx%d)\n", r.SectionID, r.Path, r.Width, r.Height)
		}
	}
	sb.WriteString("\n")

	if len(report.Failed) > 0 {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "FAILED (%d)\n", len(report.Failed))
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		for _, r := range report.Results {
			if !r.Succeeded() {
				fmt.Fprintf(&sb, "  [x] %-14s %s\n", r.SectionID, r.Reason)
			}
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}
