package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format, suitable for pasting
// into a pull request that updates the screenshots.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Documentation Screenshots")
	md.PlainText("")

	window := "-"
	if report.Window != nil {
		window = report.Window.String()
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + report.RunID + "`"},
			{"Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Mode", string(report.Mode)},
			{"Output", "`" + report.OutputDir + "`"},
			{"Window", window},
			{"Crop", strconv.FormatBool(report.Crop)},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	if report.Attempted() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Sections"),
			piechart.WithShowData(true),
		)
		if n := len(report.Captured); n > 0 {
			chart.LabelAndIntValue("Captured", uint64(n))
		}
		if n := len(report.Failed); n > 0 {
			chart.LabelAndIntValue("Failed", uint64(n))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case report.Fatal != "":
		md.Cautionf("The run was aborted: %s", report.Fatal)
	case len(report.Failed) > 0:
		md.Warningf("%d of %d section(s) could not be captured.", len(report.Failed), report.Attempted())
	default:
		md.Tipf("All %d section(s) captured.", len(report.Captured))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Sections")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.PlainText("No sections were attempted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, r := range report.Results {
		if r.Succeeded() {
			rows[i] = []string{
				r.SectionID,
				"✅",
				"`" + filepath.Base(r.Path) + "`",
				fmt.Sprintf("%dx%d", r.Width, r.Height),
				shortDigest(r.Digest),
			}
			continue
		}
		rows[i] = []string{r.SectionID, "❌", "-", "-", r.Reason}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Section", "Status", "File", "Size", "Digest / Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by docshot*")
}

// shortDigest abbreviates a hex digest for tables.
func shortDigest(d string) string {
	if len(d) <= 12 {
		return d
	}
	return d[:12]
}
