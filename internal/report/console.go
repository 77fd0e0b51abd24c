package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/docshot/internal/pipeline"
)

// Console prints progress and summaries for a person watching the run.
// It implements pipeline.Observer.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	total    int
	index    int

	errorStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	successStyle lipgloss.Style
	infoStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	headerStyle  lipgloss.Style
}

var _ pipeline.Observer = (*Console)(nil)

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithColor forces colored output on or off. By default color follows
// the terminal and the NO_COLOR convention.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		if enabled {
			c.renderer.SetColorProfile(termenv.TrueColor)
		} else {
			c.renderer.SetColorProfile(termenv.Ascii)
		}
	}
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	r := lipgloss.NewRenderer(out)
	if termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}
	c := &Console{out: out, renderer: r}
	for _, opt := range opts {
		opt(c)
	}

	c.errorStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
		Bold(true)
	c.warnStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"})
	c.successStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"})
	c.infoStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"})
	c.dimStyle = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"})
	c.headerStyle = r.NewStyle().Bold(true)
	return c
}

// SetTotal sets the number of sections the run will attempt.
func (c *Console) SetTotal(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = n
	c.index = 0
}

// StateChanged implements pipeline.Observer.
func (c *Console) StateChanged(state pipeline.State, s *model.Section) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch state {
	case pipeline.StateLaunching:
		c.println(c.infoStyle.Render("Starting capture run..."))
	case pipeline.StateAwaitingWindow:
		c.println(c.dimStyle.Render("  Looking for the target window..."))
	case pipeline.StateNavigating:
		c.index++
		name := ""
		if s != nil {
			name = s.DisplayName
		}
		c.println(fmt.Sprintf("[%d/%d] %s", c.index, c.total, name))
	case pipeline.StateCapturing:
		c.println(c.dimStyle.Render("  capturing..."))
	default:
	}
}

// SectionFinished implements pipeline.Observer.
func (c *Console) SectionFinished(r model.CaptureResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Succeeded() {
		c.println(c.successStyle.Render(fmt.Sprintf("  ✓ saved %s (%dx%d)", r.Path, r.Width, r.Height)))
		return
	}
	c.println(c.errorStyle.Render("  ✗ " + r.Reason))
}

// Summary prints the end-of-run summary.
func (c *Console) Summary(report *model.RunReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	header, countStyle := "Summary", c.successStyle
	if report.HasFailures() {
		header, countStyle = "Summary (incomplete)", c.warnStyle
	}

	c.println("")
	c.println(c.headerStyle.Render(header))
	c.println(fmt.Sprintf("  Captured: %s", countStyle.Render(fmt.Sprintf("%d/%d", len(report.Captured), report.Attempted()))))
	for _, id := range report.Captured {
		c.println("    " + c.successStyle.Render("✓") + " " + id)
	}
	if len(report.Failed) > 0 {
		c.println(fmt.Sprintf("  Failed:   %s", c.errorStyle.Render(strconv.Itoa(len(report.Failed)))))
		for _, r := range report.Results {
			if !r.Succeeded() {
				c.println("    " + c.errorStyle.Render("✗") + " " + r.SectionID + c.dimStyle.Render(" ("+r.Reason+")"))
			}
		}
	}
	if report.Fatal != "" {
		c.println(c.errorStyle.Render("  Aborted: " + report.Fatal))
	}
	c.println(c.dimStyle.Render(fmt.Sprintf("  Output:   %s", report.OutputDir)))
	if d := report.Duration(); d > 0 {
		c.println(c.dimStyle.Render(fmt.Sprintf("  Took:     %s", d.Round(100*time.Millisecond))))
	}
}

// Warn prints a highlighted warning line.
func (c *Console) Warn(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.println(c.warnStyle.Render("! " + msg))
}

// Sections prints the section registry.
func (c *Console) Sections(sections []model.Section) {
	rows := make([][]string, len(sections))
	for i, s := range sections {
		rows[i] = []string{s.ID, s.DisplayName, s.NavToken}
	}
	c.table([]string{"ID", "NAME", "NAV ELEMENT"}, rows)
}

// Runs prints run history rows.
func (c *Console) Runs(runs []model.RunSummary) {
	if len(runs) == 0 {
		c.mu.Lock()
		c.println(c.dimStyle.Render("No runs recorded."))
		c.mu.Unlock()
		return
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		status := "ok"
		switch {
		case r.Fatal != "":
			status = "aborted"
		case r.Failed > 0:
			status = "failures"
		}
		rows[i] = []string{
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Mode),
			strconv.Itoa(r.Captured),
			strconv.Itoa(r.Failed),
			status,
		}
	}
	c.table([]string{"RUN", "STARTED", "MODE", "CAPTURED", "FAILED", "STATUS"}, rows)
}

// Captures prints the capture history of a section.
func (c *Console) Captures(records []model.CaptureRecord) {
	if len(records) == 0 {
		c.mu.Lock()
		c.println(c.dimStyle.Render("No captures recorded."))
		c.mu.Unlock()
		return
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		size, detail := "-", r.Reason
		if r.Succeeded() {
			size = fmt.Sprintf("%dx%d", r.Width, r.Height)
			detail = shortDigest(r.Digest)
		}
		rows[i] = []string{
			r.CapturedAt.Local().Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Status.String(),
			size,
			detail,
		}
	}
	c.table([]string{"CAPTURED", "RUN", "STATUS", "SIZE", "DIGEST / REASON"}, rows)
}

func (c *Console) table(headers []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.dimStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.headerStyle.Padding(0, 1)
			}
			return c.renderer.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	c.println(t.String())
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
