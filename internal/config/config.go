package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/docshot/internal/model"
)

// Default configuration values.
// Delays mirror what the showcase needs on a typical desktop: a cold
// `cargo run` takes a few seconds to open its window, and one frame of
// layout after a click is enough for the new section to render.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "docshot"

	// DefaultWindowTitle is matched against visible window names when
	// attaching to a running target. Bevy titles its primary window "App"
	// unless the application sets one. xdotool matches case-insensitively.
	DefaultWindowTitle = "^App$"

	// DefaultTelemetryFile is the introspection feed, relative to WorkDir.
	DefaultTelemetryFile = "telemetry.json"

	// DefaultOutputSubdir is where screenshots go, relative to WorkDir.
	DefaultOutputSubdir = "docs/components/screenshots"

	// DefaultSettleDelay is the wait after each navigation click.
	DefaultSettleDelay = 500 * time.Millisecond

	// DefaultCapturePause is the extra pause between navigation and capture.
	DefaultCapturePause = 300 * time.Millisecond

	// DefaultPollInterval spaces window discovery attempts.
	DefaultPollInterval = 1 * time.Second

	// DefaultWindowTimeout bounds window discovery.
	DefaultWindowTimeout = 30 * time.Second

	// DefaultStartupDelay is the warm-up after launching the target.
	DefaultStartupDelay = 5 * time.Second

	// DefaultRenderWait is the wait after the window was found.
	DefaultRenderWait = 1 * time.Second

	// DefaultShutdownGrace is how long teardown waits before killing.
	DefaultShutdownGrace = 5 * time.Second

	// DefaultCropLeft is the sidebar width removed by the crop.
	DefaultCropLeft = 280

	// DefaultCropTop is the title bar height removed by the crop.
	DefaultCropTop = 60

	// DefaultCropMinWidth is the width at or below which no crop happens.
	DefaultCropMinWidth = 400

	// DefaultHistoryLimit is how many runs `docshot history` lists.
	DefaultHistoryLimit = 20
)

// DefaultCommand returns the launch command of the showcase.
func DefaultCommand() []string {
	return []string{"cargo", "run", "--example", "showcase", "--", "--telemetry"}
}

// Config holds all configuration options for a capture run.
// It is populated from defaults, then the configuration file, then CLI
// flags, and passed explicitly to the components that need it.
type Config struct {
	// Command is the argv used to launch the target.
	Command []string

	// WorkDir is the directory the target runs in. Relative output and
	// telemetry paths are resolved against it.
	WorkDir string

	// Env holds extra KEY=VALUE pairs for the target.
	Env []string

	// WindowTitle is the pattern used to find an already running target
	// window. A launched target is found by process id instead.
	WindowTitle string

	// TelemetryFile is the introspection feed written by the target.
	TelemetryFile string

	// OutputDir is where screenshots are written. Empty means
	// WorkDir/DefaultOutputSubdir.
	OutputDir string

	// SettleDelay is the wait after each navigation click.
	SettleDelay time.Duration

	// CapturePause is the pause between navigation and capture.
	CapturePause time.Duration

	// PollInterval spaces window discovery attempts.
	PollInterval time.Duration

	// WindowTimeout bounds window discovery. Also bounds the telemetry
	// readiness wait.
	WindowTimeout time.Duration

	// StartupDelay is the warm-up after launching the target.
	StartupDelay time.Duration

	// RenderWait is the wait after the window was found.
	RenderWait time.Duration

	// ShutdownGrace is how long teardown waits before killing the target.
	ShutdownGrace time.Duration

	// SectionTimeout bounds navigation plus capture of one section.
	// Zero disables the limit.
	SectionTimeout time.Duration

	// Crop enables removal of the sidebar and title bar.
	Crop bool

	// CropLeft, CropTop and CropMinWidth parameterize the crop.
	CropLeft     int
	CropTop      int
	CropMinWidth int

	// Sections overrides the built-in section registry when non-empty.
	Sections []model.Section

	// Section selects a single section by id or display name.
	Section string

	// List prints the registry and exits.
	List bool

	// NoStart attaches to an already running target.
	NoStart bool

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// JSONReport writes the run report as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the run report as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file for the report. Empty means stdout.
	ReportFile string

	// ConfigFilePath is the explicitly requested configuration file.
	ConfigFilePath string

	// Record appends the run to the history database.
	Record bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Command:       DefaultCommand(),
		WorkDir:       ".",
		WindowTitle:   DefaultWindowTitle,
		TelemetryFile: DefaultTelemetryFile,
		SettleDelay:   DefaultSettleDelay,
		CapturePause:  DefaultCapturePause,
		PollInterval:  DefaultPollInterval,
		WindowTimeout: DefaultWindowTimeout,
		StartupDelay:  DefaultStartupDelay,
		RenderWait:    DefaultRenderWait,
		ShutdownGrace: DefaultShutdownGrace,
		Crop:          true,
		CropLeft:      DefaultCropLeft,
		CropTop:       DefaultCropTop,
		CropMinWidth:  DefaultCropMinWidth,
		DBDir:         XDGDataDir(),
	}
}

// ResolvedOutputDir returns the screenshot directory.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir == "" {
		return filepath.Join(c.WorkDir, filepath.FromSlash(DefaultOutputSubdir))
	}
	return c.resolve(c.OutputDir)
}

// TelemetryPath returns the introspection feed path.
func (c *Config) TelemetryPath() string {
	if c.TelemetryFile == "" {
		return filepath.Join(c.WorkDir, DefaultTelemetryFile)
	}
	return c.resolve(c.TelemetryFile)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}

// XDGDataDir returns the XDG data directory for docshot.
// On Linux: ~/.local/share/docshot
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docshot.
// On Linux: ~/.config/docshot
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return ErrEmptyCommand
	}
	if c.WindowTitle == "" {
		return ErrEmptyWindowTitle
	}
	if c.WindowTimeout <= 0 {
		return ErrInvalidWindowTimeout
	}
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	for _, d := range []time.Duration{
		c.SettleDelay, c.CapturePause, c.StartupDelay,
		c.RenderWait, c.ShutdownGrace, c.SectionTimeout,
	} {
		if d < 0 {
			return ErrNegativeDelay
		}
	}
	if c.CropLeft < 0 || c.CropTop < 0 || c.CropMinWidth < 0 {
		return ErrInvalidCrop
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
