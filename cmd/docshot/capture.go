package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/docshot/internal/capture"
	"github.com/nao1215/docshot/internal/config"
	"github.com/nao1215/docshot/internal/database"
	"github.com/nao1215/docshot/internal/desktop"
	"github.com/nao1215/docshot/internal/launcher"
	dslog "github.com/nao1215/docshot/internal/log"
	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/docshot/internal/navigator"
	"github.com/nao1215/docshot/internal/pipeline"
	"github.com/nao1215/docshot/internal/report"
	"github.com/nao1215/docshot/internal/section"
	"github.com/nao1215/docshot/internal/telemetry"
	"github.com/spf13/cobra"
)

// newCaptureCmd creates the command that performs a capture run.
func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docshot",
		Short: "Capture documentation screenshots of the component showcase",
		Long: `docshot launches the component showcase, opens each of its sections in
turn and saves one PNG screenshot per section.

Sections are opened by clicking the navigation element the showcase reports
in its telemetry feed. A section whose element cannot be found is reported
as failed and the run continues with the next one.

Examples:
  # Capture every section
  docshot

  # Capture a single section by id or display name
  docshot --section button
  docshot -s "Radio Group"

  # List the sections
  docshot --list

  # Attach to a showcase that is already running
  docshot --no-start

  # Keep the sidebar and title bar in the screenshots
  docshot --no-crop

  # Write a Markdown run report
  docshot --markdown -o docs/screenshots.md

Exit status is 0 when the run completed (even if some sections failed),
1 when the run was aborted (for example the window never appeared) and
2 for invalid invocations such as an unknown section.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: runCaptureCmd,
	}

	// Selection flags
	cmd.Flags().StringP("section", "s", "",
		"Capture only this section (id or display name)")
	cmd.Flags().BoolP("list", "l", false,
		"List the available sections and exit")

	// Capture behavior flags
	cmd.Flags().Bool("no-crop", false,
		"Keep the sidebar and title bar in the screenshots")
	cmd.Flags().Bool("no-start", false,
		"Do not launch the showcase; attach to a running window")
	cmd.Flags().String("output-dir", "",
		"Screenshot directory (default: <workdir>/"+config.DefaultOutputSubdir+")")
	cmd.Flags().String("workdir", "",
		"Working directory of the showcase (default: current directory)")
	cmd.Flags().String("window-title", config.DefaultWindowTitle,
		"Title regex of the showcase window, used with --no-start")
	cmd.Flags().Duration("section-timeout", 0,
		"Time limit for navigating to and capturing one section (0 disables)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docshot in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the run report to the specified file (creates directories if needed)")
	cmd.Flags().Bool("record", false,
		"Append the run to the history database")

	return cmd
}

// runCaptureCmd executes the capture command.
func runCaptureCmd(cmd *cobra.Command, _ []string) error {
	// Build config from defaults, config file and flags
	cfg, err := buildConfig(cmd)
	if err != nil {
		return usageError(err)
	}

	if err := cfg.Validate(); err != nil {
		return usageError(fmt.Errorf("configuration error: %w", err))
	}

	logger := dslog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return usageError(fmt.Errorf("configuration error: %w", err))
	}

	// The report owns stdout when it is not written to a file.
	consoleOut := cmd.OutOrStdout()
	if (cfg.JSONReport || cfg.MarkdownReport) && cfg.ReportFile == "" {
		consoleOut = cmd.ErrOrStderr()
	}
	console := report.NewConsole(consoleOut)

	if cfg.List {
		console.Sections(registry.Sections())
		return nil
	}

	// Resolve the selection before anything is launched.
	sections, mode, err := selectSections(registry, cfg.Section)
	if err != nil {
		return usageError(err)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	console.SetTotal(len(sections))
	orch := newOrchestrator(cfg, console, logger)
	return runCapture(ctx, cfg, orch, sections, mode, console, cmd.OutOrStdout(), logger)
}

// getPersistentBool retrieves a global flag from the command or its root.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig creates a Config from defaults, the configuration file and
// cobra command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Verbose = getPersistentBool(cmd, "verbose")
	cfg.LogJSON = getPersistentBool(cmd, "log-json")

	cfg.Section, err = cmd.Flags().GetString("section")
	if err != nil {
		return nil, err
	}

	cfg.List, err = cmd.Flags().GetBool("list")
	if err != nil {
		return nil, err
	}

	cfg.NoStart, err = cmd.Flags().GetBool("no-start")
	if err != nil {
		return nil, err
	}

	noCrop, err := cmd.Flags().GetBool("no-crop")
	if err != nil {
		return nil, err
	}
	if noCrop {
		cfg.Crop = false
	}

	// Flags below override the configuration file only when given.
	if cmd.Flags().Changed("output-dir") {
		if cfg.OutputDir, err = cmd.Flags().GetString("output-dir"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("workdir") {
		if cfg.WorkDir, err = cmd.Flags().GetString("workdir"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("window-title") {
		if cfg.WindowTitle, err = cmd.Flags().GetString("window-title"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("section-timeout") {
		if cfg.SectionTimeout, err = cmd.Flags().GetDuration("section-timeout"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("record") {
		if cfg.Record, err = cmd.Flags().GetBool("record"); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildRegistry returns the configured sections, or the built-in ones.
func buildRegistry(cfg *config.Config) (*section.Registry, error) {
	if len(cfg.Sections) == 0 {
		return section.Default(), nil
	}
	return section.New(cfg.Sections)
}

// selectSections returns the sections a run visits and its mode.
func selectSections(registry *section.Registry, name string) ([]model.Section, model.Mode, error) {
	if name == "" {
		return registry.Sections(), model.ModeSweep, nil
	}
	s, err := registry.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	return []model.Section{s}, model.ModeSingle, nil
}

// newOrchestrator wires the desktop, telemetry, capture and launcher
// components into an orchestrator.
func newOrchestrator(cfg *config.Config, observer pipeline.Observer, logger *slog.Logger) *pipeline.Orchestrator {
	x11 := desktop.NewX11(desktop.WithX11Logger(logger))
	newLocator := func(target desktop.Target) *desktop.Locator {
		return desktop.NewLocator(x11, target,
			desktop.WithPollInterval(cfg.PollInterval),
			desktop.WithMaximize(true),
			desktop.WithLocatorLogger(logger),
		)
	}

	feed := telemetry.NewFileFeed(cfg.TelemetryPath())
	newNavigator := func(bounds model.WindowBounds) pipeline.Navigator {
		return navigator.New(feed, x11, bounds.ClientOrigin,
			navigator.WithSettleDelay(cfg.SettleDelay),
			navigator.WithLogger(logger),
		)
	}

	engine := capture.NewEngine(capture.ScreenGrabber{}, cfg.ResolvedOutputDir(),
		capture.WithCropSpec(capture.CropSpec{
			Left:     cfg.CropLeft,
			Top:      cfg.CropTop,
			MinWidth: cfg.CropMinWidth,
		}),
		capture.WithLogger(logger),
	)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithObserver(observer),
		pipeline.WithCrop(cfg.Crop),
		pipeline.WithOutputDir(engine.OutputDir()),
		pipeline.WithStartupDelay(cfg.StartupDelay),
		pipeline.WithRenderWait(cfg.RenderWait),
		pipeline.WithCapturePause(cfg.CapturePause),
		pipeline.WithWindowTimeout(cfg.WindowTimeout),
		pipeline.WithSectionTimeout(cfg.SectionTimeout),
		pipeline.WithReadinessCheck(func(ctx context.Context) error {
			_, err := feed.WaitReady(ctx, cfg.PollInterval, cfg.WindowTimeout, logger)
			return err
		}),
	}

	if !cfg.NoStart {
		l := launcher.New(cfg.Command,
			launcher.WithDir(cfg.WorkDir),
			launcher.WithEnv(cfg.Env...),
			launcher.WithShutdownGrace(cfg.ShutdownGrace),
			launcher.WithLogger(logger),
		)
		logger.Debug("target launch configured",
			"command", l.Command(),
			"dir", cfg.WorkDir,
			"env", cfg.Env,
		)
		opts = append(opts,
			pipeline.WithLauncher(l),
			pipeline.WithProcessLocator(func(pid int) pipeline.WindowLocator {
				return newLocator(desktop.Target{PID: pid})
			}),
		)
	}

	return pipeline.New(newLocator(desktop.Target{Title: cfg.WindowTitle}), newNavigator, engine, opts...)
}

// capturer runs a capture over a set of sections.
type capturer interface {
	Run(ctx context.Context, sections []model.Section, mode model.Mode) (*model.RunReport, error)
}

// runCapture executes the run, prints the summary and writes the report
// and the history entry.
func runCapture(
	ctx context.Context,
	cfg *config.Config,
	orch capturer,
	sections []model.Section,
	mode model.Mode,
	console *report.Console,
	stdout io.Writer,
	logger *slog.Logger,
) error {
	logger.Info("starting capture run",
		"mode", mode,
		"sections", len(sections),
		"outputDir", cfg.ResolvedOutputDir(),
		"crop", cfg.Crop,
		"noStart", cfg.NoStart,
	)

	runReport, runErr := orch.Run(ctx, sections, mode)
	if runReport == nil {
		return runErr
	}

	console.Summary(runReport)

	if err := outputReport(cfg, runReport, stdout); err != nil {
		logger.Error("report failed", "error", err)
		console.Warn(fmt.Sprintf("Failed to write report: %v", err))
	}

	if cfg.Record {
		// The history entry is written even when the run was interrupted.
		if err := saveRunReport(context.WithoutCancel(ctx), cfg.DBDir, runReport, logger); err != nil {
			logger.Error("failed to save run report", "error", err)
			console.Warn(fmt.Sprintf("Failed to record run history: %v", err))
		}
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, desktop.ErrWindowNotFound):
		hint := "no maximized window owned by the launched process"
		if cfg.NoStart {
			hint = fmt.Sprintf("no maximized window matching %q", cfg.WindowTitle)
		}
		return &exitError{
			code: exitFatal,
			err:  fmt.Errorf("%w (%s)", runErr, hint),
		}
	case errors.Is(runErr, context.Canceled):
		return &exitError{code: exitFatal, err: errors.New("run cancelled")}
	default:
		return &exitError{code: exitFatal, err: runErr}
	}
}

// outputReport writes the run report in the requested format.
// Nothing is written unless a format or an output file was requested.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	if !cfg.JSONReport && !cfg.MarkdownReport && cfg.ReportFile == "" {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}
	_, err := w.Write(runReport)
	return err
}

// saveRunReport appends the run to the history database in dbDir.
func saveRunReport(ctx context.Context, dbDir string, runReport *model.RunReport, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, runReport); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Info("run report saved to database", "runId", runReport.RunID, "path", db.Path())
	return nil
}
