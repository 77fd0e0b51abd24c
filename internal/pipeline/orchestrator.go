package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/docshot/internal/launcher"
	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/docshot/internal/poll"
	"github.com/nao1215/docshot/internal/result"
)

// Default delays between phases.
const (
	DefaultStartupDelay  = 5 * time.Second
	DefaultRenderWait    = 1 * time.Second
	DefaultCapturePause  = 300 * time.Millisecond
	DefaultWindowTimeout = 30 * time.Second
)

// WindowLocator finds the target window.
type WindowLocator interface {
	Locate(ctx context.Context, timeout time.Duration) (model.WindowBounds, error)
}

// Navigator drives the target to a section.
type Navigator interface {
	Navigate(ctx context.Context, token string) bool
}

// ProcessLocatorFactory builds a WindowLocator that matches windows owned
// by the launched process.
type ProcessLocatorFactory func(pid int) WindowLocator

// NavigatorFactory builds a Navigator once the window geometry is known.
type NavigatorFactory func(bounds model.WindowBounds) Navigator

// Capturer grabs and persists a section screenshot.
type Capturer interface {
	Capture(ctx context.Context, sectionID string, bounds *model.WindowBounds, crop bool) (model.CaptureResult, error)
}

// ReadinessCheck waits until the target is ready to be driven. A failing
// check is logged and the run continues.
type ReadinessCheck func(ctx context.Context) error

// Observer is notified of progress. Calls happen on the Run goroutine.
type Observer interface {
	// StateChanged reports a transition. section is nil outside the
	// per-section states.
	StateChanged(state State, section *model.Section)

	// SectionFinished reports the outcome of one section.
	SectionFinished(result model.CaptureResult)
}

// Orchestrator runs capture sessions.
type Orchestrator struct {
	launcher     launcher.Launcher
	locator      WindowLocator
	forProcess   ProcessLocatorFactory
	newNavigator NavigatorFactory
	capturer     Capturer
	ready        ReadinessCheck
	observer     Observer
	logger       *slog.Logger
	sleep        func(ctx context.Context, d time.Duration) error
	newRunID     func() string

	outputDir      string
	crop           bool
	startupDelay   time.Duration
	renderWait     time.Duration
	pause          time.Duration
	windowTimeout  time.Duration
	sectionTimeout time.Duration

	state State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLauncher makes the run start the target itself. Without it the run
// attaches to an already running target.
func WithLauncher(l launcher.Launcher) Option {
	return func(o *Orchestrator) {
		o.launcher = l
	}
}

// WithProcessLocator makes a launched run look for the window by the
// process id of the target instead of using the default locator.
func WithProcessLocator(fn ProcessLocatorFactory) Option {
	return func(o *Orchestrator) {
		o.forProcess = fn
	}
}

// WithReadinessCheck sets a check run after window discovery.
func WithReadinessCheck(check ReadinessCheck) Option {
	return func(o *Orchestrator) {
		o.ready = check
	}
}

// WithObserver sets the progress observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithCrop enables or disables the sidebar/title crop.
func WithCrop(crop bool) Option {
	return func(o *Orchestrator) {
		o.crop = crop
	}
}

// WithOutputDir records where screenshots go in the run report.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = dir
	}
}

// WithStartupDelay sets the wait after launching the target.
func WithStartupDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.startupDelay = d
	}
}

// WithRenderWait sets the wait after the window was found.
func WithRenderWait(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.renderWait = d
	}
}

// WithCapturePause sets the pause between navigation and capture.
func WithCapturePause(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pause = d
	}
}

// WithWindowTimeout bounds window discovery.
func WithWindowTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.windowTimeout = d
	}
}

// WithSectionTimeout bounds navigation plus capture of each section.
// Zero disables the limit.
func WithSectionTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.sectionTimeout = d
	}
}

// WithSleeper replaces the context-aware sleep.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// WithRunID replaces the run id generator.
func WithRunID(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = fn
	}
}

// New creates an Orchestrator.
func New(locator WindowLocator, newNavigator NavigatorFactory, capturer Capturer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		locator:       locator,
		newNavigator:  newNavigator,
		capturer:      capturer,
		crop:          true,
		startupDelay:  DefaultStartupDelay,
		renderWait:    DefaultRenderWait,
		pause:         DefaultCapturePause,
		windowTimeout: DefaultWindowTimeout,
		sleep:         poll.Sleep,
		newRunID:      uuid.NewString,
		state:         StateNotStarted,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run captures sections in order and returns the run report. The report
// is returned even when err is non-nil; err is non-nil only when the run
// was aborted, never for individual section failures.
func (o *Orchestrator) Run(ctx context.Context, sections []model.Section, mode model.Mode) (report *model.RunReport, err error) {
	if o.locator == nil || o.newNavigator == nil || o.capturer == nil {
		return nil, ErrMissingComponent
	}
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	report = model.NewRunReport(o.newRunID(), mode, o.outputDir, o.crop)
	agg := result.NewAggregator()

	defer func() {
		agg.Fill(report)
		report.FinishedAt = time.Now()
		if err != nil {
			report.Fatal = err.Error()
			o.transition(StateFailed, nil)
		} else {
			o.transition(StateDone, nil)
		}
	}()

	locator := o.locator
	o.transition(StateLaunching, nil)
	if o.launcher != nil {
		handle, err := o.launcher.Launch(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to launch target: %w", err)
		}
		defer o.teardown(handle)

		if o.forProcess != nil {
			locator = o.forProcess(handle.Pid())
		}

		o.logger.Info("waiting for target startup", "delay", o.startupDelay)
		if err := o.sleep(ctx, o.startupDelay); err != nil {
			return report, err
		}
	}

	o.transition(StateAwaitingWindow, nil)
	bounds, err := locator.Locate(ctx, o.windowTimeout)
	if err != nil {
		return report, err
	}
	report.Window = &bounds
	o.logger.Info("window found", "bounds", bounds.String())

	if err := o.sleep(ctx, o.renderWait); err != nil {
		return report, err
	}
	if o.ready != nil {
		if err := o.ready(ctx); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			o.logger.Warn("target readiness check failed, continuing", "error", err)
		}
	}

	nav := o.newNavigator(bounds)
	for i := range sections {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := o.runSection(ctx, nav, &sections[i], &bounds)
		if err := agg.Record(res); err != nil {
			o.logger.Warn("section result not recorded", "section", res.SectionID, "error", err)
			continue
		}
		if o.observer != nil {
			o.observer.SectionFinished(res)
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}
	return report, nil
}

// runSection navigates to and captures one section. It never returns an
// error; failures become failed results.
func (o *Orchestrator) runSection(ctx context.Context, nav Navigator, s *model.Section, bounds *model.WindowBounds) model.CaptureResult {
	if o.sectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.sectionTimeout)
		defer cancel()
	}

	o.transition(StateNavigating, s)
	o.logger.Info("navigating", "section", s.ID, "element", s.NavToken)
	if !nav.Navigate(ctx, s.NavToken) {
		reason := o.failureReason(ctx, fmt.Sprintf("navigation element %q not found", s.NavToken))
		o.logger.Warn("navigation failed", "section", s.ID, "reason", reason)
		return model.NewFailedResult(s.ID, reason)
	}

	if err := o.sleep(ctx, o.pause); err != nil {
		return model.NewFailedResult(s.ID, o.failureReason(ctx, err.Error()))
	}

	o.transition(StateCapturing, s)
	res, err := o.capturer.Capture(ctx, s.ID, bounds, o.crop)
	if err != nil {
		reason := o.failureReason(ctx, fmt.Sprintf("capture failed: %v", err))
		o.logger.Error("capture failed", "section", s.ID, "error", err)
		return model.NewFailedResult(s.ID, reason)
	}
	return res
}

func (o *Orchestrator) failureReason(ctx context.Context, fallback string) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Sprintf("section timed out after %v", o.sectionTimeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return "run cancelled"
	default:
		return fallback
	}
}

func (o *Orchestrator) teardown(h launcher.Handle) {
	o.logger.Info("stopping target", "pid", h.Pid())
	if err := h.Stop(); err != nil {
		o.logger.Warn("failed to stop target", "pid", h.Pid(), "error", err)
	}
}

func (o *Orchestrator) transition(state State, s *model.Section) {
	o.state = state
	if state.Terminal() {
		o.logger.Info("run finished", "state", state.String())
	} else {
		o.logger.Debug("state changed", "state", state.String())
	}
	if o.observer != nil {
		o.observer.StateChanged(state, s)
	}
}
