package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/docshot/internal/poll"
)

// Default discovery timing, in line with the target's startup behavior.
const (
	DefaultPollInterval  = 1 * time.Second
	DefaultWindowTimeout = 30 * time.Second
)

// Locator polls the desktop until the target window is usable.
type Locator struct {
	desktop  Desktop
	target   Target
	interval time.Duration
	maximize bool
	clock    poll.Clock
	logger   *slog.Logger
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithPollInterval sets the delay between discovery attempts.
func WithPollInterval(d time.Duration) LocatorOption {
	return func(l *Locator) {
		l.interval = d
	}
}

// WithMaximize controls whether the window is asked to maximize.
func WithMaximize(maximize bool) LocatorOption {
	return func(l *Locator) {
		l.maximize = maximize
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(c poll.Clock) LocatorOption {
	return func(l *Locator) {
		l.clock = c
	}
}

// WithLocatorLogger sets the logger.
func WithLocatorLogger(logger *slog.Logger) LocatorOption {
	return func(l *Locator) {
		l.logger = logger
	}
}

// NewLocator creates a Locator for windows matching target.
func NewLocator(d Desktop, target Target, opts ...LocatorOption) *Locator {
	l := &Locator{
		desktop:  d,
		target:   target,
		interval: DefaultPollInterval,
		maximize: true,
		clock:    poll.RealClock,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Locate waits up to timeout for the window and returns its bounds.
// On timeout the error wraps both ErrWindowNotFound and poll.ErrTimeout,
// also when a desktop query was still running at the deadline.
func (l *Locator) Locate(ctx context.Context, timeout time.Duration) (model.WindowBounds, error) {
	if err := l.target.validate(); err != nil {
		return model.WindowBounds{}, err
	}

	l.logger.Info("looking for target window", "target", l.target.String(), "timeout", timeout)

	bounds, err := poll.UntilWithClock(ctx, l.clock, func(ctx context.Context) (model.WindowBounds, bool, error) {
		b, found, err := l.desktop.FindWindow(ctx, l.target, l.maximize)
		if err != nil {
			return model.WindowBounds{}, false, err
		}
		if !found || !b.Valid() {
			return model.WindowBounds{}, false, poll.ErrNotReady
		}
		return b, true, nil
	}, l.interval, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return model.WindowBounds{}, err
		}
		return model.WindowBounds{}, fmt.Errorf("%w: %w", ErrWindowNotFound, err)
	}

	l.logger.Info("target window found", "bounds", bounds.String(), "client", bounds.ClientOrigin.String())
	return bounds, nil
}
