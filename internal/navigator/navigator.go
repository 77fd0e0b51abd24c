// Package navigator drives the target application into a requested UI
// state by clicking elements resolved through the introspection feed.
package navigator

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/docshot/internal/model"
	"github.com/nao1215/docshot/internal/poll"
	"github.com/nao1215/docshot/internal/telemetry"
)

// DefaultSettleDelay is how long to wait after a click for the target to
// finish its transition and repaint. It is an upper bound on the target's
// update latency, not a completion signal.
const DefaultSettleDelay = 500 * time.Millisecond

// Clicker injects a synthetic pointer click at a screen point.
type Clicker interface {
	Click(ctx context.Context, p model.Point) error
}

// Navigator clicks navigation elements and waits for the UI to settle.
type Navigator struct {
	feed    telemetry.Feed
	clicker Clicker
	origin  model.Point
	settle  time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithSettleDelay sets the post-click delay.
func WithSettleDelay(d time.Duration) Option {
	return func(n *Navigator) {
		n.settle = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithSleeper replaces the settle sleep, for tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(n *Navigator) {
		n.sleep = sleep
	}
}

// New creates a Navigator. origin is the window client-area origin that
// feed coordinates are relative to.
func New(feed telemetry.Feed, clicker Clicker, origin model.Point, opts ...Option) *Navigator {
	n := &Navigator{
		feed:    feed,
		clicker: clicker,
		origin:  origin,
		settle:  DefaultSettleDelay,
		sleep:   poll.Sleep,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	return n
}

// Navigate resolves token and clicks the element's center, then waits the
// settle delay. It returns false without clicking when the element cannot
// be resolved, and false when the click or the wait fails. It never
// inspects the UI after clicking.
func (n *Navigator) Navigate(ctx context.Context, token string) bool {
	elem, err := n.feed.Resolve(ctx, token)
	if err != nil {
		n.logger.Warn("navigation element unresolved", "element", token, "error", err)
		return false
	}

	target := n.origin.Add(elem.Center())
	n.logger.Debug("clicking navigation element", "element", token, "point", target.String())

	if err := n.clicker.Click(ctx, target); err != nil {
		n.logger.Warn("click failed", "element", token, "point", target.String(), "error", err)
		return false
	}

	if err := n.sleep(ctx, n.settle); err != nil {
		n.logger.Warn("settle wait interrupted", "element", token, "error", err)
		return false
	}

	return true
}
