package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nao1215/docshot/internal/poll"
)

// WaitReady blocks until the feed file exists and parses, or timeout
// elapses. File system events from the feed's directory wake the wait
// early; interval bounds the wait between checks when no event arrives
// (or when the directory cannot be watched).
func (f *FileFeed) WaitReady(ctx context.Context, interval, timeout time.Duration, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Debug("telemetry watch unavailable, polling only", "error", err)
		watcher = nil
	} else {
		defer watcher.Close()
		if err := watcher.Add(f.Dir()); err != nil {
			logger.Debug("cannot watch telemetry directory, polling only", "dir", f.Dir(), "error", err)
		}
	}

	clock := &eventClock{watcher: watcher, path: f.path}
	return poll.UntilWithClock(ctx, clock, func(context.Context) (*Snapshot, bool, error) {
		snap, err := f.Read()
		if err != nil {
			return nil, false, err
		}
		return snap, true, nil
	}, interval, timeout)
}

// eventClock sleeps like the wall clock but returns early when the feed
// file is written.
type eventClock struct {
	watcher *fsnotify.Watcher
	path    string
}

func (c *eventClock) Now() time.Time { return time.Now() }

func (c *eventClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.watcher == nil {
		return poll.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return poll.Sleep(ctx, d)
			}
			if ev.Name == c.path && (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) {
				return nil
			}
		case _, ok := <-c.watcher.Errors:
			if !ok {
				return poll.Sleep(ctx, d)
			}
		}
	}
}
