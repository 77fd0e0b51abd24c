// Package poll provides a bounded retry combinator for poll-until-ready
// waits such as window discovery and feed readiness.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotReady is returned by a probe that has nothing yet. Probes may also
// return any other error; the last one is kept on the TimeoutError.
var ErrNotReady = errors.New("not ready")

// ErrTimeout is matched by TimeoutError.
var ErrTimeout = errors.New("poll timed out")

// TimeoutError reports that a probe did not succeed within the timeout.
type TimeoutError struct {
	Timeout  time.Duration
	Attempts int
	Last     error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil && !errors.Is(e.Last, ErrNotReady) {
		return fmt.Sprintf("timed out after %v (%d attempts): %v", e.Timeout, e.Attempts, e.Last)
	}
	return fmt.Sprintf("timed out after %v (%d attempts)", e.Timeout, e.Attempts)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap returns the last probe error.
func (e *TimeoutError) Unwrap() error {
	return e.Last
}

// Probe is one readiness attempt. It returns ok=true with a value when
// ready. A non-nil error does not stop polling.
type Probe[T any] func(ctx context.Context) (T, bool, error)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	return Sleep(ctx, d)
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until calls probe every interval until it succeeds or timeout elapses.
// The probe always runs at least once. Probes and sleeps share a context
// that expires at the deadline, so a probe that honors its context cannot
// hold the call past timeout. Cancellation of ctx stops polling and
// returns ctx.Err().
func Until[T any](ctx context.Context, probe Probe[T], interval, timeout time.Duration) (T, error) {
	return UntilWithClock(ctx, RealClock, probe, interval, timeout)
}

// UntilWithClock is Until with an explicit clock. The clock paces the
// attempts; the probe deadline always follows the wall clock.
func UntilWithClock[T any](ctx context.Context, clock Clock, probe Probe[T], interval, timeout time.Duration) (T, error) {
	var zero T
	start := clock.Now()
	deadline := start.Add(timeout)
	attempts := 0
	var last error

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	expired := func() (T, error) {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, &TimeoutError{Timeout: timeout, Attempts: attempts, Last: last}
	}

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attempts++
		v, ok, err := probe(pctx)
		if ok {
			return v, nil
		}
		if err != nil {
			last = err
		}

		remaining := deadline.Sub(clock.Now())
		if remaining <= 0 || pctx.Err() != nil {
			return expired()
		}

		wait := interval
		if wait > remaining {
			wait = remaining
		}
		if err := clock.Sleep(pctx, wait); err != nil {
			return expired()
		}
	}
}
