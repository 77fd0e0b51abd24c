package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// TelemetryEnv enables the showcase's introspection feed.
	TelemetryEnv = "BEVY_TELEMETRY=1"

	// DefaultShutdownGrace is how long Stop waits before killing.
	DefaultShutdownGrace = 5 * time.Second
)

// DefaultCommand builds and runs the showcase with telemetry enabled.
func DefaultCommand() []string {
	return []string{"cargo", "run", "--example", "showcase", "--", "--telemetry"}
}

// Handle is a running target process.
type Handle interface {
	// Pid returns the process id.
	Pid() int

	// Done is closed once the process has exited.
	Done() <-chan struct{}

	// Stop terminates the process. Only the first call has any effect.
	Stop() error
}

// Launcher starts target processes.
type Launcher interface {
	Launch(ctx context.Context) (Handle, error)
}

// ExecLauncher launches a command with os/exec.
type ExecLauncher struct {
	command []string
	dir     string
	env     []string
	grace   time.Duration
	logger  *slog.Logger
}

// Option configures an ExecLauncher.
type Option func(*ExecLauncher)

// WithDir sets the working directory of the child.
func WithDir(dir string) Option {
	return func(l *ExecLauncher) {
		l.dir = dir
	}
}

// WithEnv adds KEY=VALUE pairs to the child environment.
func WithEnv(env ...string) Option {
	return func(l *ExecLauncher) {
		l.env = append(l.env, env...)
	}
}

// WithShutdownGrace sets how long Stop waits before killing.
func WithShutdownGrace(d time.Duration) Option {
	return func(l *ExecLauncher) {
		l.grace = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *ExecLauncher) {
		l.logger = logger
	}
}

// New creates an ExecLauncher for command. An empty command falls back to
// DefaultCommand.
func New(command []string, opts ...Option) *ExecLauncher {
	if len(command) == 0 {
		command = DefaultCommand()
	}
	l := &ExecLauncher{
		command: append([]string(nil), command...),
		grace:   DefaultShutdownGrace,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Command returns the argv the launcher runs.
func (l *ExecLauncher) Command() []string {
	return append([]string(nil), l.command...)
}

// Launch starts the process. Output of the child is discarded. The context
// only guards the start; the process outlives it until Stop is called.
func (l *ExecLauncher) Launch(ctx context.Context) (Handle, error) {
	if len(l.command) == 0 || l.command[0] == "" {
		return nil, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(l.command[0], l.command[1:]...) //nolint:gosec // command comes from the user's configuration
	cmd.Dir = l.dir
	cmd.Env = append(os.Environ(), TelemetryEnv)
	cmd.Env = append(cmd.Env, l.env...)
	setProcessGroup(cmd)

	l.logger.Debug("launching target", "command", l.command, "dir", l.dir, "env", l.env)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartFailed, err)
	}

	p := &Process{
		cmd:    cmd,
		done:   make(chan struct{}),
		grace:  l.grace,
		logger: l.logger,
	}
	p.group.Go(func() error {
		defer close(p.done)
		return cmd.Wait()
	})

	l.logger.Info("target launched", "pid", cmd.Process.Pid)
	return p, nil
}

// Process is a child started by ExecLauncher.
type Process struct {
	cmd    *exec.Cmd
	done   chan struct{}
	group  errgroup.Group
	grace  time.Duration
	logger *slog.Logger

	once    sync.Once
	stopErr error
}

// Pid implements Handle.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done implements Handle.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Stop implements Handle. It signals the process group to terminate and
// kills it if it is still alive after the grace period. Stop blocks until
// the process has exited. Later calls return the first call's result.
func (p *Process) Stop() error {
	p.once.Do(func() {
		p.stopErr = p.stop()
	})
	return p.stopErr
}

func (p *Process) stop() error {
	if p.Exited() {
		if err := p.group.Wait(); err != nil {
			p.logger.Warn("target exited before it was stopped", "pid", p.Pid(), "error", err)
		} else {
			p.logger.Debug("target already exited", "pid", p.Pid())
		}
		return nil
	}

	if err := terminate(p.cmd.Process); err != nil {
		p.logger.Debug("terminate signal failed", "pid", p.Pid(), "error", err)
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
		p.logger.Debug("target terminated", "pid", p.Pid())
		return nil
	case <-timer.C:
	}

	p.logger.Warn("target did not exit after grace period, killing", "pid", p.Pid(), "grace", p.grace)
	if err := kill(p.cmd.Process); err != nil {
		return fmt.Errorf("failed to kill target process %d: %w", p.Pid(), err)
	}
	<-p.done
	return nil
}
