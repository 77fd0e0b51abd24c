package desktop

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Commander runs an external program and returns its stdout.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecCommander runs programs with os/exec.
type ExecCommander struct{}

// Run executes name with args. A non-zero exit returns a *CommandError
// carrying stderr.
func (ExecCommander) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		op := name
		if len(args) > 0 {
			op += " " + args[0]
		}
		return stdout.String(), &CommandError{
			Op:     op,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return stdout.String(), nil
}
