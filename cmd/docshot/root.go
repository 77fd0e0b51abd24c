package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	// exitOK is returned on normal completion, even when sections failed.
	exitOK = 0

	// exitFatal is returned when the run was aborted.
	exitFatal = 1

	// exitUsage is returned for an invalid invocation.
	exitUsage = 2
)

// exitError carries the exit code a command failure maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// usageError marks err as an invalid invocation.
func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// exitCode returns the process exit code for err.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFatal
}

// NewRootCmd creates the root command for docshot.
// The root command itself performs the capture run.
func NewRootCmd() *cobra.Command {
	cmd := newCaptureCmd()
	cmd.Version = getVersion()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
