package main

import (
	"errors"
	"fmt"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "docshot" {
			t.Errorf("expected use 'docshot', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Error("expected log-json flag")
		}
	})

	t.Run("has capture flags", func(t *testing.T) {
		t.Parallel()
		for name, shorthand := range map[string]string{
			"section":  "s",
			"list":     "l",
			"no-crop":  "",
			"no-start": "",
			"config":   "c",
			"json":     "j",
			"markdown": "m",
			"output":   "o",
			"record":   "",
		} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Errorf("expected %s flag", name)
				continue
			}
			if flag.Shorthand != shorthand {
				t.Errorf("flag %s: expected shorthand %q, got %q", name, shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"history [run-id]": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected %q subcommand", use)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "plain error", err: base, want: exitFatal},
		{name: "usage error", err: usageError(base), want: exitUsage},
		{name: "wrapped usage error", err: fmt.Errorf("context: %w", usageError(base)), want: exitUsage},
		{name: "explicit fatal", err: &exitError{code: exitFatal, err: base}, want: exitFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("exit error unwraps", func(t *testing.T) {
		t.Parallel()
		err := usageError(base)
		if !errors.Is(err, base) {
			t.Error("expected errors.Is to find the wrapped error")
		}
		if err.Error() != "boom" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
