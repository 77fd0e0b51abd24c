package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default command runs the showcase with telemetry", func(t *testing.T) {
		t.Parallel()
		want := []string{"cargo", "run", "--example", "showcase", "--", "--telemetry"}
		if !slices.Equal(cfg.Command, want) {
			t.Errorf("expected Command %v, got %v", want, cfg.Command)
		}
	})

	t.Run("default window title matches an untitled Bevy window", func(t *testing.T) {
		t.Parallel()
		if cfg.WindowTitle != "^App$" {
			t.Errorf("expected WindowTitle %q, got %q", "^App$", cfg.WindowTitle)
		}
	})

	t.Run("default delays", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			got  time.Duration
			want time.Duration
		}{
			{"settle", cfg.SettleDelay, 500 * time.Millisecond},
			{"pause", cfg.CapturePause, 300 * time.Millisecond},
			{"poll", cfg.PollInterval, time.Second},
			{"window timeout", cfg.WindowTimeout, 30 * time.Second},
			{"startup", cfg.StartupDelay, 5 * time.Second},
			{"render", cfg.RenderWait, time.Second},
			{"grace", cfg.ShutdownGrace, 5 * time.Second},
			{"section timeout", cfg.SectionTimeout, 0},
		}
		for _, tt := range tests {
			if tt.got != tt.want {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
			}
		}
	})

	t.Run("default crop is enabled with 280/60/400", func(t *testing.T) {
		t.Parallel()
		if !cfg.Crop || cfg.CropLeft != 280 || cfg.CropTop != 60 || cfg.CropMinWidth != 400 {
			t.Errorf("unexpected crop defaults: %v %d %d %d", cfg.Crop, cfg.CropLeft, cfg.CropTop, cfg.CropMinWidth)
		}
	})

	t.Run("default history is off", func(t *testing.T) {
		t.Parallel()
		if cfg.Record {
			t.Error("expected Record to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %s, got %s", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid defaults, got %v", err)
		}
	})
}

// TestConfigValidate tests the validation logic.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty command", func(c *Config) { c.Command = nil }, ErrEmptyCommand},
		{"empty program", func(c *Config) { c.Command = []string{""} }, ErrEmptyCommand},
		{"empty window title", func(c *Config) { c.WindowTitle = "" }, ErrEmptyWindowTitle},
		{"zero window timeout", func(c *Config) { c.WindowTimeout = 0 }, ErrInvalidWindowTimeout},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, ErrInvalidPollInterval},
		{"negative settle", func(c *Config) { c.SettleDelay = -time.Second }, ErrNegativeDelay},
		{"negative section timeout", func(c *Config) { c.SectionTimeout = -1 }, ErrNegativeDelay},
		{"negative crop", func(c *Config) { c.CropLeft = -1 }, ErrInvalidCrop},
		{"both report formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"zero delays are fine", func(c *Config) { c.StartupDelay, c.RenderWait = 0, 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigPaths(t *testing.T) {
	t.Parallel()

	t.Run("output dir defaults under work dir", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.WorkDir = "/work"
		want := filepath.Join("/work", "docs", "components", "screenshots")
		if got := cfg.ResolvedOutputDir(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("relative output dir resolves against work dir", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.WorkDir = "/work"
		cfg.OutputDir = "shots"
		if got := cfg.ResolvedOutputDir(); got != filepath.Join("/work", "shots") {
			t.Errorf("unexpected output dir %s", got)
		}
	})

	t.Run("absolute paths are kept", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.WorkDir = "/work"
		cfg.OutputDir = "/abs/out"
		cfg.TelemetryFile = "/abs/telemetry.json"
		if cfg.ResolvedOutputDir() != "/abs/out" || cfg.TelemetryPath() != "/abs/telemetry.json" {
			t.Errorf("unexpected paths %s %s", cfg.ResolvedOutputDir(), cfg.TelemetryPath())
		}
	})

	t.Run("telemetry defaults under work dir", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.WorkDir = "/work"
		if got := cfg.TelemetryPath(); got != filepath.Join("/work", "telemetry.json") {
			t.Errorf("unexpected telemetry path %s", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end with %s, got %s", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %s, got %s", AppName, XDGConfigDir())
	}
}
