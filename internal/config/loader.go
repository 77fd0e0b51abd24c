package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/docshot/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".docshot"

// File represents the structure of the .docshot configuration file.
// Pointer fields distinguish "not set" from zero values.
type File struct {
	Target   TargetFile      `yaml:"target,omitempty"`
	Output   OutputFile      `yaml:"output,omitempty"`
	Timing   TimingFile      `yaml:"timing,omitempty"`
	Crop     CropFile        `yaml:"crop,omitempty"`
	Sections []model.Section `yaml:"sections,omitempty"`
	History  HistoryFile     `yaml:"history,omitempty"`
}

// TargetFile configures the application under capture.
type TargetFile struct {
	Command       []string `yaml:"command,omitempty"`
	Dir           string   `yaml:"dir,omitempty"`
	Env           []string `yaml:"env,omitempty"`
	WindowTitle   string   `yaml:"windowTitle,omitempty"`
	TelemetryFile string   `yaml:"telemetryFile,omitempty"`
}

// OutputFile configures where screenshots go.
type OutputFile struct {
	Dir string `yaml:"dir,omitempty"`
}

// TimingFile holds delays, written as Go durations ("500ms", "30s").
type TimingFile struct {
	Settle         *time.Duration `yaml:"settle,omitempty"`
	Pause          *time.Duration `yaml:"pause,omitempty"`
	Poll           *time.Duration `yaml:"poll,omitempty"`
	WindowTimeout  *time.Duration `yaml:"windowTimeout,omitempty"`
	StartupDelay   *time.Duration `yaml:"startupDelay,omitempty"`
	RenderWait     *time.Duration `yaml:"renderWait,omitempty"`
	ShutdownGrace  *time.Duration `yaml:"shutdownGrace,omitempty"`
	SectionTimeout *time.Duration `yaml:"sectionTimeout,omitempty"`
}

// CropFile configures the sidebar/title crop.
type CropFile struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	Left     *int  `yaml:"left,omitempty"`
	Top      *int  `yaml:"top,omitempty"`
	MinWidth *int  `yaml:"minWidth,omitempty"`
}

// HistoryFile configures the run history database.
type HistoryFile struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .docshot in the current directory
// 3. Look for .docshot in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Apply overlays the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	t := cf.Target
	if len(t.Command) > 0 {
		cfg.Command = append([]string(nil), t.Command...)
	}
	if t.Dir != "" {
		cfg.WorkDir = t.Dir
	}
	if len(t.Env) > 0 {
		cfg.Env = append(cfg.Env, t.Env...)
	}
	if t.WindowTitle != "" {
		cfg.WindowTitle = t.WindowTitle
	}
	if t.TelemetryFile != "" {
		cfg.TelemetryFile = t.TelemetryFile
	}
	if cf.Output.Dir != "" {
		cfg.OutputDir = cf.Output.Dir
	}

	setDuration(&cfg.SettleDelay, cf.Timing.Settle)
	setDuration(&cfg.CapturePause, cf.Timing.Pause)
	setDuration(&cfg.PollInterval, cf.Timing.Poll)
	setDuration(&cfg.WindowTimeout, cf.Timing.WindowTimeout)
	setDuration(&cfg.StartupDelay, cf.Timing.StartupDelay)
	setDuration(&cfg.RenderWait, cf.Timing.RenderWait)
	setDuration(&cfg.ShutdownGrace, cf.Timing.ShutdownGrace)
	setDuration(&cfg.SectionTimeout, cf.Timing.SectionTimeout)

	if cf.Crop.Enabled != nil {
		cfg.Crop = *cf.Crop.Enabled
	}
	setInt(&cfg.CropLeft, cf.Crop.Left)
	setInt(&cfg.CropTop, cf.Crop.Top)
	setInt(&cfg.CropMinWidth, cf.Crop.MinWidth)

	if len(cf.Sections) > 0 {
		cfg.Sections = append([]model.Section(nil), cf.Sections...)
	}

	if cf.History.Enabled != nil {
		cfg.Record = *cf.History.Enabled
	}
	if cf.History.Dir != "" {
		cfg.DBDir = cf.History.Dir
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
