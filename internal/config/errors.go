package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyCommand is returned when no launch command is configured.
	ErrEmptyCommand = errors.New("invalid target command: must not be empty")

	// ErrEmptyWindowTitle is returned when no window title pattern is set.
	ErrEmptyWindowTitle = errors.New("invalid window title: must not be empty")

	// ErrInvalidWindowTimeout is returned when the window timeout is not positive.
	ErrInvalidWindowTimeout = errors.New("invalid window timeout: must be positive")

	// ErrInvalidPollInterval is returned when the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrNegativeDelay is returned when any delay is negative.
	// Use 0 to skip a wait.
	ErrNegativeDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidCrop is returned when a crop margin is negative.
	ErrInvalidCrop = errors.New("invalid crop: margins must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
