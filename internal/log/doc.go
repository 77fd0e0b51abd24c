// Package log builds the slog loggers used by docshot.
//
// Every logger is wrapped in a RedactingHandler. The target application is
// launched with user-supplied environment variables and those are logged
// at debug level; values of sensitive attributes and of sensitive
// KEY=VALUE pairs are masked before they reach the output.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, jsonOutput)
//	slog.SetDefault(logger)
//
//	logger.Debug("launching target",
//	    "env", []string{"GITHUB_TOKEN=ghp_x", "RUST_LOG=warn"}, // GITHUB_TOKEN=***REDACTED***
//	)
package log
