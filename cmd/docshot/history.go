package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/docshot/internal/config"
	"github.com/nao1215/docshot/internal/database"
	"github.com/nao1215/docshot/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded capture runs",
		Long: `History shows the capture runs recorded with --record (or history.enabled
in the configuration file).

Without arguments it lists the most recent runs. With a run id it prints
that run's full report. With --section it lists how one section's
screenshot changed across runs (dimensions and digest).

Examples:
  # List the last 20 runs
  docshot history

  # Show the full report of one run
  docshot history 5f0c2d9e-7a44-4c1b-9d0e-2f6b8e1a3c77

  # Show how the button screenshot changed
  docshot history --section button

  # Machine-readable output
  docshot history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of entries to show (0 shows all)")
	cmd.Flags().StringP("section", "s", "",
		"Show the capture history of one section")
	cmd.Flags().BoolP("json", "j", false,
		"Output as JSON")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	sectionID, err := cmd.Flags().GetString("section")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No run history found.")
		fmt.Fprintln(out, "\nUse 'docshot --record' to record capture runs.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case len(args) == 1:
		return showRun(ctx, db, args[0], jsonOutput, out)
	case sectionID != "":
		return showSectionHistory(ctx, db, sectionID, limit, jsonOutput, out)
	default:
		return listRuns(ctx, db, limit, jsonOutput, out)
	}
}

// showRun prints the full report of one recorded run.
func showRun(ctx context.Context, db *database.HistoryDB, runID string, jsonOutput bool, out io.Writer) error {
	runReport, err := db.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return usageError(err)
		}
		return fmt.Errorf("failed to get run: %w", err)
	}

	var w report.Writer = report.NewSimpleWriter(out)
	if jsonOutput {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err = w.Write(runReport)
	return err
}

// showSectionHistory prints the recorded captures of one section.
func showSectionHistory(ctx context.Context, db *database.HistoryDB, sectionID string, limit int, jsonOutput bool, out io.Writer) error {
	records, err := db.SectionHistory(ctx, sectionID, limit)
	if err != nil {
		return fmt.Errorf("failed to get section history: %w", err)
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(records)
		return err
	}

	console := report.NewConsole(out)
	console.Captures(records)
	return nil
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int, jsonOutput bool, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(runs)
		return err
	}

	console := report.NewConsole(out)
	console.Runs(runs)
	return nil
}
