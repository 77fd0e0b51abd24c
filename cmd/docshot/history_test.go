package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/docshot/internal/database"
	"github.com/nao1215/docshot/internal/model"
)

// seedHistory records two runs and returns the database directory.
func seedHistory(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-old", "run-new"} {
		r := cannedReport()
		r.RunID = id
		r.StartedAt = base.Add(time.Duration(i) * time.Hour)
		r.FinishedAt = r.StartedAt.Add(time.Minute)
		r.Results[0].Digest = "digest-" + id
		if err := db.SaveRun(context.Background(), r); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	return dir
}

func executeHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("no database", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No run history found") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", seedHistory(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "run-old") || !strings.Contains(out, "run-new") {
			t.Errorf("expected both runs in output:\n%s", out)
		}
	})

	t.Run("lists runs as JSON with limit", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", seedHistory(t), "--json", "-n", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []model.RunSummary
		if err := json.Unmarshal([]byte(out), &runs); err != nil {
			t.Fatalf("failed to parse JSON: %v\n%s", err, out)
		}
		if len(runs) != 1 || runs[0].RunID != "run-new" {
			t.Errorf("expected newest run only, got %+v", runs)
		}
	})

	t.Run("section history", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", seedHistory(t), "--section", "alpha", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var records []model.CaptureRecord
		if err := json.Unmarshal([]byte(out), &records); err != nil {
			t.Fatalf("failed to parse JSON: %v\n%s", err, out)
		}
		if len(records) != 2 || records[0].Digest != "digest-run-new" || records[1].Digest != "digest-run-old" {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("shows one run", func(t *testing.T) {
		t.Parallel()

		out, err := executeHistory(t, "--db-dir", seedHistory(t), "run-old")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
			t.Errorf("expected report sections in output:\n%s", out)
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		_, err := executeHistory(t, "--db-dir", seedHistory(t), "nope")
		if err == nil {
			t.Fatal("expected error")
		}
		if exitCode(err) != exitUsage {
			t.Errorf("expected usage exit code, got %d", exitCode(err))
		}
	})
}
