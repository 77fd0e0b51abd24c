package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/docshot/internal/model"
)

// FileName is the database file inside the data directory.
const FileName = "docshot.db"

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for run reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run with --record to create it)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		mode TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		captured INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		fatal TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		section_id TEXT NOT NULL,
		status TEXT NOT NULL,
		path TEXT,
		width INTEGER,
		height INTEGER,
		cropped INTEGER NOT NULL DEFAULT 0,
		digest TEXT,
		reason TEXT,
		captured_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_captures_section ON captures(section_id);
	CREATE INDEX IF NOT EXISTS idx_captures_run ON captures(run_id);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run report and its per-section results.
func (h *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, started_at, finished_at, mode, output_dir, captured, failed, fatal, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		string(report.Mode),
		report.OutputDir,
		len(report.Captured),
		len(report.Failed),
		report.Fatal,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, r := range report.Results {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO captures (run_id, section_id, status, path, width, height, cropped, digest, reason, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			report.RunID,
			r.SectionID,
			r.Status.String(),
			r.Path,
			r.Width,
			r.Height,
			r.Cropped,
			r.Digest,
			r.Reason,
			formatTimestamp(r.CapturedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to save capture %s: %w", r.SectionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns all runs.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.QueryContext(ctx, `
	SELECT run_id, started_at, finished_at, mode, output_dir, captured, failed, fatal
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.RunSummary, 0)
	for rows.Next() {
		var (
			s                   model.RunSummary
			started, mode       string
			finished, fatalText sql.NullString
		)
		if err := rows.Scan(&s.RunID, &started, &finished, &mode, &s.OutputDir, &s.Captured, &s.Failed, &fatalText); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished.String)
		s.Mode = model.Mode(mode)
		s.Fatal = fatalText.String
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// GetRun returns the full report of a run.
func (h *HistoryDB) GetRun(ctx context.Context, runID string) (*model.RunReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE run_id = ?`, runID).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// SectionHistory returns the recorded outcomes of one section, newest first.
func (h *HistoryDB) SectionHistory(ctx context.Context, sectionID string, limit int) ([]model.CaptureRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.QueryContext(ctx, `
	SELECT run_id, section_id, status, path, width, height, cropped, digest, reason, captured_at
	FROM captures
	WHERE section_id = ?
	ORDER BY captured_at DESC, id DESC
	LIMIT ?
	`, sectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get section history: %w", err)
	}
	defer rows.Close()

	records := make([]model.CaptureRecord, 0)
	for rows.Next() {
		var (
			rec                  model.CaptureRecord
			status, capturedAt   string
			path, digest, reason sql.NullString
			width, height        sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.SectionID, &status, &path, &width, &height,
			&rec.Cropped, &digest, &reason, &capturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		if err := rec.Status.UnmarshalText([]byte(status)); err != nil {
			return nil, err
		}
		rec.Path = path.String
		rec.Width = int(width.Int64)
		rec.Height = int(height.Int64)
		rec.Digest = digest.String
		rec.Reason = reason.String
		rec.CapturedAt = parseTimestamp(capturedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// timestampLayout is fixed-width so that text ordering matches time
// ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
