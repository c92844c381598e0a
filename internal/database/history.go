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

	"github.com/nao1215/missionscan/internal/model"
)

// HistoryDB keeps one row per scan run.
type HistoryDB struct {
	db   *sql.DB
	path string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file and its directory.
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

// Open opens or creates the history database at path.
// With CreateIfNotExists false a missing file is ErrNotFound.
func Open(path string, opts Options) (*HistoryDB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create the file; mode=rwc allows it.
	dsn := path + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, path: path}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.path
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_root TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		sessions INTEGER NOT NULL,
		missions INTEGER NOT NULL,
		complete INTEGER NOT NULL DEFAULT 1,
		document_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_source ON scans(source_root);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// ScanMetadata summarizes a stored scan without its document.
type ScanMetadata struct {
	ID int64

	SourceRoot string

	// GeneratedAt is the document timestamp, in model.GeneratedAtLayout.
	GeneratedAt string

	// Timestamp is when the row was written, in UTC.
	Timestamp time.Time

	Sessions int
	Missions int

	// Complete is false for a scan that stopped early.
	Complete bool
}

// SaveScan stores doc and returns the new scan id.
func (h *HistoryDB) SaveScan(ctx context.Context, doc *model.Document, complete bool) (int64, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize document: %w", err)
	}

	query := `
	INSERT INTO scans (source_root, generated_at, sessions, missions, complete, document_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		doc.SourceRoot,
		doc.GeneratedAt,
		len(doc.Sessions),
		doc.MissionCount(),
		complete,
		string(docJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read scan id: %w", err)
	}
	return id, nil
}

// ListScans returns scan metadata newest first.
// An empty sourceRoot lists every scan.
func (h *HistoryDB) ListScans(ctx context.Context, sourceRoot string) ([]ScanMetadata, error) {
	query := `
	SELECT id, source_root, generated_at, timestamp, sessions, missions, complete
	FROM scans
	WHERE ? = '' OR source_root = ?
	ORDER BY id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, sourceRoot, sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.SourceRoot, &meta.GeneratedAt, &timestamp,
			&meta.Sessions, &meta.Missions, &meta.Complete); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetScan returns the document stored under id, or nil when there is none.
func (h *HistoryDB) GetScan(ctx context.Context, id int64) (*model.Document, error) {
	query := `
	SELECT document_json FROM scans
	WHERE id = ?
	`

	var docJSON string
	err := h.db.QueryRowContext(ctx, query, id).Scan(&docJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scan %d: %w", id, err)
	}
	return &doc, nil
}

// timestampFormats are the layouts SQLite may return, most specific first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when no layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
