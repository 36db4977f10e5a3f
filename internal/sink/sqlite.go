package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/lemon-sec/scavenger/internal/model"
)

// SQLiteSink persists results into a local SQLite database instead of (or
// alongside) the CSV sink, giving a queryable ledger of everything the
// pipeline has ever flagged across runs. It also doubles as the durable
// store an operator can query to resume an IdCursor from where a previous
// run left off (see LastImageID).
type SQLiteSink struct {
	db     *sql.DB
	dbPath string
	closed bool
	count  int
}

// OpenSQLiteSink opens or creates a results ledger at <dbDir>/scavenger.db.
func OpenSQLiteSink(dbDir string) (*SQLiteSink, error) {
	if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("sink: creating database directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, "scavenger.db")
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("sink: opening database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY errors under this sink's single-threaded access pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sink: enabling WAL mode: %w", err)
	}

	s := &SQLiteSink{db: db, dbPath: dbPath}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_id TEXT NOT NULL,
		author TEXT NOT NULL,
		details TEXT NOT NULL,
		extracted_text TEXT,
		flagged_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(image_id, author, details)
	);

	CREATE INDEX IF NOT EXISTS idx_results_image_id ON results(image_id);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	if err != nil {
		return fmt.Errorf("sink: creating schema: %w", err)
	}
	return nil
}

// Add implements Sink.
func (s *SQLiteSink) Add(result model.Result) error {
	if s.closed {
		return fmt.Errorf("sink: add called after close")
	}
	if result.ImageID == "" || result.Author == "" || result.Details == "" {
		return nil
	}

	query := `
	INSERT INTO results (image_id, author, details, extracted_text)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(image_id, author, details) DO NOTHING
	`
	_, err := s.db.ExecContext(context.Background(), query, result.ImageID, result.Author, result.Details, result.Text)
	if err != nil {
		return fmt.Errorf("sink: inserting result: %w", err)
	}
	s.count++
	return nil
}

// Print implements Sink.
func (s *SQLiteSink) Print() {
	fmt.Printf("%d result(s) recorded in %s\n", s.count, s.dbPath)
}

// Close implements Sink. Idempotent.
func (s *SQLiteSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// LastImageID returns the most recently recorded image id, or "" if the
// ledger is empty. An embedding CLI can feed this back into the default
// remote source's IdCursor to resume scanning across process restarts.
func (s *SQLiteSink) LastImageID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT image_id FROM results ORDER BY id DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sink: querying last image id: %w", err)
	}
	return id, nil
}

var _ Sink = (*SQLiteSink)(nil)
