package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fsbridge/internal/fileops"
)

// Journal manages the SQLite database holding the operation history
type Journal struct {
	db *sql.DB
}

// Record is a single operation event
type Record struct {
	ID         string
	Timestamp  time.Time
	Verb       string
	Outcome    string
	Source     string
	Dest       string
	ObjectType string
	Bytes      int64
	ErrorKind  string
	Message    string
	DurationMs int64
	DryRun     bool
	CreatedAt  time.Time
}

// Open opens (creating if necessary) the journal database and
// initializes its schema
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// A trivial query both tests the connection and creates the file
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize journal (check permissions on %s): %w", dbPath, err)
	}

	// WAL allows a query binary to read while an operation records
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	j := &Journal{db: db}
	if err = j.initSchema(); err != nil {
		return nil, err
	}

	err = nil
	return j, nil
}

// initSchema creates tables and indexes if they don't exist
func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		verb TEXT NOT NULL,
		outcome TEXT NOT NULL,
		source TEXT NOT NULL,
		dest TEXT,
		object_type TEXT,
		bytes INTEGER NOT NULL DEFAULT 0,
		error_kind TEXT,
		message TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		dry_run INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ops_timestamp ON operations(timestamp);
	CREATE INDEX IF NOT EXISTS idx_ops_verb ON operations(verb);
	CREATE INDEX IF NOT EXISTS idx_ops_outcome ON operations(outcome);
	CREATE INDEX IF NOT EXISTS idx_ops_source ON operations(source);
	CREATE INDEX IF NOT EXISTS idx_ops_bytes ON operations(bytes);

	-- Metadata table for schema versioning
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Record inserts one finished operation into the journal
func (j *Journal) Record(res fileops.Result) error {
	when := res.When
	if when.IsZero() {
		when = time.Now()
	}

	query := `
	INSERT INTO operations (
		id, timestamp, verb, outcome, source, dest, object_type,
		bytes, error_kind, message, duration_ms, dry_run
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	dryRun := 0
	if res.DryRun {
		dryRun = 1
	}

	_, err := j.db.Exec(
		query,
		res.ID,
		when,
		string(res.Verb),
		string(res.Outcome),
		res.Source,
		res.Dest,
		objectType(res),
		res.Bytes,
		string(res.ErrKind),
		res.Message,
		res.Duration.Milliseconds(),
		dryRun,
	)

	return err
}

// objectType classifies the target for reporting queries
func objectType(res fileops.Result) string {
	switch res.Verb {
	case fileops.VerbMkdir:
		return "directory"
	case fileops.VerbTouch:
		return "file"
	}
	if res.Info != nil {
		return res.Info.Kind.String()
	}
	return res.Kind.String()
}

// Close closes the database connection
func (j *Journal) Close() error {
	return j.db.Close()
}

// Vacuum optimizes the database (run periodically)
func (j *Journal) Vacuum() error {
	_, err := j.db.Exec("VACUUM")
	return err
}

// PurgeOlderThan removes records older than the cutoff and returns
// how many were deleted
func (j *Journal) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := j.db.Exec("DELETE FROM operations WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
