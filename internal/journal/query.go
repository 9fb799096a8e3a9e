package journal

import (
	"database/sql"
	"time"
)

const recordColumns = `id, timestamp, verb, outcome, source, dest, object_type,
       bytes, error_kind, message, duration_ms, dry_run, created_at`

// Recent returns the N most recent operations
func (j *Journal) Recent(limit int) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	ORDER BY timestamp DESC
	LIMIT ?
	`

	return j.queryRecords(query, limit)
}

// RecentPaginated returns a page of recent operations
func (j *Journal) RecentPaginated(limit, offset int) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	ORDER BY timestamp DESC
	LIMIT ? OFFSET ?
	`

	return j.queryRecords(query, limit, offset)
}

// ByVerb returns operations filtered by verb
func (j *Journal) ByVerb(verb string) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	WHERE verb = ?
	ORDER BY timestamp DESC
	`

	return j.queryRecords(query, verb)
}

// ByOutcome returns operations filtered by outcome
func (j *Journal) ByOutcome(outcome string) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	WHERE outcome = ?
	ORDER BY timestamp DESC
	`

	return j.queryRecords(query, outcome)
}

// ByPath returns operations whose source or dest matches a LIKE pattern
func (j *Journal) ByPath(pathPattern string) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	WHERE source LIKE ? OR dest LIKE ?
	ORDER BY timestamp DESC
	`

	return j.queryRecords(query, pathPattern, pathPattern)
}

// ByDateRange returns operations within a time range
func (j *Journal) ByDateRange(start, end time.Time) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	WHERE timestamp BETWEEN ? AND ?
	ORDER BY timestamp DESC
	`

	return j.queryRecords(query, start, end)
}

// Largest returns the N operations that touched the most bytes
func (j *Journal) Largest(limit int) ([]Record, error) {
	query := `
	SELECT ` + recordColumns + `
	FROM operations
	WHERE bytes > 0
	ORDER BY bytes DESC
	LIMIT ?
	`

	return j.queryRecords(query, limit)
}

// Stats summarizes activity over the last N days
type Stats struct {
	TotalOperations int64
	ByVerb          map[string]int64
	ByOutcome       map[string]int64
	BytesCopied     int64
	BytesRemoved    int64
}

// StatsSince aggregates activity over the last N days
func (j *Journal) StatsSince(days int) (*Stats, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	stats := &Stats{
		ByVerb:    make(map[string]int64),
		ByOutcome: make(map[string]int64),
	}

	err := j.db.QueryRow(
		"SELECT COUNT(*) FROM operations WHERE timestamp >= ?", cutoff,
	).Scan(&stats.TotalOperations)
	if err != nil {
		return nil, err
	}

	if err := j.countGrouped("verb", cutoff, stats.ByVerb); err != nil {
		return nil, err
	}
	if err := j.countGrouped("outcome", cutoff, stats.ByOutcome); err != nil {
		return nil, err
	}

	err = j.db.QueryRow(`
		SELECT COALESCE(SUM(bytes), 0) FROM operations
		WHERE verb IN ('cp', 'mv') AND outcome = 'success' AND timestamp >= ?`, cutoff,
	).Scan(&stats.BytesCopied)
	if err != nil {
		return nil, err
	}

	err = j.db.QueryRow(`
		SELECT COALESCE(SUM(bytes), 0) FROM operations
		WHERE verb = 'rm' AND outcome = 'success' AND timestamp >= ?`, cutoff,
	).Scan(&stats.BytesRemoved)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (j *Journal) countGrouped(column string, cutoff time.Time, into map[string]int64) error {
	// column is one of two hard-coded names, never user input
	rows, err := j.db.Query(
		"SELECT "+column+", COUNT(*) FROM operations WHERE timestamp >= ? GROUP BY "+column, cutoff)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

// queryRecords executes a query and scans results into Record structs
func (j *Journal) queryRecords(query string, args ...interface{}) ([]Record, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var dest, objectType, errorKind, message sql.NullString
		var dryRun int

		err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&r.Verb,
			&r.Outcome,
			&r.Source,
			&dest,
			&objectType,
			&r.Bytes,
			&errorKind,
			&message,
			&r.DurationMs,
			&dryRun,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		r.Dest = dest.String
		r.ObjectType = objectType.String
		r.ErrorKind = errorKind.String
		r.Message = message.String
		r.DryRun = dryRun != 0

		records = append(records, r)
	}

	return records, rows.Err()
}
