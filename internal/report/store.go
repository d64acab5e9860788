// Package report persists benchmark timings to an append-only SQLite
// sink and renders accumulated records as comparison tables.
//
// The sink is shared across separate process runs: repeated invocations
// on different toolchains or configurations accumulate into one
// database, later rendered as an implementation x function matrix. The
// discipline is append-only with no concurrent writers.
package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Sink is an open report database. Not safe for concurrent use; the
// harness is single-threaded by design.
type Sink struct {
	db *sql.DB
}

// Open creates or opens the report database at the given path,
// applying pragmas and schema. The connection pool is limited to one
// connection: SQLite allows a single writer and the harness never
// needs more.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open report sink: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect report sink: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure report sink: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply report schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Append inserts one record. Records are write-once: a duplicate ID is
// an error, not an upsert, so no call can overwrite an earlier one.
func (s *Sink) Append(ctx context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records
		(id, run_id, created_at, group_label, series_label, source_label,
		 elapsed_seconds, calls, rows_used, rows_total,
		 mean_ns_per_call, stddev_ns_per_call)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.RunID,
		rec.CreatedAt,
		rec.Group,
		rec.Series,
		rec.Source,
		rec.ElapsedSeconds,
		rec.Calls,
		rec.RowsUsed,
		rec.RowsTotal,
		rec.MeanNsPerCall,
		rec.StddevNsPerCall,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// List returns all records in insertion order.
func (s *Sink) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, created_at, group_label, series_label, source_label,
		       elapsed_seconds, calls, rows_used, rows_total,
		       mean_ns_per_call, stddev_ns_per_call
		FROM records ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		err := rows.Scan(&r.ID, &r.RunID, &r.CreatedAt, &r.Group, &r.Series,
			&r.Source, &r.ElapsedSeconds, &r.Calls, &r.RowsUsed, &r.RowsTotal,
			&r.MeanNsPerCall, &r.StddevNsPerCall)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}
