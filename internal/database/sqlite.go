// Package database stores the operation journal in SQLite.
package database

import (
	"database/sql"
	"fmt"

	"tilecfg/internal/core"
	"tilecfg/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements core.Journal on a SQLite database.
type SQLiteJournal struct {
	db    *sql.DB
	clock core.Clock
	path  string
}

// NewSQLiteJournal opens the journal at path, migrating the schema as
// needed. path can be ":memory:".
func NewSQLiteJournal(path string, clock core.Clock) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db, clock: clock, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure journal: %w", err)
	}
	return db, nil
}

// Path is the database file, or ":memory:".
func (j *SQLiteJournal) Path() string { return j.path }

func (j *SQLiteJournal) Begin(operation, target, detail string) (int64, error) {
	res, err := j.db.Exec(
		`INSERT INTO operations (operation, target, detail, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		operation, target, detail, core.StatusRunning, j.clock.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recording operation: %w", err)
	}
	return id, nil
}

// Finish sets the final status. An empty detail keeps the one given to Begin.
func (j *SQLiteJournal) Finish(id int64, status, detail string) error {
	res, err := j.db.Exec(
		`UPDATE operations
		    SET status = ?, finished_at = ?, detail = CASE WHEN ? = '' THEN detail ELSE ? END
		  WHERE id = ?`,
		status, j.clock.Now().UTC(), detail, detail, id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("operation %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// List returns up to limit operations, newest first. A limit of zero or
// less returns everything.
func (j *SQLiteJournal) List(limit int) ([]*core.OperationRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(
		`SELECT id, operation, target, detail, status, started_at, finished_at
		   FROM operations
		  ORDER BY id DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var out []*core.OperationRecord
	for rows.Next() {
		var (
			rec      core.OperationRecord
			finished sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Operation, &rec.Target, &rec.Detail, &rec.Status, &rec.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("listing operations: %w", err)
		}
		rec.StartedAt = rec.StartedAt.Local()
		if finished.Valid {
			t := finished.Time.Local()
			rec.FinishedAt = &t
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteJournal implements core.Journal
var _ core.Journal = (*SQLiteJournal)(nil)

// NopJournal records nothing.
type NopJournal struct{}

func (NopJournal) Begin(string, string, string) (int64, error) { return 0, nil }
func (NopJournal) Finish(int64, string, string) error          { return nil }
func (NopJournal) List(int) ([]*core.OperationRecord, error)   { return nil, nil }
func (NopJournal) Close() error                                { return nil }

var _ core.Journal = NopJournal{}
