package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/agbru/ulam/internal/spiral"
)

//go:embed schema.sql
var schemaSQL string

const insertCoordinate = `INSERT INTO coordinates (idx, x, y, ring) VALUES (?, ?, ?, ?)`

// SQLiteSink stores coordinates in the coordinates table of a SQLite
// database, one transaction per batch. Opening a sink empties the table, so a
// database always holds exactly one run.
type SQLiteSink struct {
	db    *sql.DB
	path  string
	index uint64
}

// OpenSQLiteSink creates or opens the database at path and prepares the
// coordinates table.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		schemaSQL,
		"DELETE FROM coordinates",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}
	return &SQLiteSink{db: db, path: path}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Path returns the database location the sink was opened with.
func (s *SQLiteSink) Path() string { return s.path }

func (s *SQLiteSink) Write(batch []spiral.Coord[int64]) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(insertCoordinate)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	index := s.index
	for _, c := range batch {
		if _, err := stmt.Exec(int64(index), c.X, c.Y, c.Chebyshev()); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert coordinate %d: %w", index, err)
		}
		index++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	s.index = index
	return nil
}

// Count returns the number of stored coordinates.
func (s *SQLiteSink) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM coordinates").Scan(&n)
	return n, err
}

// Coordinates returns up to limit stored coordinates in visit order.
func (s *SQLiteSink) Coordinates(ctx context.Context, limit int) ([]spiral.Coord[int64], error) {
	rows, err := s.db.QueryContext(ctx, "SELECT x, y FROM coordinates ORDER BY idx LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []spiral.Coord[int64]
	for rows.Next() {
		var c spiral.Coord[int64]
		if err := rows.Scan(&c.X, &c.Y); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
