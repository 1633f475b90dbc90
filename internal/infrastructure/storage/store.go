package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Store persists every dashboard table in a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the parent directory if needed, opens the database and
// applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Seed inserts the default content pillars and competitors. Existing rows
// are left alone.
func (s *Store) Seed(ctx context.Context) error {
	for _, stmt := range seedStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// TableCount is one line of a database check.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// CheckReport is the result of an integrity check.
type CheckReport struct {
	Integrity string       `json:"integrity"`
	Tables    []TableCount `json:"tables"`
}

// Check runs the SQLite integrity check and counts rows per table.
func (s *Store) Check(ctx context.Context) (CheckReport, error) {
	var report CheckReport
	if err := s.db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&report.Integrity); err != nil {
		return report, fmt.Errorf("integrity check: %w", err)
	}

	names, err := s.Query(ctx, sq.Select("name").From("sqlite_master").
		Where(sq.Eq{"type": "table"}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name"))
	if err != nil {
		return report, err
	}

	for _, row := range names {
		name, _ := row["name"].(string)
		if _, ok := tables[name]; !ok {
			continue
		}
		var count int64
		query, args, err := sq.Select("COUNT(*)").From(name).ToSql()
		if err != nil {
			return report, fmt.Errorf("build count: %w", err)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return report, fmt.Errorf("count %s: %w", name, err)
		}
		report.Tables = append(report.Tables, TableCount{Table: name, Rows: count})
	}
	return report, nil
}

// Health returns an error when the database is unreachable.
func (s *Store) Health(ctx context.Context) error {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&v); err != nil {
		return fmt.Errorf("db health: %w", err)
	}
	return nil
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

const dateLayout = "2006-01-02"
