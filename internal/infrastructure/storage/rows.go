package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Row is an untyped result row keyed by column name. Typed repositories are
// the primary access path; Row serves ad hoc summaries.
type Row map[string]any

// Query runs a select built with squirrel and returns every row.
func (s *Store) Query(ctx context.Context, q sq.Sqlizer) ([]Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// InsertRow inserts one row and returns its id.
func (s *Store) InsertRow(ctx context.Context, table string, data map[string]any) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, sq.Insert(table).SetMap(data))
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: last id: %w", table, err)
	}
	return id, nil
}

// UpdateRow updates one row by id. Tables with an updated_at column get it
// refreshed. It reports whether a row was changed.
func (s *Store) UpdateRow(ctx context.Context, table string, id int64, data map[string]any) (bool, error) {
	if err := checkTable(table); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}

	q := sq.Update(table).SetMap(data).Where(sq.Eq{"id": id})
	if tables[table] {
		q = q.Set("updated_at", sq.Expr("CURRENT_TIMESTAMP"))
	}
	res, err := s.exec(ctx, q)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", table, err)
	}
	return affected(res)
}

// DeleteRow deletes one row by id and reports whether it existed.
func (s *Store) DeleteRow(ctx context.Context, table string, id int64) (bool, error) {
	if err := checkTable(table); err != nil {
		return false, err
	}
	res, err := s.exec(ctx, sq.Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", table, err)
	}
	return affected(res)
}

func (s *Store) exec(ctx context.Context, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *Store) queryRow(ctx context.Context, q sq.Sqlizer) (*sql.Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.db.QueryRowContext(ctx, query, args...), nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func checkTable(table string) error {
	if _, ok := tables[table]; !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}
