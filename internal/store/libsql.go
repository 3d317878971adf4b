package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/venegas/diagcheck/pkg/schema"
)

// LibSQLStore implements the Store interface using libSQL (embedded
// SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path and returns a
// Store. The path should be a file URI, e.g. "file:/path/to/db.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply connection-level PRAGMAs. Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// Vacuum runs VACUUM on the database.
func (s *LibSQLStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// AddValidation inserts a verdict record.
func (s *LibSQLStore) AddValidation(ctx context.Context, v *Validation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO validations
		 (id, request_id, diagram_type, valid, error, line, node_count, source_bytes, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.RequestID, string(v.DiagramType), boolToInt(v.Valid), nullableString(v.Error),
		v.Line, v.NodeCount, v.SourceBytes, v.DurationMs, timeOrNow(v.CreatedAt),
	)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "insert validation").WithCause(err)
	}
	return nil
}

// GetValidation fetches one record by ID.
func (s *LibSQLStore) GetValidation(ctx context.Context, id string) (*Validation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, request_id, diagram_type, valid, error, line, node_count, source_bytes, duration_ms, created_at
		 FROM validations WHERE id = ?`, id)

	v, err := scanValidation(row)
	if err == sql.ErrNoRows {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "validation %s not found", id)
	}
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "get validation").WithCause(err)
	}
	return v, nil
}

// ListValidations returns records matching the filter, newest first.
func (s *LibSQLStore) ListValidations(ctx context.Context, filter Filter) ([]*Validation, error) {
	query := `SELECT id, request_id, diagram_type, valid, error, line, node_count, source_bytes, duration_ms, created_at
	          FROM validations`
	var conds []string
	var args []any

	if filter.Valid != nil {
		conds = append(conds, "valid = ?")
		args = append(args, boolToInt(*filter.Valid))
	}
	if filter.DiagramType != "" {
		conds = append(conds, "diagram_type = ?")
		args = append(args, string(filter.DiagramType))
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "list validations").WithCause(err)
	}
	defer rows.Close()

	var out []*Validation
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, schema.NewError(schema.ErrCodeStore, "scan validation").WithCause(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "iterate validations").WithCause(err)
	}
	return out, nil
}

// Stats aggregates the recorded history.
func (s *LibSQLStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByType: make(map[string]int64)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(valid), 0),
		        COALESCE(AVG(duration_ms), 0),
		        MIN(created_at),
		        MAX(created_at)
		 FROM validations`)

	var oldest, newest sql.NullTime
	if err := row.Scan(&st.Total, &st.Passed, &st.AvgMs, &oldest, &newest); err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "aggregate stats").WithCause(err)
	}
	st.Failed = st.Total - st.Passed
	if oldest.Valid {
		t := oldest.Time.UTC()
		st.Oldest = &t
	}
	if newest.Valid {
		t := newest.Time.UTC()
		st.Newest = &t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT diagram_type, COUNT(*) FROM validations GROUP BY diagram_type`)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "stats by type").WithCause(err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var count int64
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, schema.NewError(schema.ErrCodeStore, "scan stats row").WithCause(err)
		}
		st.ByType[typ] = count
	}
	if err := rows.Err(); err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "iterate stats").WithCause(err)
	}
	return st, nil
}

// Prune deletes records older than the cutoff.
func (s *LibSQLStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM validations WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, schema.NewError(schema.ErrCodeStore, "prune validations").WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, schema.NewError(schema.ErrCodeStore, "prune rows affected").WithCause(err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanValidation(row rowScanner) (*Validation, error) {
	v := &Validation{}
	var requestID, errMsg sql.NullString
	var valid int
	var typ string
	if err := row.Scan(&v.ID, &requestID, &typ, &valid, &errMsg,
		&v.Line, &v.NodeCount, &v.SourceBytes, &v.DurationMs, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.RequestID = requestID.String
	v.Error = errMsg.String
	v.Valid = valid != 0
	v.DiagramType = schema.DiagramType(typ)
	v.CreatedAt = v.CreatedAt.UTC()
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
