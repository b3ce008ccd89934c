// Package sqlstore implements store.Backend over database/sql. Sheets live in
// a "sheets" table and rows in "sheet_rows" with cells encoded as JSON arrays.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

// Dialect holds the statements that differ between engines.
type Dialect struct {
	Name        string
	InsertSheet string // args: name
	CountRows   string // args: sheet
	InsertRow   string // args: sheet, cells JSON
	SelectRows  string // args: sheet
	SheetExists string // args: name
}

var SQLite = Dialect{
	Name:        "sqlite",
	InsertSheet: `INSERT INTO sheets (name) VALUES (?) ON CONFLICT (name) DO NOTHING`,
	CountRows:   `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`,
	InsertRow:   `INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`,
	SelectRows:  `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`,
	SheetExists: `SELECT COUNT(*) FROM sheets WHERE name = ?`,
}

var Postgres = Dialect{
	Name:        "postgres",
	InsertSheet: `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
	CountRows:   `SELECT COUNT(*) FROM sheet_rows WHERE sheet = $1`,
	InsertRow:   `INSERT INTO sheet_rows (sheet, cells) VALUES ($1, $2::jsonb)`,
	SelectRows:  `SELECT cells::text FROM sheet_rows WHERE sheet = $1 ORDER BY id`,
	SheetExists: `SELECT COUNT(*) FROM sheets WHERE name = $1`,
}

// Store is a store.Backend over an already-migrated database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	closer  func() error
}

var _ store.Backend = (*Store)(nil)

// New wraps db. closer, when non-nil, runs on Close instead of db.Close.
func New(db *sql.DB, d Dialect, closer func() error, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if closer == nil {
		closer = db.Close
	}
	return &Store{db: db, dialect: d, logger: logger, closer: closer}
}

func (s *Store) Name() string { return s.dialect.Name }

func (s *Store) OpenOrCreate(ctx context.Context, name string) (store.Handle, bool, error) {
	if _, err := s.db.ExecContext(ctx, s.dialect.InsertSheet, name); err != nil {
		return store.Handle{}, false, fmt.Errorf("create sheet: %w", err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, s.dialect.CountRows, name).Scan(&n); err != nil {
		return store.Handle{}, false, fmt.Errorf("count rows: %w", err)
	}
	return store.Handle{Name: name, Backend: s.Name()}, n == 0, nil
}

func (s *Store) AppendRow(ctx context.Context, h store.Handle, values []string) error {
	cells, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.InsertRow, h.Name, string(cells)); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

func (s *Store) Rows(ctx context.Context, h store.Handle) ([][]string, error) {
	var exists int64
	if err := s.db.QueryRowContext(ctx, s.dialect.SheetExists, h.Name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup sheet: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownSheet, h.Name)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.SelectRows, h.Name)
	if err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("store.sql.rows_close_error", "error", err)
		}
	}()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode cells: %w", err)
		}
		out = append(out, store.PadRow(cells))
	}
	return out, rows.Err()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.closer() }
