/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists employees, rate histories, work logs, adjustments, finance
  records, leave requests, holidays and closed payroll months. Rows are
  mapped with sqlx; the schema lives in embedded goose migrations.

KEY TABLES:
  employees, rates:  Profiles and their rate history (rates.seq keeps write order)
  work_logs:         One row per work day, detail stored as kind + JSON
  adjustments:       Extra/discount per employee and month
  houses, revenues, expenses: Finance inputs
  leave_requests, holidays:   Leave workflow
  payroll_runs:      Closing snapshot, unique per month

INDEXES:
  - idx_work_logs_employee_date: Payroll and payslip range scans (hot path)
  - idx_work_logs_date: Dashboard trailing-days chart
  - idx_rates_employee: Rate history in write order

CONCURRENCY:
  Writes are serialized with a mutex. ":memory:" databases are pinned to a
  single connection, otherwise every pooled connection would see its own
  empty database.

USAGE:
  st, err := sqlite.New(ctx, "./data/workforce.db")
  if err != nil {
      return err
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/paralelo/workforce/store"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements store.Store using SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dbPath without touching the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// New opens dbPath and applies pending migrations.
// Use ":memory:" for an in-memory database.
func New(ctx context.Context, dbPath string) (*Store, error) {
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// MIGRATIONS
// =============================================================================

func (s *Store) setupGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetTableName("schema_migrations")
	goose.SetLogger(gooseLogger{})
	return goose.SetDialect("sqlite3")
}

// Migrate applies every pending migration.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.setupGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db.DB, migrationsDir)
}

// Rollback reverts the latest applied migration.
func (s *Store) Rollback(ctx context.Context) error {
	if err := s.setupGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, s.db.DB, migrationsDir)
}

// SchemaVersion returns the latest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	if err := s.setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, s.db.DB)
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Reset deletes all rows, keeping the schema.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"payroll_runs", "holidays", "leave_requests", "expenses", "revenues",
		"adjustments", "work_logs", "rates", "employees", "houses",
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset %s: %w", t, err)
			}
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name IN ('houses', 'rates')`)
		return err
	})
}

func exists(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

func isUniqueConstraintError(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func affected(res interface{ RowsAffected() (int64, error) }, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
