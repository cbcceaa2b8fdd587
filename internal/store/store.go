// Package store keeps save slots and finished games in SQLite or Postgres.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tatianab/kingdom-crisis/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFS embed.FS

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is an open, migrated database.
type DB struct {
	dialect Dialect
	db      *sql.DB
}

// Open connects to dsn, a file path for sqlite or a connection string for
// postgres, and applies pending migrations.
func Open(ctx context.Context, dialect, dsn string) (*DB, error) {
	var driverName string
	switch Dialect(dialect) {
	case DialectSQLite:
		driverName = "sqlite"
		if dsn == "" {
			return nil, models.Detail(models.ErrStore, "sqlite needs a database path")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dsn)
	case DialectPostgres:
		driverName = "pgx"
		if dsn == "" {
			return nil, models.Detail(models.ErrStore, "postgres needs a connection string")
		}
	default:
		return nil, models.Detail(models.ErrStore, "unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if Dialect(dialect) == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	d := &DB{dialect: Dialect(dialect), db: db}
	if err := d.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error     { return d.db.Close() }
func (d *DB) Dialect() Dialect { return d.dialect }

func (d *DB) Sessions() *SessionRepo { return &SessionRepo{db: d} }
func (d *DB) Outcomes() *OutcomeRepo { return &OutcomeRepo{db: d} }

func (d *DB) bind(pos int) string {
	if d.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", pos)
	}
	return "?"
}

func (d *DB) binds(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.bind(i + 1)
	}
	return strings.Join(ph, ", ")
}

func (d *DB) applyMigrations(ctx context.Context) error {
	create := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at BIGINT NOT NULL
		)
	`
	if _, err := d.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := d.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan schema migration: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate schema migrations: %w", err)
	}
	rows.Close()

	files, err := fs.Glob(migrationFS, fmt.Sprintf("migrations/%s/*.sql", d.dialect))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		base := filepath.Base(file)
		if applied[base] {
			continue
		}
		sqlBytes, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration tx %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		q := fmt.Sprintf("INSERT INTO schema_migrations (version, applied_at) VALUES (%s)", d.binds(2))
		if _, err := tx.ExecContext(ctx, q, base, time.Now().Unix()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

func storeErr(op string, err error) error {
	return models.Wrap(models.ErrStore, fmt.Errorf("%s: %w", op, err))
}
