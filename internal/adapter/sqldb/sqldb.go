// Package sqldb implements the domain repositories on top of sqlx. It speaks
// to PostgreSQL through lib/pq ("postgres") or pgx ("pgx"), and to SQLite
// through modernc.org/sqlite ("sqlite").
package sqldb

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bodymetrics/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrationsFS embed.FS

// dialects maps database/sql driver names to goose dialects and migration
// directories.
var dialects = map[string]struct{ goose, dir string }{
	"postgres": {"postgres", "postgres"},
	"pgx":      {"postgres", "postgres"},
	"sqlite":   {"sqlite3", "sqlite"},
}

// DB wraps a *sqlx.DB and implements the domain repository interfaces.
type DB struct {
	db     *sqlx.DB
	driver string
}

var _ domain.UserRepository = (*DB)(nil)
var _ domain.MeasurementTypeRepository = (*DB)(nil)
var _ domain.MeasurementRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)

// Open connects using driver, pings, and runs the embedded migrations.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if driver == "sqlite" {
		if file := sqliteFile(dsn); file != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		dsn = sqliteDSN(dsn)
	}

	s, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// a single connection that is never recycled, or ":memory:" loses its schema
		s.SetMaxOpenConns(1)
		s.SetMaxIdleConns(1)
		s.SetConnMaxLifetime(0)
	} else {
		s.SetMaxOpenConns(10)
		s.SetMaxIdleConns(5)
		s.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{db: s, driver: driver}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	log.WithField("driver", driver).Info("database connected")
	return d, nil
}

// sqliteFile strips the query parameters from a sqlite DSN.
func sqliteFile(dsn string) string {
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		return dsn[:i]
	}
	return dsn
}

// sqliteDSN adds the foreign_keys pragma to dsn. The driver applies
// _pragma parameters to every connection it opens.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	dialect := dialects[d.driver]
	dir, err := fs.Sub(migrationsFS, "migrations/"+dialect.dir)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	goose.SetBaseFS(dir)
	goose.SetLogger(log.StandardLogger())
	if err := goose.SetDialect(dialect.goose); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, d.db.DB, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// rebind converts a query written with ? placeholders to the driver's
// bindvar style.
func (d *DB) rebind(query string) string {
	return d.db.Rebind(query)
}

// isUniqueViolation reports whether err is a unique constraint failure from
// any of the supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// mustAffect maps a write that touched no row to domain.ErrNotFound.
func mustAffect(res interface{ RowsAffected() (int64, error) }, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
