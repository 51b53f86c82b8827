// Package sqlite implements the repository interfaces on SQLite, the default
// store when no DATABASE_URL is configured.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler at build time and painful
// cross-compilation. modernc.org/sqlite is a pure Go translation of SQLite.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB   — a connection pool (NOT a single connection!)
//   - sql.Tx   — a transaction
//   - sql.Row  — a single result row
//   - sql.Rows — multiple result rows (must be closed!)
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/game-portal/internal/repository/migrations"
)

// DB owns the connection pool. Users and Games hand out the two stores that
// implement repository.UserRepository and repository.GameRepository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, applies pragmas and runs migrations.
//
// dbPath examples:
//   - "data/portal.db" → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests; lost on close)
func New(ctx context.Context, dbPath string) (*DB, error) {
	conn, err := sql.Open(migrations.DriverSQLite, dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" gets its own private database. Pin the
	// pool to a single connection so the schema is visible to every query.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := migrations.Up(ctx, conn, migrations.DriverSQLite); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	return &DB{conn: conn}, nil
}

// connectionPragmas are applied by the driver to every connection it opens.
// A PRAGMA run once through the pool would only reach whichever connection
// happened to execute it.
//
//   - busy_timeout: writers wait up to 5s for the lock instead of failing
//     immediately with SQLITE_BUSY
//   - journal_mode(WAL): readers run while a write is in progress
var connectionPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// dsn appends the per-connection settings to dbPath.
//
// _txlock=immediate makes BEGIN take the write lock up front, so a transaction
// waits on busy_timeout at its start rather than failing when it first writes.
func dsn(dbPath string) string {
	params := url.Values{}
	for _, p := range connectionPragmas {
		params.Add("_pragma", p)
	}
	params.Set("_txlock", "immediate")

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + params.Encode()
}

// Conn exposes the pool for callers that need a transaction (dbx.WithTx).
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the database is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	// Without extended result codes the driver reports plain SQLITE_CONSTRAINT.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
