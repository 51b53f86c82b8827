// Package migrations embeds the schema for both supported databases and
// applies it with goose.
//
// Each dialect has its own directory because the DDL differs (AUTOINCREMENT
// vs BIGSERIAL, INTEGER vs BOOLEAN). Version numbers are kept in lockstep:
// 00001 in sqlite/ and 00001 in postgres/ describe the same schema.
//
// goose records applied versions in its own goose_db_version table, so Up is
// safe to run on every start.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Up applies every pending migration for the given driver and returns the
// number of migrations that ran.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrations: applying: %w", err)
	}
	return len(results), nil
}

// Version reports the highest applied migration version.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	provider, err := newProvider(db, driver)
	if err != nil {
		return 0, err
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations: reading version: %w", err)
	}
	return v, nil
}

func newProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "postgres"
	default:
		return nil, fmt.Errorf("migrations: unsupported driver %q", driver)
	}

	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: opening %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("migrations: creating provider: %w", err)
	}
	return provider, nil
}
