// Package storage picks and opens the backing database.
//
// A postgres:// (or postgresql://) DATABASE_URL selects PostgreSQL; anything
// else falls back to the SQLite file at DB_PATH. Either way the caller gets
// the same Store: two repositories, a transaction helper for the catalog and
// the lifecycle methods.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/game-portal/internal/dbx"
	"github.com/sakif/game-portal/internal/repository"
	"github.com/sakif/game-portal/internal/repository/migrations"
	"github.com/sakif/game-portal/internal/repository/postgres"
	"github.com/sakif/game-portal/internal/repository/sqlite"
)

type Store struct {
	// Driver is migrations.DriverSQLite or migrations.DriverPostgres.
	Driver string
	Users  repository.UserRepository
	Games  repository.GameRepository

	conn    *sql.DB
	gamesTx func(dbx.DBTX) repository.GameRepository
}

// IsPostgresURL reports whether dsn selects the PostgreSQL store.
func IsPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the configured database and brings its schema up to date.
func Open(ctx context.Context, databaseURL, dbPath string) (*Store, error) {
	if IsPostgresURL(databaseURL) {
		db, err := postgres.New(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:  migrations.DriverPostgres,
			Users:   db.Users(),
			Games:   db.Games(),
			conn:    db.Conn(),
			gamesTx: func(tx dbx.DBTX) repository.GameRepository { return postgres.GamesTx(tx) },
		}, nil
	}
	if databaseURL != "" {
		return nil, fmt.Errorf("storage: unsupported DATABASE_URL scheme in %q", redact(databaseURL))
	}

	db, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:  migrations.DriverSQLite,
		Users:   db.Users(),
		Games:   db.Games(),
		conn:    db.Conn(),
		gamesTx: func(tx dbx.DBTX) repository.GameRepository { return sqlite.GamesTx(tx) },
	}, nil
}

// CatalogTx runs fn against a catalog store bound to one transaction.
// Its signature matches seed.CatalogTx.
func (s *Store) CatalogTx(ctx context.Context, fn func(games repository.GameRepository) error) error {
	return dbx.WithTx(ctx, s.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(s.gamesTx(tx))
	})
}

// SchemaVersion reports the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, s.conn, s.Driver)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// redact drops everything before the host so passwords never reach a log line.
func redact(dsn string) string {
	if i := strings.LastIndex(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
	}
	return dsn
}
