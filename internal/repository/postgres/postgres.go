// Package postgres implements the repository interfaces on PostgreSQL through
// the pgx database/sql driver. It is selected when DATABASE_URL carries a
// postgres:// or postgresql:// URL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// registers the "pgx" driver with database/sql
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sakif/game-portal/internal/repository/migrations"
)

// DB owns the connection pool. Users and Games hand out the two stores.
type DB struct {
	conn *sql.DB
}

// New connects to dsn, verifies the connection and applies migrations.
func New(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open(migrations.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	if _, err := migrations.Up(ctx, conn, migrations.DriverPostgres); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Wrap uses an already opened pool as is. No ping, no migrations.
func Wrap(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
