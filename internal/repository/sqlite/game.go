package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/dbx"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/repository"
)

var _ repository.GameRepository = (*GameStore)(nil)

// GameStore is the catalog half of the database. It runs against either the
// pool or an open transaction, whichever DBTX it was built with.
type GameStore struct {
	conn dbx.DBTX
}

// Games returns the catalog store bound to the pool.
func (db *DB) Games() *GameStore {
	return &GameStore{conn: db.conn}
}

// GamesTx returns a catalog store bound to an open transaction.
func GamesTx(tx dbx.DBTX) *GameStore {
	return &GameStore{conn: tx}
}

const gameColumns = `id, nombre, genero, plataforma, anio, descripcion, imagen_ruta, wikipedia_url`

// List returns every game ordered by id. There is no cache and no pagination:
// each call reads the table.
func (s *GameStore) List(ctx context.Context) ([]model.Game, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+gameColumns+` FROM juegos ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing games: %w", err)
	}
	// rows.Close() releases the connection back to the pool. Forgetting it
	// leaks connections until the pool is exhausted.
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning game: %w", err)
		}
		games = append(games, *g)
	}
	// rows.Err() surfaces errors that happened during iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating games: %w", err)
	}
	return games, nil
}

func (s *GameStore) Create(ctx context.Context, game *model.Game) error {
	err := s.conn.QueryRowContext(ctx,
		`INSERT INTO juegos (nombre, genero, plataforma, anio, descripcion, imagen_ruta, wikipedia_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		game.Name,
		game.Genre,
		game.Platform,
		game.Year,
		game.Description,
		game.ImagePath,
		game.WikipediaURL,
	).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("sqlite: creating game %q: %w", game.Name, err)
	}
	return nil
}

// Update overwrites every column. A missing row comes back as sql.ErrNoRows
// from RETURNING and is reported as NotFound.
func (s *GameStore) Update(ctx context.Context, game *model.Game) error {
	var id int64
	err := s.conn.QueryRowContext(ctx,
		`UPDATE juegos
		 SET nombre = ?, genero = ?, plataforma = ?, anio = ?, descripcion = ?, imagen_ruta = ?, wikipedia_url = ?
		 WHERE id = ?
		 RETURNING id`,
		game.Name,
		game.Genre,
		game.Platform,
		game.Year,
		game.Description,
		game.ImagePath,
		game.WikipediaURL,
		game.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("game", game.ID)
		}
		return fmt.Errorf("sqlite: updating game %d: %w", game.ID, err)
	}
	return nil
}

func (s *GameStore) Delete(ctx context.Context, id int64) error {
	var deleted int64
	err := s.conn.QueryRowContext(ctx, `DELETE FROM juegos WHERE id = ? RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("game", id)
		}
		return fmt.Errorf("sqlite: deleting game %d: %w", id, err)
	}
	return nil
}

func (s *GameStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM juegos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting games: %w", err)
	}
	return n, nil
}

// scanGame reads one row. genero, plataforma, anio and descripcion are
// nullable in the schema; rows written through the API always fill them,
// but rows inserted by hand might not.
func scanGame(rows *sql.Rows) (*model.Game, error) {
	var (
		g           model.Game
		genre       sql.NullString
		platform    sql.NullString
		year        sql.NullInt64
		description sql.NullString
	)
	if err := rows.Scan(&g.ID, &g.Name, &genre, &platform, &year, &description, &g.ImagePath, &g.WikipediaURL); err != nil {
		return nil, err
	}
	g.Genre = genre.String
	g.Platform = platform.String
	g.Year = int(year.Int64)
	g.Description = description.String
	return &g, nil
}
