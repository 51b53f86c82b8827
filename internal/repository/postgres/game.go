package postgres

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

type GameStore struct {
	conn dbx.DBTX
}

func (db *DB) Games() *GameStore {
	return &GameStore{conn: db.conn}
}

// GamesTx returns a catalog store bound to an open transaction.
func GamesTx(tx dbx.DBTX) *GameStore {
	return &GameStore{conn: tx}
}

func (s *GameStore) List(ctx context.Context) ([]model.Game, error) {
	query := `SELECT id, nombre, genero, plataforma, anio, descripcion, imagen_ruta, wikipedia_url
		FROM juegos ORDER BY id ASC`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing games: %w", err)
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		var (
			g           model.Game
			genre       sql.NullString
			platform    sql.NullString
			year        sql.NullInt64
			description sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.Name, &genre, &platform, &year, &description, &g.ImagePath, &g.WikipediaURL); err != nil {
			return nil, fmt.Errorf("postgres: scanning game: %w", err)
		}
		g.Genre = genre.String
		g.Platform = platform.String
		g.Year = int(year.Int64)
		g.Description = description.String
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating games: %w", err)
	}
	return games, nil
}

func (s *GameStore) Create(ctx context.Context, game *model.Game) error {
	query := `INSERT INTO juegos (nombre, genero, plataforma, anio, descripcion, imagen_ruta, wikipedia_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := s.conn.QueryRowContext(ctx, query,
		game.Name, game.Genre, game.Platform, game.Year, game.Description, game.ImagePath, game.WikipediaURL,
	).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("postgres: creating game %q: %w", game.Name, err)
	}
	return nil
}

func (s *GameStore) Update(ctx context.Context, game *model.Game) error {
	query := `UPDATE juegos
		SET nombre = $1, genero = $2, plataforma = $3, anio = $4, descripcion = $5, imagen_ruta = $6, wikipedia_url = $7
		WHERE id = $8
		RETURNING id`

	var id int64
	err := s.conn.QueryRowContext(ctx, query,
		game.Name, game.Genre, game.Platform, game.Year, game.Description, game.ImagePath, game.WikipediaURL, game.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("game", game.ID)
		}
		return fmt.Errorf("postgres: updating game %d: %w", game.ID, err)
	}
	return nil
}

func (s *GameStore) Delete(ctx context.Context, id int64) error {
	var deleted int64
	err := s.conn.QueryRowContext(ctx, `DELETE FROM juegos WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("game", id)
		}
		return fmt.Errorf("postgres: deleting game %d: %w", id, err)
	}
	return nil
}

func (s *GameStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM juegos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: counting games: %w", err)
	}
	return n, nil
}
