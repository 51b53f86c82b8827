package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/repository"
)

// GameService implements catalog CRUD.
//
// It performs no authorization of its own. Every route that reaches a
// mutating method has already been through the admin gate.
type GameService struct {
	repo   repository.GameRepository
	logger *slog.Logger
}

func NewGameService(repo repository.GameRepository, logger *slog.Logger) *GameService {
	return &GameService{repo: repo, logger: logger}
}

// List returns the whole catalog ordered by id, read fresh from the store.
func (s *GameService) List(ctx context.Context) ([]model.Game, error) {
	games, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return games, nil
}

// Create validates input and inserts a new game, returning its id.
func (s *GameService) Create(ctx context.Context, in model.GameInput) (int64, error) {
	game, err := gameFromInput(in)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Create(ctx, game); err != nil {
		s.logger.Error("failed to create game",
			slog.String("nombre", game.Name),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("creating game: %w", err)
	}

	s.logger.Info("game created", slog.Int64("id", game.ID), slog.String("nombre", game.Name))
	return game.ID, nil
}

// Update replaces every field of game id. It is a full replace, not a patch:
// omitted optional fields become NULL and an omitted description goes back
// to the default.
func (s *GameService) Update(ctx context.Context, id int64, in model.GameInput) (int64, error) {
	game, err := gameFromInput(in)
	if err != nil {
		return 0, err
	}
	game.ID = id

	if err := s.repo.Update(ctx, game); err != nil {
		return 0, fmt.Errorf("updating game %d: %w", id, err)
	}

	s.logger.Info("game updated", slog.Int64("id", id))
	return id, nil
}

func (s *GameService) Delete(ctx context.Context, id int64) (int64, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return 0, fmt.Errorf("deleting game %d: %w", id, err)
	}

	s.logger.Info("game deleted", slog.Int64("id", id))
	return id, nil
}

// gameFromInput checks required fields and fills defaults.
//
// nombre, genero and plataforma must be present and not blank; anio must be
// present. descripcion falls back to model.DefaultDescription when absent or
// null. imagen_ruta and wikipedia_url stay nil (NULL) when absent.
func gameFromInput(in model.GameInput) (*model.Game, error) {
	required := []struct {
		field string
		value *string
	}{
		{"nombre", in.Name},
		{"genero", in.Genre},
		{"plataforma", in.Platform},
	}
	for _, r := range required {
		if r.value == nil || strings.TrimSpace(*r.value) == "" {
			return nil, apperror.ValidationFailed(r.field, "Faltan campos obligatorios: "+r.field)
		}
	}
	if in.Year == nil {
		return nil, apperror.ValidationFailed("anio", "Faltan campos obligatorios: anio")
	}

	description := model.DefaultDescription
	if in.Description != nil {
		description = *in.Description
	}

	return &model.Game{
		Name:         *in.Name,
		Genre:        *in.Genre,
		Platform:     *in.Platform,
		Year:         *in.Year,
		Description:  description,
		ImagePath:    in.ImagePath,
		WikipediaURL: in.WikipediaURL,
	}, nil
}
