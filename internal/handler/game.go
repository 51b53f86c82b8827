package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/model"
)

// CatalogService is what GameHandler needs from service.GameService.
type CatalogService interface {
	List(ctx context.Context) ([]model.Game, error)
	Create(ctx context.Context, in model.GameInput) (int64, error)
	Update(ctx context.Context, id int64, in model.GameInput) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// GameHandler serves /juegos. Authorization happens in the gate middleware
// mounted on each route; by the time a method here runs it has been granted.
type GameHandler struct {
	games  CatalogService
	logger *slog.Logger
}

func NewGameHandler(games CatalogService, logger *slog.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

// HandleList returns the full catalog.
//
// HTTP: GET /juegos
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":1,"nombre":"Tetris","genero":"Puzzle","plataforma":"Web","anio":1984,
//	   "descripcion":"...","imagen_ruta":"../assets/tetris.png","wikipedia_url":"..."},
//	  ...
//	]
func (h *GameHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleCreate adds a game.
//
// HTTP: POST /juegos
func (h *GameHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.GameInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.games.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Juego creado", ID: id})
}

// HandleUpdate replaces a game.
//
// HTTP: PUT /juegos/{id}
func (h *GameHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in model.GameInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := h.games.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Juego actualizado correctamente", ID: updated})
}

// HandleDelete removes a game.
//
// HTTP: DELETE /juegos/{id}
func (h *GameHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	deleted, err := h.games.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Juego eliminado correctamente", ID: deleted})
}

// gameID reads the {id} URL parameter. The route regex already guarantees
// digits; a value too large for int64 cannot name an existing row.
func gameID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &apperror.AppError{Err: apperror.ErrNotFound, Message: "game not found with id " + raw}
	}
	return id, nil
}
