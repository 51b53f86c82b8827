// Package repository declares the storage contracts the services depend on.
//
// Two implementations live in subpackages: sqlite (the default, embedded) and
// postgres (selected when DATABASE_URL is a postgres:// URL). Both satisfy the
// interfaces below and return apperror values for the conditions a caller is
// expected to handle:
//
//   - apperror.ErrNotFound  for a missing row
//   - apperror.ErrConflict  for a uniqueness violation
//
// Every other error is a store failure and is passed through wrapped.
package repository

import (
	"context"

	"github.com/sakif/game-portal/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts the user and sets user.ID. A duplicate username or email
	// returns apperror.ErrConflict and writes nothing.
	Create(ctx context.Context, user *model.User) error
	// GetByCredentials returns the user whose username and password both match
	// exactly, or apperror.ErrNotFound.
	GetByCredentials(ctx context.Context, username, password string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// GameRepository is the catalog store.
type GameRepository interface {
	// List returns every game ordered by ascending id.
	List(ctx context.Context) ([]model.Game, error)
	// Create inserts the game and sets game.ID.
	Create(ctx context.Context, game *model.Game) error
	// Update replaces every column of the row with id game.ID.
	Update(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
