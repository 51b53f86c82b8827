// Package seed prepares a fresh database: the admin account and the initial
// catalog. Run is idempotent and is called on every start unless disabled.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/repository"
)

const (
	AdminUsername = "admin"
	AdminEmail    = "admin@portal.com"
)

// CatalogTx runs fn with a catalog store bound to a single transaction.
type CatalogTx func(ctx context.Context, fn func(games repository.GameRepository) error) error

type Options struct {
	AdminPassword string
	// InTx makes the initial catalog insert all-or-nothing. When nil the rows
	// are inserted one by one on the plain store.
	InTx   CatalogTx
	Logger *slog.Logger
}

// Result reports what Run actually did.
type Result struct {
	AdminCreated  bool
	GamesInserted int
}

// Run creates the admin user if no user called "admin" exists, and inserts
// InitialCatalog if the catalog is empty. An existing admin is left alone,
// even if its password differs from opts.AdminPassword.
func Run(ctx context.Context, users repository.UserRepository, games repository.GameRepository, opts Options) (Result, error) {
	var res Result
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	_, err := users.GetByUsername(ctx, AdminUsername)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		admin := &model.User{
			Username: AdminUsername,
			Email:    AdminEmail,
			Password: opts.AdminPassword,
			IsAdmin:  true,
		}
		if err := users.Create(ctx, admin); err != nil {
			return res, fmt.Errorf("seed: creating admin: %w", err)
		}
		res.AdminCreated = true
		logger.Info("admin user created", slog.Int64("user_id", admin.ID), slog.String("username", AdminUsername))
	case err != nil:
		return res, fmt.Errorf("seed: looking up admin: %w", err)
	}

	n, err := games.Count(ctx)
	if err != nil {
		return res, fmt.Errorf("seed: counting games: %w", err)
	}
	if n > 0 {
		return res, nil
	}

	insert := func(store repository.GameRepository) error {
		for _, g := range InitialCatalog {
			if err := store.Create(ctx, &g); err != nil {
				return err
			}
		}
		return nil
	}
	if opts.InTx != nil {
		err = opts.InTx(ctx, insert)
	} else {
		err = insert(games)
	}
	if err != nil {
		return res, fmt.Errorf("seed: inserting initial catalog: %w", err)
	}

	res.GamesInserted = len(InitialCatalog)
	logger.Info("initial catalog inserted", slog.Int("games", res.GamesInserted))
	return res, nil
}
