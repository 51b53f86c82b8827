package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/game-portal/internal/seed"
	"github.com/sakif/game-portal/internal/server"
)

func runServe(cmd *cobra.Command, envFile string) error {
	cfg, err := loadConfig(cmd, envFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.OutOrStdout())
	ctx := cmd.Context()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Seed {
		res, err := seed.Run(ctx, st.Users, st.Games, seed.Options{
			AdminPassword: cfg.AdminPassword,
			InTx:          st.CatalogTx,
			Logger:        logger,
		})
		if err != nil {
			st.Close()
			return fmt.Errorf("seeding database: %w", err)
		}
		logger.Info("seed finished",
			slog.Bool("admin_created", res.AdminCreated),
			slog.Int("games_inserted", res.GamesInserted),
		)
	}

	// Start owns the store from here and closes it on shutdown.
	return server.New(cfg, st, logger).Start()
}
