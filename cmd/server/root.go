package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/game-portal/internal/config"
	"github.com/sakif/game-portal/internal/storage"
)

// newRootCmd builds the command tree. Running the root command with no
// subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "portal",
		Short: "Game catalog portal API",
		Long: `portal serves the game catalog REST API: registration, cookie sessions
and role-gated CRUD over /juegos, backed by SQLite or PostgreSQL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, envFile)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().Int("port", config.DefaultPort, "HTTP listen port (env: PORT)")
	root.PersistentFlags().String("database-url", "", "postgres:// URL, selects PostgreSQL (env: DATABASE_URL)")
	root.PersistentFlags().String("db-path", config.DefaultDBPath, "SQLite database file (env: DB_PATH)")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error (env: LOG_LEVEL)")
	root.PersistentFlags().String("log-format", "text", "text or json (env: LOG_FORMAT)")

	root.Flags().String("admin-password", config.DefaultAdminPassword, "password for the seeded admin (env: ADMIN_PASSWORD)")
	root.Flags().String("cors-origins", "*", "comma separated allowed origins (env: CORS_ORIGINS)")
	root.Flags().Bool("cookie-secure", true, "set Secure on the session cookie (env: COOKIE_SECURE)")
	root.Flags().Bool("seed", true, "create the admin user and initial catalog when missing (env: SEED)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and serve HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, envFile)
		},
	}
	serve.Flags().AddFlagSet(root.Flags())

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, envFile)
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

// loadConfig layers explicitly set flags over config.Load. A flag left at its
// default never overrides the environment.
func loadConfig(cmd *cobra.Command, envFile string) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL, _ = flags.GetString("database-url")
	}
	if flags.Changed("db-path") {
		cfg.DBPath, _ = flags.GetString("db-path")
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		cfg.LogLevel = strings.ToLower(level)
	}
	if flags.Changed("log-format") {
		format, _ := flags.GetString("log-format")
		cfg.LogFormat = strings.ToLower(format)
	}
	if flags.Changed("admin-password") {
		cfg.AdminPassword, _ = flags.GetString("admin-password")
	}
	if flags.Changed("cors-origins") {
		origins, _ := flags.GetString("cors-origins")
		cfg.CORSOrigins = config.SplitList(origins)
	}
	if flags.Changed("cookie-secure") {
		cfg.CookieSecure, _ = flags.GetBool("cookie-secure")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetBool("seed")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg config.Config, out io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel() // already checked by Validate
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// openStore opens the configured database, creating the SQLite directory
// first when needed (like `mkdir -p`).
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage.Store, error) {
	if !storage.IsPostgresURL(cfg.DatabaseURL) && cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	st, err := storage.Open(ctx, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	version, err := st.SchemaVersion(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	logger.Info("database ready",
		slog.String("driver", st.Driver),
		slog.Int64("schema_version", version),
	)
	return st, nil
}
