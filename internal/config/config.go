// Package config loads the server configuration.
//
// PRECEDENCE (lowest to highest):
//
//	built-in defaults → .env file → process environment → command-line flags
//
// godotenv.Load never overrides a variable that is already set in the
// environment, which gives the second and third steps their order for free.
// Flags are applied by cmd/server after Load, and only when explicitly set.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/game-portal/internal/repository/migrations"
	"github.com/sakif/game-portal/internal/storage"
)

// Defaults.
const (
	DefaultPort          = 9000
	DefaultDBPath        = "data/portal.db"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	Port          int
	DatabaseURL   string   // postgres://... selects PostgreSQL
	DBPath        string   // SQLite file, used when DatabaseURL is empty
	AdminPassword string   // password for the seeded admin account
	CORSOrigins   []string // "*" allows any origin
	CookieSecure  bool     // Secure attribute on the session cookie
	LogLevel      string   // debug | info | warn | error
	LogFormat     string   // text | json
	Seed          bool     // run the seeder on start
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:          DefaultPort,
		DBPath:        DefaultDBPath,
		AdminPassword: DefaultAdminPassword,
		CORSOrigins:   []string{"*"},
		CookieSecure:  true,
		LogLevel:      "info",
		LogFormat:     "text",
		Seed:          true,
	}
}

// Load reads envFiles (".env" when none are given) into the environment,
// then builds a Config from defaults overlaid with environment variables.
// Missing env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from defaults and the variables lookup returns.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup("DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := lookup("ADMIN_PASSWORD"); ok && v != "" {
		cfg.AdminPassword = v
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = SplitList(v)
	}
	if v, ok := lookup("COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("config: invalid COOKIE_SECURE %q: %w", v, err)
		}
		cfg.CookieSecure = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup("SEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("config: invalid SEED %q: %w", v, err)
		}
		cfg.Seed = b
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.DatabaseURL != "" && !storage.IsPostgresURL(c.DatabaseURL) {
		return errors.New("config: DATABASE_URL must start with postgres:// or postgresql://")
	}
	if c.DatabaseURL == "" && c.DBPath == "" {
		return errors.New("config: DB_PATH is required when DATABASE_URL is not set")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("config: at least one CORS origin is required")
	}
	return nil
}

// Driver reports which store the configuration selects.
func (c Config) Driver() string {
	if storage.IsPostgresURL(c.DatabaseURL) {
		return migrations.DriverPostgres
	}
	return migrations.DriverSQLite
}

// SlogLevel converts LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return level, nil
}

// SplitList splits a comma separated value and drops empty entries.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
