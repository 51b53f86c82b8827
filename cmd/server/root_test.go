package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/game-portal/internal/config"
)

// isolateEnv blanks out every variable the config reads, restoring them when
// the test ends. Unset (not empty) lets a dotenv file fill them in.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DB_PATH", "ADMIN_PASSWORD", "CORS_ORIGINS",
		"COOKIE_SECURE", "LOG_LEVEL", "LOG_FORMAT", "SEED",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)
	root := newRootCmd()
	require.NoError(t, root.ParseFlags(nil))

	cfg, err := loadConfig(root, missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolateEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=7000\nLOG_FORMAT=json\nDB_PATH=from-file.db\n"), 0o600))
	t.Setenv("DB_PATH", "from-env.db")

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--port", "8080", "--seed=false", "--cors-origins", "https://a.example, https://b.example"}))

	cfg, err := loadConfig(root, envFile)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port, "explicit flag beats the env file")
	assert.Equal(t, "from-env.db", cfg.DBPath, "environment beats the env file")
	assert.Equal(t, "json", cfg.LogFormat, "env file beats the default")
	assert.False(t, cfg.Seed)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_UnchangedFlagKeepsEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9100")

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--log-level", "DEBUG"}))

	cfg, err := loadConfig(root, missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"--port", "70000"}},
		{"unknown log format", []string{"--log-format", "xml"}},
		{"unsupported database url", []string{"--database-url", "mysql://root@localhost/portal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			require.NoError(t, root.ParseFlags(tt.args))

			_, err := loadConfig(root, missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestMigrateCommand_CreatesDatabase(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "portal.db")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--db-path", dbPath, "--env-file", missingEnvFile(t), "--log-format", "json"})

	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
	assert.Contains(t, out.String(), `"msg":"database ready"`)
	assert.Contains(t, out.String(), `"schema_version":1`)
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = "json"

	newLogger(cfg, &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.LogLevel = "warn"
	newLogger(cfg, &buf).Info("quiet")
	assert.Empty(t, buf.String(), "info is below warn")
}
