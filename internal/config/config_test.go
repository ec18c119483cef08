package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATA_PATH", "STORE_BACKEND", "SERVER_PORT", "CORS_ORIGINS", "TRUST_PROXY",
		"ADMIN_NAME", "ADMIN_PASSWORD", "RECOMMENDATION_SOURCE", "ENABLE_GEMINI", "ENABLE_PREMIUM",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPEN_LIBRARY_URL", "GOALS_TIMEZONE",
		"DEFAULT_PAGES_PER_DAY", "DEFAULT_BOOKS_PER_YEAR", "ACCESS_TOKEN_DURATION",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		App:             AppConfig{Environment: "development"},
		Logger:          LoggerConfig{Level: "info"},
		Storage:         StorageConfig{DataPath: "/data", Backend: BackendBadger},
		Recommendations: RecommendationsConfig{Source: SourceOpenLibrary},
		Goals:           GoalsConfig{Timezone: "local", DefaultPagesPerDay: 30, DefaultBooksPerYr: 12},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load([]string{"-data-path", dir, "-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, SourceOpenLibrary, cfg.Recommendations.Source)
	assert.False(t, cfg.Recommendations.AIEnabled())
	assert.Equal(t, 30, cfg.Goals.DefaultPagesPerDay)
	assert.Equal(t, 12, cfg.Goals.DefaultBooksPerYr)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, "admin", cfg.Auth.AdminName)
	assert.Empty(t, cfg.Auth.AdminPassword)
	assert.Equal(t, 168*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, "https://openlibrary.org", cfg.OpenLibrary.BaseURL)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load([]string{"-data-path", dir, "-port", "7000", "-env-file", filepath.Join(dir, "none")})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_EnvFileFillsGaps(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nENABLE_GEMINI=true\nRECOMMENDATION_SOURCE=\"gemini\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ENABLE_GEMINI")
		os.Unsetenv("RECOMMENDATION_SOURCE")
	})

	cfg, err := Load([]string{"-data-path", dir, "-env-file", envPath})
	require.NoError(t, err)

	assert.True(t, cfg.Recommendations.EnableGemini)
	assert.Equal(t, SourceGemini, cfg.Recommendations.Source)
	assert.True(t, cfg.Recommendations.AIEnabled())
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load([]string{"-data-path", dir, "-read-timeout", "soon", "-env-file", filepath.Join(dir, "none")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_read_timeout")
}

func TestAIEnabled_RequiresBothSwitches(t *testing.T) {
	tests := []struct {
		name   string
		cfg    RecommendationsConfig
		expect bool
	}{
		{"both set", RecommendationsConfig{Source: SourceGemini, EnableGemini: true}, true},
		{"flag off", RecommendationsConfig{Source: SourceGemini, EnableGemini: false}, false},
		{"catalog source", RecommendationsConfig{Source: SourceOpenLibrary, EnableGemini: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.cfg.AIEnabled())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad env", func(c *Config) { c.App.Environment = "test" }, "invalid environment"},
		{"bad level", func(c *Config) { c.Logger.Level = "loud" }, "invalid log level"},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }, "data path"},
		{"bad backend", func(c *Config) { c.Storage.Backend = "redis" }, "invalid store backend"},
		{"bad source", func(c *Config) { c.Recommendations.Source = "oracle" }, "invalid recommendation source"},
		{"zero goals", func(c *Config) { c.Goals.DefaultPagesPerDay = 0 }, "must be positive"},
		{"bad timezone", func(c *Config) { c.Goals.Timezone = "Mars/Olympus" }, "invalid goals timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGoalsLocation(t *testing.T) {
	assert.Equal(t, time.Local, GoalsConfig{Timezone: "local"}.Location())
	assert.Equal(t, "Europe/Berlin", GoalsConfig{Timezone: "Europe/Berlin"}.Location().String())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}
