// Package config loads OhMyReads server configuration from flags, environment variables, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Recommendation source names.
const (
	SourceGemini      = "gemini"
	SourceOpenLibrary = "open-library"
)

// Store backend names.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App             AppConfig
	Logger          LoggerConfig
	Storage         StorageConfig
	Server          ServerConfig
	Auth            AuthConfig
	Recommendations RecommendationsConfig
	Gemini          GeminiConfig
	OpenLibrary     OpenLibraryConfig
	Goals           GoalsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects and locates the key-value store.
type StorageConfig struct {
	DataPath string
	Backend  string // badger or sqlite
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	TrustProxy   bool
}

// AuthConfig holds session configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key, loaded or generated at startup.
	AccessTokenKey      []byte
	AccessTokenDuration time.Duration
	// The admin account is provisioned at startup when AdminPassword is set.
	AdminName     string
	AdminPassword string
}

// RecommendationsConfig decides which provider answers recommendation queries.
type RecommendationsConfig struct {
	Source        string // gemini or open-library
	EnableGemini  bool
	EnablePremium bool
}

// AIEnabled reports whether the AI provider is the selected source.
// Both the feature switch and the source name must agree.
func (r RecommendationsConfig) AIEnabled() bool {
	return r.EnableGemini && r.Source == SourceGemini
}

// GeminiConfig holds generative AI credentials.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenLibraryConfig holds public catalog settings.
type OpenLibraryConfig struct {
	BaseURL        string
	CoversURL      string
	RequestsPerSec int
}

// GoalsConfig holds reading goal defaults.
type GoalsConfig struct {
	Timezone           string
	DefaultPagesPerDay int
	DefaultBooksPerYr  int
}

// Location resolves the configured timezone, falling back to server local time.
func (g GoalsConfig) Location() *time.Location {
	if g.Timezone == "" || strings.EqualFold(g.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig loads configuration from the process command line.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("ohmyreads", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for persistent data")
	storeBackend := fs.String("store", "", "Store backend (badger, sqlite)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")
	trustProxy := fs.String("trust-proxy", "", "Take client IPs from X-Forwarded-For (only behind a reverse proxy)")

	accessTokenDuration := fs.String("access-token-duration", "", "Session token lifetime (e.g., 24h)")
	adminName := fs.String("admin-name", "", "Name of the admin account provisioned at startup")

	source := fs.String("recommendation-source", "", "Recommendation source (gemini, open-library)")
	enableGemini := fs.String("enable-gemini", "", "Enable the Gemini AI provider")
	enablePremium := fs.String("enable-premium", "", "Enable AI personalized recommendations")
	geminiModel := fs.String("gemini-model", "", "Gemini model name")
	openLibraryURL := fs.String("open-library-url", "", "Open Library base URL")

	goalsTZ := fs.String("goals-timezone", "", "IANA timezone used for reading day boundaries")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
			Backend:  strings.ToLower(getConfigValue(*storeBackend, "STORE_BACKEND", BackendBadger)),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
			TrustProxy:  getBoolConfigValue(*trustProxy, "TRUST_PROXY", false),
		},
		Auth: AuthConfig{
			AdminName:     getConfigValue(*adminName, "ADMIN_NAME", "admin"),
			AdminPassword: getConfigValue("", "ADMIN_PASSWORD", ""),
		},
		Recommendations: RecommendationsConfig{
			Source:        strings.ToLower(getConfigValue(*source, "RECOMMENDATION_SOURCE", SourceOpenLibrary)),
			EnableGemini:  getBoolConfigValue(*enableGemini, "ENABLE_GEMINI", false),
			EnablePremium: getBoolConfigValue(*enablePremium, "ENABLE_PREMIUM", false),
		},
		Gemini: GeminiConfig{
			APIKey: getConfigValue("", "GEMINI_API_KEY", ""),
			Model:  getConfigValue(*geminiModel, "GEMINI_MODEL", "gemini-2.0-flash"),
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:        strings.TrimRight(getConfigValue(*openLibraryURL, "OPEN_LIBRARY_URL", "https://openlibrary.org"), "/"),
			CoversURL:      strings.TrimRight(getConfigValue("", "OPEN_LIBRARY_COVERS_URL", "https://covers.openlibrary.org"), "/"),
			RequestsPerSec: getIntConfigValue("", "OPEN_LIBRARY_RPS", 5),
		},
		Goals: GoalsConfig{
			Timezone:           getConfigValue(*goalsTZ, "GOALS_TIMEZONE", "local"),
			DefaultPagesPerDay: getIntConfigValue("", "DEFAULT_PAGES_PER_DAY", 30),
			DefaultBooksPerYr:  getIntConfigValue("", "DEFAULT_BOOKS_PER_YEAR", 12),
		},
	}

	var err error
	if cfg.Auth.AccessTokenDuration, err = parseDuration(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "168h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Storage.Backend != BackendBadger && c.Storage.Backend != BackendSQLite {
		return fmt.Errorf("invalid store backend: %s (must be badger or sqlite)", c.Storage.Backend)
	}

	if c.Recommendations.Source != SourceGemini && c.Recommendations.Source != SourceOpenLibrary {
		return fmt.Errorf("invalid recommendation source: %s (must be gemini or open-library)", c.Recommendations.Source)
	}

	if c.Goals.DefaultPagesPerDay <= 0 || c.Goals.DefaultBooksPerYr <= 0 {
		return errors.New("default reading goals must be positive")
	}
	if c.Goals.Timezone != "" && !strings.EqualFold(c.Goals.Timezone, "local") {
		if _, err := time.LoadLocation(c.Goals.Timezone); err != nil {
			return fmt.Errorf("invalid goals timezone %q: %w", c.Goals.Timezone, err)
		}
	}

	// GEMINI_API_KEY may be empty even with the AI source selected.
	// The router then falls back to the catalog on every call.

	return nil
}

// expandDataPath expands ~ and makes the data path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, "OhMyReads", "data"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// An empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
