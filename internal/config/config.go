package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvSecretKey    = "SECRET_KEY"
)

// DefaultDSN is the SQLite store used when no DSN is configured.
const DefaultDSN = "file:plans.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

// InsecureFallbackSecret signs sessions when no secret is configured.
// Shipping with it is a known defect; startup logs a warning.
const InsecureFallbackSecret = "ambergrid-secret-key-dev"

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// fileConfig maps the YAML fields read from the config file.
type fileConfig struct {
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Session struct {
		Secret string `yaml:"secret"`
	} `yaml:"session"`
}

// readFileConfig parses the YAML config file when it exists.
// A missing file is not an error; every field has a fallback.
func readFileConfig(configPath string) (fileConfig, error) {
	var cfg fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("config: parse file: %w", errUnmarshal)
	}
	return cfg, nil
}

// LoadDatabaseDSN resolves the database DSN from the environment or the
// YAML config file, falling back to the local SQLite store.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	cfg, err := readFileConfig(configPath)
	if err != nil {
		return "", err
	}
	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return DefaultDSN, nil
}

// SessionConfig holds session signing settings.
type SessionConfig struct {
	Secret string
}

// IsFallback reports whether the config still uses the insecure built-in secret.
func (c SessionConfig) IsFallback() bool {
	return c.Secret == InsecureFallbackSecret
}

// LoadSessionConfig resolves the session signing secret from the environment
// or the YAML config file, falling back to the insecure built-in value.
func LoadSessionConfig(configPath string) (SessionConfig, error) {
	if secret := strings.TrimSpace(os.Getenv(EnvSecretKey)); secret != "" {
		return SessionConfig{Secret: secret}, nil
	}

	cfg, err := readFileConfig(configPath)
	if err != nil {
		return SessionConfig{}, err
	}
	if secret := strings.TrimSpace(cfg.Session.Secret); secret != "" {
		return SessionConfig{Secret: secret}, nil
	}
	return SessionConfig{Secret: InsecureFallbackSecret}, nil
}
