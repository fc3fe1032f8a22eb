// Package config loads service settings from a TOML file with one section per
// environment, then applies .env and process environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string `toml:"addr"`
	WebDir string `toml:"web_dir"`
	// database
	DBDriver    string `toml:"db_driver"`
	DatabaseURL string `toml:"database_url"`
	// progress
	DashboardType string `toml:"dashboard_type"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// metrics
	MetricsNamespace string `toml:"metrics_namespace"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		WebDir:           "web",
		DBDriver:         "postgres",
		DashboardType:    "Weight",
		LogLevel:         "info",
		LogToStdout:      true,
		MetricsNamespace: "bodymetrics",
	}
}

// Load reads the env section of the TOML file at path. An empty path skips
// the file. Variables from ./.env and the process environment override file
// values: ADDR, WEB_DIR, DB_DRIVER, DATABASE_URL, DASHBOARD_TYPE, LOG_LEVEL,
// LOGS_PATH, LOG_JSON.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		var t Toml
		if _, err := toml.DecodeFile(path, &t); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		section, err := t.Get(env)
		if err != nil {
			return nil, err
		}
		if section == nil {
			return nil, fmt.Errorf("%s: no [%s] section", path, env)
		}
		merge(cfg, section)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database_url (or DATABASE_URL) is required")
	}
	return cfg, nil
}

// merge copies the non-zero fields of src into dst.
func merge(dst, src *Config) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Addr, src.Addr)
	set(&dst.WebDir, src.WebDir)
	set(&dst.DBDriver, src.DBDriver)
	set(&dst.DatabaseURL, src.DatabaseURL)
	set(&dst.DashboardType, src.DashboardType)
	set(&dst.LogLevel, src.LogLevel)
	set(&dst.LogsPath, src.LogsPath)
	set(&dst.MetricsNamespace, src.MetricsNamespace)
	dst.LogToStdout = src.LogToStdout
	dst.LogFormatJSON = src.LogFormatJSON
}

func applyEnv(cfg *Config) error {
	for key, dst := range map[string]*string{
		"ADDR":           &cfg.Addr,
		"WEB_DIR":        &cfg.WebDir,
		"DB_DRIVER":      &cfg.DBDriver,
		"DATABASE_URL":   &cfg.DatabaseURL,
		"DASHBOARD_TYPE": &cfg.DashboardType,
		"LOG_LEVEL":      &cfg.LogLevel,
		"LOGS_PATH":      &cfg.LogsPath,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		cfg.LogFormatJSON = b
	}
	return nil
}
