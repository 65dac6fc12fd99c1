// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the server
type Config struct {
	Port        int
	DBPath      string
	LogLevel    string
	BaseURL     string
	RosterURL   string
	HTTPLog     bool
	CORSOrigins []string
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Port:        8082,
		DBPath:      "padel.db",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
	}
}

// Load reads the optional .env files and then the PADEL_* environment
// variables on top of Default. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function shaped like os.LookupEnv
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup("PADEL_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PADEL_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v, ok := lookup("PADEL_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := lookup("PADEL_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("PADEL_BASE_URL"); ok {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookup("PADEL_ROSTER_URL"); ok {
		cfg.RosterURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookup("PADEL_HTTP_LOG"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PADEL_HTTP_LOG: %w", err)
		}
		cfg.HTTPLog = enabled
	}
	if v, ok := lookup("PADEL_CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught while parsing
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
