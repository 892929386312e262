// Package config loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the server and the CLI.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// DataPath is the births table (dpt2020.csv). Required.
	DataPath string `yaml:"data_path"`

	// GeoPath is the department GeoJSON. Optional; without it the choropleth
	// view is empty and departments are labelled by code.
	GeoPath string `yaml:"geo_path"`

	// YearMin and YearMax bound the years kept at load. Defaults 1900..2020.
	YearMin int `yaml:"year_min"`
	YearMax int `yaml:"year_max"`

	// RankDepth is the default k of the ranking view. Defaults to 15.
	RankDepth int `yaml:"rank_depth"`

	CORSOrigins []string `yaml:"cors_origins"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		YearMin:     1900,
		YearMax:     2020,
		RankDepth:   15,
		CORSOrigins: []string{"*"},
	}
}

// Load builds the Config and validates it. PRENOMS_CONFIG names an optional
// YAML file.
func Load() (Config, error) {
	cfg, err := Resolve()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve layers defaults, the PRENOMS_CONFIG file and the environment
// without validating the result. The CLI uses it to seed flag defaults, so a
// missing DATA_PATH can still be supplied on the command line.
func Resolve() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("PRENOMS_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DataPath = getEnv("DATA_PATH", cfg.DataPath)
	cfg.GeoPath = getEnv("GEO_PATH", cfg.GeoPath)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}

	var bad []string
	for _, iv := range []struct {
		key string
		dst *int
	}{
		{"YEAR_MIN", &cfg.YearMin},
		{"YEAR_MAX", &cfg.YearMax},
		{"RANK_DEPTH", &cfg.RankDepth},
	} {
		if err := getEnvInt(iv.key, iv.dst); err != nil {
			bad = append(bad, iv.key)
		}
	}
	if len(bad) > 0 {
		return Config{}, fmt.Errorf("invalid integer environment variables: %s", strings.Join(bad, ", "))
	}
	return cfg, nil
}

// Validate checks the invariants Load cannot express through defaults.
func (c Config) Validate() error {
	var problems []string
	if c.DataPath == "" {
		problems = append(problems, "DATA_PATH is required")
	}
	if c.YearMin > c.YearMax {
		problems = append(problems, fmt.Sprintf("YEAR_MIN %d is after YEAR_MAX %d", c.YearMin, c.YearMax))
	}
	if c.RankDepth <= 0 {
		problems = append(problems, "RANK_DEPTH must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
