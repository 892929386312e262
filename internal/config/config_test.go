package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"prenoms/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PRENOMS_CONFIG", "PORT", "LOG_LEVEL", "DATA_PATH", "GEO_PATH", "YEAR_MIN", "YEAR_MAX", "RANK_DEPTH", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that optional values fall back to their defaults
// when only the required DATA_PATH is provided.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_PATH", "/data/dpt2020.csv")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "/data/dpt2020.csv", cfg.DataPath)
	require.Equal(t, "", cfg.GeoPath)
	require.Equal(t, 1900, cfg.YearMin)
	require.Equal(t, 2020, cfg.YearMax)
	require.Equal(t, 15, cfg.RankDepth)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_PATH", "/srv/births.csv")
	t.Setenv("GEO_PATH", "/srv/departements.geojson")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("YEAR_MIN", "1950")
	t.Setenv("YEAR_MAX", "2000")
	t.Setenv("RANK_DEPTH", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/srv/departements.geojson", cfg.GeoPath)
	require.Equal(t, 1950, cfg.YearMin)
	require.Equal(t, 2000, cfg.YearMax)
	require.Equal(t, 10, cfg.RankDepth)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

// TestLoad_yamlFile verifies the file layer and that the environment still wins.
func TestLoad_yamlFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "prenoms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_path: /yaml/dpt.csv\nrank_depth: 20\nport: \"7000\"\n"), 0o600))
	t.Setenv("PRENOMS_CONFIG", path)
	t.Setenv("PORT", "7100")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "/yaml/dpt.csv", cfg.DataPath)
	require.Equal(t, 20, cfg.RankDepth)
	require.Equal(t, "7100", cfg.Port)
}

func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DATA_PATH")
}

func TestLoad_invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_PATH", "/data/dpt2020.csv")
	t.Setenv("RANK_DEPTH", "lots")

	_, err := config.Load()
	require.ErrorContains(t, err, "RANK_DEPTH")

	t.Setenv("RANK_DEPTH", "0")
	_, err = config.Load()
	require.ErrorContains(t, err, "RANK_DEPTH")

	t.Setenv("RANK_DEPTH", "")
	t.Setenv("YEAR_MIN", "2021")
	_, err = config.Load()
	require.ErrorContains(t, err, "YEAR_MIN")
}

func TestLoad_badFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRENOMS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}

// TestResolve_noValidation verifies that Resolve applies every layer but leaves
// required values to the caller.
func TestResolve_noValidation(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "prenoms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rank_depth: 7\nyear_min: 1950\n"), 0o600))
	t.Setenv("PRENOMS_CONFIG", path)
	t.Setenv("YEAR_MAX", "1990")

	cfg, err := config.Resolve()

	require.NoError(t, err)
	require.Equal(t, "", cfg.DataPath)
	require.Equal(t, 7, cfg.RankDepth)
	require.Equal(t, 1950, cfg.YearMin)
	require.Equal(t, 1990, cfg.YearMax)
	require.Error(t, cfg.Validate())

	t.Setenv("RANK_DEPTH", "many")
	_, err = config.Resolve()
	require.ErrorContains(t, err, "RANK_DEPTH")
}
