package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"prenoms/internal/config"
	"prenoms/internal/models"
)

const births = `sexe;preusuel;annais;dpt;nombre
1;JEAN;1950;75;100
1;PAUL;1950;75;50
2;MARIE;1950;13;80
2;MARIE;1951;75;60
1;JEAN;1951;75;40
2;LUCIE;1951;13;7
`

func run(t *testing.T, cfg config.Config, args ...string) []byte {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp(cfg)
	app.Writer = &out
	app.ErrWriter = &errOut
	require.NoError(t, app.Run(append([]string{"prenoms"}, args...)), errOut.String())
	return out.Bytes()
}

func writeBirths(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dpt2020.csv")
	require.NoError(t, os.WriteFile(path, []byte(births), 0o600))
	return path
}

func TestRankingDepthFromConfig(t *testing.T) {
	cfg := config.Config{DataPath: writeBirths(t), YearMin: 1900, YearMax: 2020, RankDepth: 2, LogLevel: "error"}

	var view models.RankingView
	require.NoError(t, json.Unmarshal(run(t, cfg, "ranking"), &view))
	require.Equal(t, 2, view.K)
	require.Len(t, view.Periods, 2)
	require.Len(t, view.Periods[1].Entries, 2)

	// An explicit flag still wins over the configured depth.
	require.NoError(t, json.Unmarshal(run(t, cfg, "ranking", "--k", "1"), &view))
	require.Equal(t, 1, view.K)
	require.Len(t, view.Periods[1].Entries, 1)
}

func TestYearBoundsFromConfig(t *testing.T) {
	cfg := config.Config{DataPath: writeBirths(t), YearMin: 1951, YearMax: 1951, RankDepth: 15, LogLevel: "error"}

	var years []int
	require.NoError(t, json.Unmarshal(run(t, cfg, "years"), &years))
	require.Equal(t, []int{1951}, years)
}

func TestGroupBy(t *testing.T) {
	cfg := config.Config{DataPath: writeBirths(t), YearMin: 1900, YearMax: 2020, RankDepth: 15, LogLevel: "error"}

	var totals []struct {
		Year  int   `json:"year"`
		Count int64 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(run(t, cfg, "group", "--by", "year"), &totals))
	require.Len(t, totals, 2)
	require.Equal(t, 1950, totals[0].Year)
	require.Equal(t, int64(230), totals[0].Count)
	require.Equal(t, int64(107), totals[1].Count)

	var byDept []struct {
		Department string `json:"department"`
		Name       string `json:"name"`
		Count      int64  `json:"count"`
	}
	out := run(t, cfg, "group", "--by", "dpt, name", "--sex", "Female", "--department", "13")
	require.NoError(t, json.Unmarshal(out, &byDept))
	require.Len(t, byDept, 2)
	for _, e := range byDept {
		require.Equal(t, "13", e.Department)
	}
	require.ElementsMatch(t, []string{"LUCIE", "MARIE"}, []string{byDept[0].Name, byDept[1].Name})
}

func TestCommandErrors(t *testing.T) {
	cfg := config.Config{DataPath: writeBirths(t), YearMin: 1900, YearMax: 2020, RankDepth: 15, LogLevel: "error"}

	app := newApp(cfg)
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"prenoms", "group", "--by", "colour"})
	require.ErrorIs(t, err, models.ErrConfig)

	app = newApp(config.Config{YearMin: 1900, YearMax: 2020, RankDepth: 15, LogLevel: "error"})
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err = app.Run([]string{"prenoms", "years"})
	require.ErrorIs(t, err, models.ErrConfig)
}
