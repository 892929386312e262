// Command prenoms computes the dashboard views offline and prints them as JSON.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"prenoms/internal/config"
	"prenoms/internal/engine"
	"prenoms/internal/models"
	"prenoms/internal/views"
)

func main() {
	cfg, err := config.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := newApp(cfg).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from cfg, so the
// PRENOMS_CONFIG file and the environment apply here as they do to the server.
func newApp(cfg config.Config) *cli.App {
	return &cli.App{
		Name:  "prenoms",
		Usage: "French first-name statistics by year and department",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "births table (dpt2020.csv)", Value: cfg.DataPath},
			&cli.StringFlag{Name: "geo", Usage: "department GeoJSON", Value: cfg.GeoPath},
			&cli.IntFlag{Name: "year-min", Value: cfg.YearMin},
			&cli.IntFlag{Name: "year-max", Value: cfg.YearMax},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel},
		},
		Before: func(c *cli.Context) error {
			slog.SetDefault(config.NewLogger(c.App.ErrWriter, c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "ranking",
				Usage: "top or bottom K names per year",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "k", Value: cfg.RankDepth},
					&cli.StringFlag{Name: "direction", Value: string(models.Most), Usage: "most or least"},
					&cli.StringFlag{Name: "sex", Value: "All", Usage: "All, Male or Female"},
					&cli.StringSliceFlag{Name: "department", Usage: "department code, repeatable"},
				},
				Action: rankingAction,
			},
			{
				Name:   "choropleth",
				Usage:  "most given name per department for a year",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "year", Required: true}},
				Action: choroplethAction,
			},
			{
				Name:  "wordcloud",
				Usage: "name frequencies by sex for a department and year",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Required: true},
					&cli.StringFlag{Name: "department", Value: views.AllDepartments},
				},
				Action: wordCloudAction,
			},
			{
				Name:  "top",
				Usage: "top N names of a year",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Required: true},
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: topAction,
			},
			{
				Name:  "group",
				Usage: "birth totals grouped by the given fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "by", Value: "year", Usage: "comma-separated fields: sex, name, year, department"},
					&cli.StringFlag{Name: "sex", Value: "All", Usage: "All, Male or Female"},
					&cli.StringSliceFlag{Name: "department", Usage: "department code, repeatable"},
				},
				Action: groupAction,
			},
			{
				Name:   "years",
				Usage:  "years with data, most recent first",
				Action: yearsAction,
			},
			{
				Name:   "departments",
				Usage:  "departments with data",
				Action: departmentsAction,
			},
		},
	}
}

func loadOptions(c *cli.Context) (string, engine.LoadOptions, error) {
	path := c.String("data")
	if path == "" {
		return "", engine.LoadOptions{}, fmt.Errorf("%w: --data or DATA_PATH is required", models.ErrConfig)
	}
	return path, engine.LoadOptions{YearMin: c.Int("year-min"), YearMax: c.Int("year-max")}, nil
}

func load(c *cli.Context) (*views.Builder, error) {
	path, opts, err := loadOptions(c)
	if err != nil {
		return nil, err
	}
	b := views.NewBuilder()
	if err := b.LoadAll(c.Context, path, c.String("geo"), opts); err != nil {
		return nil, err
	}
	return b, nil
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseSex(s string) (models.Sex, error) {
	sex, ok := models.ParseSex(s)
	if !ok {
		return 0, fmt.Errorf("%w: sex must be All, Male or Female", models.ErrConfig)
	}
	return sex, nil
}

func groupAction(c *cli.Context) error {
	var fields []engine.Field
	for _, name := range strings.Split(c.String("by"), ",") {
		f, err := engine.ParseField(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}
	sex, err := parseSex(c.String("sex"))
	if err != nil {
		return err
	}

	path, opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	store, err := engine.LoadFile(path, opts)
	if err != nil {
		return err
	}
	selected := store.Filter(engine.Filter{Sex: sex, Departments: engine.DepartmentSet(c.StringSlice("department")...)})
	entries, err := engine.GroupSum(selected, fields...)
	if err != nil {
		return err
	}
	return printJSON(c, entries)
}

func rankingAction(c *cli.Context) error {
	sex, err := parseSex(c.String("sex"))
	if err != nil {
		return err
	}
	dir, ok := models.ParseDirection(c.String("direction"))
	if !ok {
		return fmt.Errorf("%w: direction must be most or least", models.ErrConfig)
	}
	q := views.RankingQuery{
		Sex:         sex,
		Departments: c.StringSlice("department"),
		K:           c.Int("k"),
		Direction:   dir,
	}
	if err := q.Validate(); err != nil {
		return err
	}

	b, err := load(c)
	if err != nil {
		return err
	}
	view, err := b.Ranking(q)
	if err != nil {
		return err
	}
	return printJSON(c, view)
}

func choroplethAction(c *cli.Context) error {
	b, err := load(c)
	if err != nil {
		return err
	}
	view, err := b.Choropleth(c.Int("year"))
	if err != nil {
		return err
	}
	return printJSON(c, view)
}

func wordCloudAction(c *cli.Context) error {
	b, err := load(c)
	if err != nil {
		return err
	}
	view, err := b.WordCloud(c.String("department"), c.Int("year"))
	if err != nil {
		return err
	}
	return printJSON(c, view)
}

func topAction(c *cli.Context) error {
	b, err := load(c)
	if err != nil {
		return err
	}
	table, err := b.TopNames(c.Int("year"), c.Int("limit"))
	if err != nil {
		return err
	}
	return printJSON(c, table)
}

func yearsAction(c *cli.Context) error {
	b, err := load(c)
	if err != nil {
		return err
	}
	years, err := b.Years()
	if err != nil {
		return err
	}
	return printJSON(c, years)
}

func departmentsAction(c *cli.Context) error {
	b, err := load(c)
	if err != nil {
		return err
	}
	depts, err := b.Departments()
	if err != nil {
		return err
	}
	return printJSON(c, depts)
}
