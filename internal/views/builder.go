// Package views assembles the dashboard payloads (ranking race, choropleth,
// word cloud) from the current dataset snapshot. Every call is a pure function
// of the published snapshot and its arguments.
package views

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"prenoms/internal/engine"
	"prenoms/internal/models"
)

const (
	// AllDepartments selects the whole country in WordCloud.
	AllDepartments = "all"

	MaleColor   = "blue"
	FemaleColor = "pink"

	wordCloudTopN = 10
)

type snapshot struct {
	store     *engine.RecordStore
	geoms     []models.DepartmentGeometry
	deptNames map[string]string
	names     []string
	colors    map[string]string
}

// Builder serves views over a snapshot that can be replaced at any time with
// Reload. Readers always see either the old or the new snapshot.
type Builder struct {
	data    atomic.Pointer[snapshot]
	palette *engine.ColorAssigner
}

func NewBuilder() *Builder {
	return &Builder{palette: engine.NewColorAssigner()}
}

// Reload publishes a new dataset. The name colors are resolved here and kept
// on the snapshot; queries only read them. An unchanged name set reuses the
// previous table.
func (b *Builder) Reload(store *engine.RecordStore, geoms []models.DepartmentGeometry) {
	s := &snapshot{
		store:     store,
		geoms:     geoms,
		deptNames: make(map[string]string, len(geoms)),
		names:     store.Names(),
	}
	for _, g := range geoms {
		s.deptNames[g.Code] = g.Name
	}
	colors, built := b.palette.Assign(s.names)
	if built {
		slog.Debug("name colors rebuilt", "names", len(s.names))
	}
	s.colors = colors
	b.data.Store(s)
}

func (b *Builder) Ready() bool {
	return b.data.Load() != nil
}

func (b *Builder) snapshot() (*snapshot, error) {
	s := b.data.Load()
	if s == nil {
		return nil, models.ErrNotLoaded
	}
	return s, nil
}

// Stats returns the load diagnostics of the current snapshot.
func (b *Builder) Stats() (engine.LoadStats, error) {
	s, err := b.snapshot()
	if err != nil {
		return engine.LoadStats{}, err
	}
	return s.store.Stats, nil
}

// RankingQuery parameterises the ranked-bar race. Zero years are unbounded.
type RankingQuery struct {
	Sex         models.Sex
	Departments []string
	YearMin     int
	YearMax     int
	K           int
	Direction   models.Direction
}

func (q RankingQuery) Validate() error {
	if q.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", models.ErrConfig, q.K)
	}
	if q.Direction != models.Most && q.Direction != models.Least {
		return fmt.Errorf("%w: unknown direction %q", models.ErrConfig, q.Direction)
	}
	if q.Sex != models.SexAll && q.Sex != models.SexMale && q.Sex != models.SexFemale {
		return fmt.Errorf("%w: unknown sex %d", models.ErrConfig, q.Sex)
	}
	if q.YearMin != 0 && q.YearMax != 0 && q.YearMin > q.YearMax {
		return fmt.Errorf("%w: year range %d..%d is empty", models.ErrConfig, q.YearMin, q.YearMax)
	}
	return nil
}

func (q RankingQuery) filter() engine.Filter {
	return engine.Filter{
		Sex:         q.Sex,
		Departments: engine.DepartmentSet(q.Departments...),
		YearMin:     q.YearMin,
		YearMax:     q.YearMax,
	}
}

// Ranking builds one frame per year holding the top (or bottom) K names.
func (b *Builder) Ranking(q RankingQuery) (models.RankingView, error) {
	if err := q.Validate(); err != nil {
		return models.RankingView{}, err
	}
	s, err := b.snapshot()
	if err != nil {
		return models.RankingView{}, err
	}

	grouped, err := engine.GroupSum(s.store.Filter(q.filter()), engine.FieldYear, engine.FieldName)
	if err != nil {
		return models.RankingView{}, err
	}
	ranked, err := engine.TopK(engine.ByPeriod(grouped), q.K, q.Direction)
	if err != nil {
		return models.RankingView{}, err
	}

	view := models.RankingView{
		Direction: q.Direction,
		K:         q.K,
		Periods:   make([]models.PeriodRanking, 0, len(ranked)),
	}
	for year, entries := range ranked {
		for i := range entries {
			entries[i].Color = s.colors[entries[i].Name]
			if entries[i].Count > view.MaxCount {
				view.MaxCount = entries[i].Count
			}
		}
		view.Periods = append(view.Periods, models.PeriodRanking{Year: year, Entries: entries})
	}
	sort.Slice(view.Periods, func(i, j int) bool { return view.Periods[i].Year < view.Periods[j].Year })
	return view, nil
}

// Choropleth picks the most given name of each department for year.
func (b *Builder) Choropleth(year int) (models.ChoroplethView, error) {
	s, err := b.snapshot()
	if err != nil {
		return models.ChoroplethView{}, err
	}

	grouped, err := engine.GroupSum(s.store.Filter(engine.Year(year)), engine.FieldYear, engine.FieldDepartment, engine.FieldName)
	if err != nil {
		return models.ChoroplethView{}, err
	}
	winners, stats := engine.JoinAndPickWinner(engine.ByDepartment(grouped), s.geoms)
	if len(stats.Unmapped) > 0 {
		slog.Debug("departments without geometry", "year", year, "codes", stats.Unmapped)
	}

	boundaries := make(map[string]models.DepartmentGeometry, len(s.geoms))
	for _, g := range s.geoms {
		boundaries[g.Code] = g
	}

	view := models.ChoroplethView{
		Year:   year,
		Rows:   make([]models.ChoroplethRow, 0, len(winners)),
		NoData: []string{},
	}
	won := make(map[string]bool, len(winners))
	for _, w := range winners {
		w.Year = year
		won[w.DepartmentCode] = true
		view.Rows = append(view.Rows, models.ChoroplethRow{
			DepartmentWinner: w,
			Boundary:         boundaries[w.DepartmentCode].Boundary,
		})
	}
	for _, g := range s.geoms {
		if !won[g.Code] {
			view.NoData = append(view.NoData, g.Code)
		}
	}
	sort.Strings(view.NoData)
	return view, nil
}

// WordCloud returns the per-sex name frequencies of one department (or
// AllDepartments) for year, plus the overall top 10 colored by sex.
// A selection without births yields empty maps, not an error.
func (b *Builder) WordCloud(department string, year int) (models.WordCloudView, error) {
	s, err := b.snapshot()
	if err != nil {
		return models.WordCloudView{}, err
	}

	f := engine.Year(year)
	view := models.WordCloudView{Department: department, Year: year}
	if department == "" || department == AllDepartments {
		view.Department = AllDepartments
	} else {
		f.Departments = engine.DepartmentSet(department)
		view.DepartmentName = s.deptNames[department]
	}
	selected := s.store.Filter(f)

	if view.Male, err = engine.FrequencyMap(selected.Filter(engine.Filter{Sex: models.SexMale}), engine.FieldName); err != nil {
		return models.WordCloudView{}, err
	}
	if view.Female, err = engine.FrequencyMap(selected.Filter(engine.Filter{Sex: models.SexFemale}), engine.FieldName); err != nil {
		return models.WordCloudView{}, err
	}

	grouped, err := engine.GroupSum(selected, engine.FieldName)
	if err != nil {
		return models.WordCloudView{}, err
	}
	// Names without births stay out of the top 10 as they do of the sex maps.
	given := grouped[:0]
	for _, e := range grouped {
		if e.Count > 0 {
			given = append(given, e)
		}
	}
	if view.Top10, err = engine.Rank(given, wordCloudTopN, models.Most); err != nil {
		return models.WordCloudView{}, err
	}
	for i := range view.Top10 {
		view.Top10[i].Color = FemaleColor
		if _, ok := view.Male[view.Top10[i].Name]; ok {
			view.Top10[i].Color = MaleColor
		}
	}
	return view, nil
}

// TopNames is the per-year table of the n most given names, both sexes and
// all departments combined.
func (b *Builder) TopNames(year, n int) (models.TopNamesTable, error) {
	if n <= 0 {
		return models.TopNamesTable{}, fmt.Errorf("%w: n must be positive, got %d", models.ErrConfig, n)
	}
	s, err := b.snapshot()
	if err != nil {
		return models.TopNamesTable{}, err
	}

	grouped, err := engine.GroupSum(s.store.Filter(engine.Year(year)), engine.FieldName)
	if err != nil {
		return models.TopNamesTable{}, err
	}
	entries, err := engine.Rank(grouped, n, models.Most)
	if err != nil {
		return models.TopNamesTable{}, err
	}
	for i := range entries {
		entries[i].Color = s.colors[entries[i].Name]
	}
	return models.TopNamesTable{Year: year, Entries: entries}, nil
}

// Years lists the years with data, most recent first.
func (b *Builder) Years() ([]int, error) {
	s, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	return s.store.DistinctYears(), nil
}

// Departments lists the departments with data, sorted by label. Codes without
// geometry are labelled with the code itself.
func (b *Builder) Departments() ([]models.DepartmentOption, error) {
	s, err := b.snapshot()
	if err != nil {
		return nil, err
	}

	codes := s.store.Departments()
	out := make([]models.DepartmentOption, 0, len(codes))
	for _, c := range codes {
		name, ok := s.deptNames[c]
		if !ok {
			name = c
		}
		out = append(out, models.DepartmentOption{Code: c, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
