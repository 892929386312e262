package models

import "encoding/json"

// PeriodRanking is one frame of the animated ranked-bar chart.
type PeriodRanking struct {
	Year    int           `json:"year"`
	Entries []RankedEntry `json:"entries"`
}

type RankingView struct {
	Direction Direction       `json:"direction"`
	K         int             `json:"k"`
	MaxCount  int64           `json:"max_count"`
	Periods   []PeriodRanking `json:"periods"`
}

type ChoroplethRow struct {
	DepartmentWinner
	Boundary json.RawMessage `json:"boundary,omitempty"`
}

type ChoroplethView struct {
	Year int             `json:"year"`
	Rows []ChoroplethRow `json:"rows"`
	// NoData lists geometry codes without any births for the year.
	NoData []string `json:"no_data"`
}

type WordCloudView struct {
	Department     string           `json:"department"`
	DepartmentName string           `json:"department_name"`
	Year           int              `json:"year"`
	Male           map[string]int64 `json:"male"`
	Female         map[string]int64 `json:"female"`
	Top10          []RankedEntry    `json:"top10"`
}

// Empty reports the "no data" state the renderer shows as a placeholder.
func (w WordCloudView) Empty() bool {
	return len(w.Male) == 0 && len(w.Female) == 0
}

type TopNamesTable struct {
	Year    int           `json:"year"`
	Entries []RankedEntry `json:"entries"`
}

type DepartmentOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
