package models

import "encoding/json"

// Sex is the birth sex code used by the source table (1 = male, 2 = female).
type Sex int8

const (
	SexAll    Sex = 0
	SexMale   Sex = 1
	SexFemale Sex = 2
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	}
	return "All"
}

// ParseSex accepts the source codes ("1", "2") as well as the names used by
// the query surface ("Male", "Female", "All"). Empty means All.
func ParseSex(s string) (Sex, bool) {
	switch s {
	case "", "All", "all", "Tous", "0":
		return SexAll, true
	case "1", "M", "Male", "male":
		return SexMale, true
	case "2", "F", "Female", "female":
		return SexFemale, true
	}
	return SexAll, false
}

func (s Sex) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// NameRecord is one cleaned row of the births table.
type NameRecord struct {
	Sex        Sex    `json:"sex"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// AggregateEntry is the sum of counts for one group. Fields that were not part
// of the grouping key are left at their zero value.
type AggregateEntry struct {
	Sex        Sex    `json:"sex,omitempty"`
	Name       string `json:"name,omitempty"`
	Year       int    `json:"year,omitempty"`
	Department string `json:"department,omitempty"`
	Count      int64  `json:"count"`
}

type RankedEntry struct {
	Name       string `json:"name"`
	Sex        Sex    `json:"sex,omitempty"`
	Department string `json:"department,omitempty"`
	Count      int64  `json:"count"`
	Rank       int    `json:"rank"`
	Color      string `json:"color,omitempty"`
}

// DepartmentGeometry is owned by the geo loader. Boundary is never inspected
// by the engine.
type DepartmentGeometry struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Boundary json.RawMessage `json:"boundary,omitempty"`
}

type DepartmentWinner struct {
	DepartmentCode string `json:"department_code"`
	DepartmentName string `json:"department_name"`
	Year           int    `json:"year"`
	Name           string `json:"winning_name"`
	Count          int64  `json:"count"`
}

// Direction selects most (descending) or least (ascending) popular entries.
type Direction string

const (
	Most  Direction = "most"
	Least Direction = "least"
)

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "", "most", "populaire":
		return Most, true
	case "least", "impopulaire":
		return Least, true
	}
	return "", false
}
