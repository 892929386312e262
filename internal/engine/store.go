package engine

import (
	"sort"

	"prenoms/internal/models"
)

// RecordStore holds the births table in Struct-of-Arrays format.
// It is never mutated after load; Filter returns a new store that shares the
// dictionaries.
type RecordStore struct {
	// Data Columns (Flat Arrays)
	Sexes  []models.Sex
	Years  []int32
	Counts []int64

	// Dictionary Encoded IDs (0..N)
	NameIDs []int32
	DeptIDs []int32

	// Dictionaries (ID -> String)
	NameDict []string
	DeptDict []string

	Stats LoadStats
}

// LoadStats counts rows absorbed at load time. None of them are errors.
type LoadStats struct {
	Rows        int `json:"rows"`
	Unparsable  int `json:"unparsable"`
	RareNames   int `json:"rare_names"`
	UnknownDept int `json:"unknown_department"`
	OutOfRange  int `json:"out_of_range"`
}

// Dropped is the total number of source rows that did not make it into the store.
func (s LoadStats) Dropped() int {
	return s.Unparsable + s.RareNames + s.UnknownDept + s.OutOfRange
}

func (cs *RecordStore) Len() int {
	return len(cs.Years)
}

func (cs *RecordStore) Record(i int) models.NameRecord {
	return models.NameRecord{
		Sex:        cs.Sexes[i],
		Name:       cs.NameDict[cs.NameIDs[i]],
		Year:       int(cs.Years[i]),
		Department: cs.DeptDict[cs.DeptIDs[i]],
		Count:      cs.Counts[i],
	}
}

// DistinctYears returns the distinct years present, most recent first.
func (cs *RecordStore) DistinctYears() []int {
	seen := make(map[int32]struct{})
	for _, y := range cs.Years {
		seen[y] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, int(y))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Names returns the distinct names referenced by at least one row, sorted.
func (cs *RecordStore) Names() []string {
	used := make([]bool, len(cs.NameDict))
	for _, id := range cs.NameIDs {
		used[id] = true
	}
	out := make([]string, 0, len(cs.NameDict))
	for id, ok := range used {
		if ok {
			out = append(out, cs.NameDict[id])
		}
	}
	sort.Strings(out)
	return out
}

// Departments returns the distinct department codes present, sorted.
func (cs *RecordStore) Departments() []string {
	used := make([]bool, len(cs.DeptDict))
	for _, id := range cs.DeptIDs {
		used[id] = true
	}
	out := make([]string, 0, len(cs.DeptDict))
	for id, ok := range used {
		if ok {
			out = append(out, cs.DeptDict[id])
		}
	}
	sort.Strings(out)
	return out
}

func (cs *RecordStore) TotalForYear(year int) int64 {
	var total int64
	for i, y := range cs.Years {
		if int(y) == year {
			total += cs.Counts[i]
		}
	}
	return total
}
