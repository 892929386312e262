package engine

import (
	"fmt"
	"sort"
	"strconv"

	"prenoms/internal/models"
)

// Field names one column of a NameRecord usable as a grouping key.
type Field int

const (
	FieldSex Field = iota + 1
	FieldName
	FieldYear
	FieldDepartment
)

func (f Field) String() string {
	switch f {
	case FieldSex:
		return "sex"
	case FieldName:
		return "name"
	case FieldYear:
		return "year"
	case FieldDepartment:
		return "department"
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

func ParseField(s string) (Field, error) {
	switch s {
	case "sex", "sexe":
		return FieldSex, nil
	case "name", "preusuel":
		return FieldName, nil
	case "year", "annais":
		return FieldYear, nil
	case "department", "dept", "dpt":
		return FieldDepartment, nil
	}
	return 0, fmt.Errorf("%w: unknown field %q", models.ErrConfig, s)
}

// groupKey packs the key tuple. Fields outside the grouping are -1.
type groupKey struct {
	sex  int8
	year int32
	name int32
	dept int32
}

type keyMask struct {
	sex, name, year, dept bool
}

func maskFor(fields []Field) (keyMask, error) {
	var m keyMask
	for _, f := range fields {
		var slot *bool
		switch f {
		case FieldSex:
			slot = &m.sex
		case FieldName:
			slot = &m.name
		case FieldYear:
			slot = &m.year
		case FieldDepartment:
			slot = &m.dept
		default:
			return m, fmt.Errorf("%w: unknown field %v", models.ErrConfig, f)
		}
		if *slot {
			return m, fmt.Errorf("%w: duplicate key field %v", models.ErrConfig, f)
		}
		*slot = true
	}
	return m, nil
}

func (cs *RecordStore) keyAt(i int, m keyMask) groupKey {
	k := groupKey{sex: -1, year: -1, name: -1, dept: -1}
	if m.sex {
		k.sex = int8(cs.Sexes[i])
	}
	if m.year {
		k.year = cs.Years[i]
	}
	if m.name {
		k.name = cs.NameIDs[i]
	}
	if m.dept {
		k.dept = cs.DeptIDs[i]
	}
	return k
}

// GroupSum sums Count over every distinct tuple of the given fields. With no
// fields it yields a single total entry (or nothing for an empty store).
// The result is sorted by year, department, sex then name.
func GroupSum(cs *RecordStore, fields ...Field) ([]models.AggregateEntry, error) {
	m, err := maskFor(fields)
	if err != nil {
		return nil, err
	}

	sums := make(map[groupKey]int64)
	for i := range cs.Years {
		sums[cs.keyAt(i, m)] += cs.Counts[i]
	}

	out := make([]models.AggregateEntry, 0, len(sums))
	for k, total := range sums {
		e := models.AggregateEntry{Count: total}
		if k.sex >= 0 {
			e.Sex = models.Sex(k.sex)
		}
		if k.year >= 0 {
			e.Year = int(k.year)
		}
		if k.name >= 0 {
			e.Name = cs.NameDict[k.name]
		}
		if k.dept >= 0 {
			e.Department = cs.DeptDict[k.dept]
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		if a.Sex != b.Sex {
			return a.Sex < b.Sex
		}
		return a.Name < b.Name
	})
	return out, nil
}

// FrequencyMap maps each value of field to its summed count. Zero totals are
// omitted. An empty store yields an empty, non-nil map.
func FrequencyMap(cs *RecordStore, field Field) (map[string]int64, error) {
	var key func(i int) string
	switch field {
	case FieldName:
		key = func(i int) string { return cs.NameDict[cs.NameIDs[i]] }
	case FieldDepartment:
		key = func(i int) string { return cs.DeptDict[cs.DeptIDs[i]] }
	case FieldYear:
		key = func(i int) string { return strconv.Itoa(int(cs.Years[i])) }
	case FieldSex:
		key = func(i int) string { return cs.Sexes[i].String() }
	default:
		return nil, fmt.Errorf("%w: unknown field %v", models.ErrConfig, field)
	}

	freq := make(map[string]int64)
	for i := range cs.Years {
		if cs.Counts[i] == 0 {
			continue
		}
		freq[key(i)] += cs.Counts[i]
	}
	return freq, nil
}

// ByPeriod buckets entries by Year. Years with no entries are absent.
func ByPeriod(entries []models.AggregateEntry) map[int][]models.AggregateEntry {
	out := make(map[int][]models.AggregateEntry)
	for _, e := range entries {
		out[e.Year] = append(out[e.Year], e)
	}
	return out
}

// ByDepartment buckets entries by Department code.
func ByDepartment(entries []models.AggregateEntry) map[string][]models.AggregateEntry {
	out := make(map[string][]models.AggregateEntry)
	for _, e := range entries {
		out[e.Department] = append(out[e.Department], e)
	}
	return out
}
