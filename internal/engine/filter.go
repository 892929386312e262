package engine

import "prenoms/internal/models"

// Filter constrains a RecordStore. Zero values leave a dimension unconstrained:
// SexAll, an empty Departments set, and a zero YearMin/YearMax.
type Filter struct {
	Sex         models.Sex
	Departments map[string]struct{}
	YearMin     int
	YearMax     int
}

// Year returns a filter matching a single year.
func Year(y int) Filter {
	return Filter{YearMin: y, YearMax: y}
}

// DepartmentSet builds the Departments field from a list of codes.
func DepartmentSet(codes ...string) map[string]struct{} {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Filter returns a new store holding the matching rows. The receiver is not
// modified and the dictionaries are shared.
func (cs *RecordStore) Filter(f Filter) *RecordStore {
	// Resolve department codes to IDs once so the loop compares ints.
	var deptOK []bool
	if len(f.Departments) > 0 {
		deptOK = make([]bool, len(cs.DeptDict))
		for id, code := range cs.DeptDict {
			_, deptOK[id] = f.Departments[code]
		}
	}

	out := &RecordStore{
		NameDict: cs.NameDict,
		DeptDict: cs.DeptDict,
		Stats:    cs.Stats,
	}
	for i := range cs.Years {
		if f.Sex != models.SexAll && cs.Sexes[i] != f.Sex {
			continue
		}
		if f.YearMin != 0 && int(cs.Years[i]) < f.YearMin {
			continue
		}
		if f.YearMax != 0 && int(cs.Years[i]) > f.YearMax {
			continue
		}
		if deptOK != nil && !deptOK[cs.DeptIDs[i]] {
			continue
		}
		out.Sexes = append(out.Sexes, cs.Sexes[i])
		out.Years = append(out.Years, cs.Years[i])
		out.Counts = append(out.Counts, cs.Counts[i])
		out.NameIDs = append(out.NameIDs, cs.NameIDs[i])
		out.DeptIDs = append(out.DeptIDs, cs.DeptIDs[i])
	}
	return out
}
