package engine

import (
	"sort"

	"prenoms/internal/models"
)

// JoinStats counts aggregate departments that had no geometry. Such codes
// (e.g. overseas departments against a simplified map) are expected.
type JoinStats struct {
	Unmapped []string
}

// JoinAndPickWinner returns, for every department present in both inputs, the
// entry with the highest count. Ties go to the lexicographically smallest name.
// Departments with geometry but no data are omitted. The result is sorted by
// department code.
func JoinAndPickWinner(byDept map[string][]models.AggregateEntry, geoms []models.DepartmentGeometry) ([]models.DepartmentWinner, JoinStats) {
	names := make(map[string]string, len(geoms))
	for _, g := range geoms {
		names[g.Code] = g.Name
	}

	var stats JoinStats
	winners := make([]models.DepartmentWinner, 0, len(byDept))
	for code, entries := range byDept {
		deptName, ok := names[code]
		if !ok {
			stats.Unmapped = append(stats.Unmapped, code)
			continue
		}
		if len(entries) == 0 {
			continue
		}

		best := entries[0]
		for _, e := range entries[1:] {
			if less(e, best, models.Most) {
				best = e
			}
		}
		winners = append(winners, models.DepartmentWinner{
			DepartmentCode: code,
			DepartmentName: deptName,
			Year:           best.Year,
			Name:           best.Name,
			Count:          best.Count,
		})
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].DepartmentCode < winners[j].DepartmentCode })
	sort.Strings(stats.Unmapped)
	return winners, stats
}
