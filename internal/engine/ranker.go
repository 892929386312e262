package engine

import (
	"fmt"
	"sort"

	"prenoms/internal/models"
)

// less orders entries for direction d. Count decides first; ties fall back to
// name, then sex and department so the order is total.
func less(a, b models.AggregateEntry, d models.Direction) bool {
	if a.Count != b.Count {
		if d == models.Least {
			return a.Count < b.Count
		}
		return a.Count > b.Count
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Sex != b.Sex {
		return a.Sex < b.Sex
	}
	return a.Department < b.Department
}

// Rank sorts a copy of entries for direction d and keeps the first k.
func Rank(entries []models.AggregateEntry, k int, d models.Direction) ([]models.RankedEntry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", models.ErrConfig, k)
	}
	if d != models.Most && d != models.Least {
		return nil, fmt.Errorf("%w: unknown direction %q", models.ErrConfig, d)
	}

	sorted := make([]models.AggregateEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j], d) })
	if len(sorted) > k {
		sorted = sorted[:k]
	}

	out := make([]models.RankedEntry, len(sorted))
	for i, e := range sorted {
		out[i] = models.RankedEntry{
			Name:       e.Name,
			Sex:        e.Sex,
			Department: e.Department,
			Count:      e.Count,
			Rank:       i + 1,
		}
	}
	return out, nil
}

// TopK ranks every period independently. Periods with no entries are absent
// from the result rather than mapped to an empty slice.
func TopK(byPeriod map[int][]models.AggregateEntry, k int, d models.Direction) (map[int][]models.RankedEntry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", models.ErrConfig, k)
	}

	out := make(map[int][]models.RankedEntry, len(byPeriod))
	for period, entries := range byPeriod {
		if len(entries) == 0 {
			continue
		}
		ranked, err := Rank(entries, k, d)
		if err != nil {
			return nil, err
		}
		out[period] = ranked
	}
	return out, nil
}
