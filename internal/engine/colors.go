package engine

import (
	"sort"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// Palette is the qualitative Set3 scheme. Indexes wrap when there are more
// names than colors.
var Palette = []string{
	"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072",
	"#80B1D3", "#FDB462", "#B3DE69", "#FCCDE5",
	"#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
}

// AssignColors maps each name to Palette[i % len(Palette)] where i is the
// name's position in sorted order. Duplicates are ignored.
func AssignColors(names []string) map[string]string {
	return assignSorted(dedupeSorted(names))
}

func assignSorted(sorted []string) map[string]string {
	out := make(map[string]string, len(sorted))
	for i, n := range sorted {
		out[n] = Palette[i%len(Palette)]
	}
	return out
}

func dedupeSorted(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	uniq := sorted[:0]
	for i, n := range sorted {
		if i > 0 && n == sorted[i-1] {
			continue
		}
		uniq = append(uniq, n)
	}
	return uniq
}

func fingerprint(sorted []string) uint64 {
	h := xxh3.New()
	for _, n := range sorted {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

type colorTable struct {
	sum    uint64
	size   int
	colors map[string]string
}

// ColorAssigner caches the assignment for the last name set it saw. A new set
// builds a fresh table and publishes it with a single pointer swap, so readers
// never see a half-built map.
type ColorAssigner struct {
	current atomic.Pointer[colorTable]
}

func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{}
}

// Assign returns the assignment for names and whether it had to be built.
// A distinct set equal to the cached one returns the cached map. The returned
// map must not be modified.
func (ca *ColorAssigner) Assign(names []string) (map[string]string, bool) {
	sorted := dedupeSorted(names)
	sum := fingerprint(sorted)
	if t := ca.current.Load(); t != nil && t.sum == sum && t.size == len(sorted) {
		return t.colors, false
	}

	t := &colorTable{sum: sum, size: len(sorted), colors: assignSorted(sorted)}
	ca.current.Store(t)
	return t.colors, true
}
