package report

import (
	"log/slog"
	"slices"
	"strings"
)

// Set maps a category token to its reports, ordered newest first.
type Set map[string][]Report

// NewSet groups reports by category and orders each category newest first.
//
// Two reports in the same category can carry the same timestamp if the
// producer generated them faster than the file name time resolution. The
// order between them is then decided by file name, descending, so the last
// classified report wins. The collision is logged since retention may end up
// deleting a near-duplicate.
func NewSet(l *slog.Logger, reports []Report) Set {
	set := make(Set)
	for _, r := range reports {
		set[r.Category] = append(set[r.Category], r)
	}

	for category, rs := range set {
		slices.SortFunc(rs, func(a, b Report) int {
			if c := b.Time.Compare(a.Time); c != 0 {
				return c
			}
			return strings.Compare(b.Name, a.Name)
		})

		for i := 1; i < len(rs); i++ {
			if rs[i].Time.Equal(rs[i-1].Time) {
				l.Warn("Reports share the same timestamp, ordering by file name",
					"category", category, "first", rs[i-1].Name, "then", rs[i].Name)
			}
		}
	}

	return set
}

// Categories returns the category tokens present in the set, sorted.
func (s Set) Categories() []string {
	categories := make([]string, 0, len(s))
	for c := range s {
		categories = append(categories, c)
	}
	slices.Sort(categories)
	return categories
}

// Count returns the total number of reports in the set.
func (s Set) Count() int {
	n := 0
	for _, rs := range s {
		n += len(rs)
	}
	return n
}
