// Package interval implements calendar date range merging and containment checks
package interval

import (
	"sort"
	"time"
)

// Range is a closed calendar date range
// Start and End are UTC midnights with Start <= End
type Range struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the range is well formed
func (r Range) Valid() bool { return !r.End.Before(r.Start) }

// SortByStart orders ranges ascending by Start in place
// Merge requires this order, callers that cannot guarantee it sort first
func SortByStart(rs []Range) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start.Before(rs[j].Start) })
}

// Merge collapses sorted ranges into the minimal disjoint coverage set
//
// Input must already be sorted ascending by Start, Merge does not sort and
// unsorted input produces a wrong answer rather than an error. Touching
// ranges (next.Start == last.End) merge into one, a strict gap
// (next.Start > last.End) starts a new interval. O(n) over sorted input.
func Merge(sorted []Range) []Range {
	if len(sorted) == 0 {
		return nil
	}
	out := make([]Range, 0, len(sorted))
	for _, r := range sorted {
		if len(out) == 0 || r.Start.After(out[len(out)-1].End) {
			out = append(out, r)
			continue
		}
		last := &out[len(out)-1]
		if r.End.After(last.End) {
			last.End = r.End
		}
	}
	return out
}

// Contains reports whether q is fully covered by exactly one interval of cov
//
// cov must be sorted and disjoint, the output shape of Merge. Coverage from
// the union of several intervals does not count, a query spanning a gap or
// two intervals is rejected. Fail closed.
func Contains(cov []Range, q Range) bool {
	if len(cov) == 0 {
		return false
	}
	// rightmost interval with Start <= q.Start
	pos := sort.Search(len(cov), func(i int) bool { return cov[i].Start.After(q.Start) }) - 1
	if pos < 0 {
		return false
	}
	return !q.Start.Before(cov[pos].Start) && !q.End.After(cov[pos].End)
}
