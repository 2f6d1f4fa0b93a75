package interval

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func r(start, end string) Range { return Range{Start: d(start), End: d(end)} }

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	if got := Merge(nil); got != nil {
		t.Fatalf("merge of empty input = %v, want nil", got)
	}
}

func TestMerge_Single(t *testing.T) {
	t.Parallel()

	in := []Range{r("2023-01-01", "2023-01-04")}
	got := Merge(in)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("single range changed (-want +got):\n%s", diff)
	}
}

func TestMerge_Overlapping(t *testing.T) {
	t.Parallel()

	in := []Range{r("2023-01-01", "2023-01-04"), r("2023-01-03", "2023-01-05")}
	want := []Range{r("2023-01-01", "2023-01-05")}
	if diff := cmp.Diff(want, Merge(in)); diff != "" {
		t.Fatalf("overlap merge (-want +got):\n%s", diff)
	}
}

func TestMerge_GapStaysSplit(t *testing.T) {
	t.Parallel()

	in := []Range{r("2023-01-01", "2023-01-02"), r("2023-01-05", "2023-01-06")}
	got := Merge(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 intervals across a gap, got %d: %v", len(got), got)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("gap merge (-want +got):\n%s", diff)
	}
}

func TestMerge_TouchingBoundaryMerges(t *testing.T) {
	t.Parallel()

	in := []Range{r("2025-01-05", "2025-01-10"), r("2025-01-10", "2025-01-18")}
	want := []Range{r("2025-01-05", "2025-01-18")}
	if diff := cmp.Diff(want, Merge(in)); diff != "" {
		t.Fatalf("touching merge (-want +got):\n%s", diff)
	}
}

func TestMerge_ContainedRangeDoesNotShrinkEnd(t *testing.T) {
	t.Parallel()

	in := []Range{r("2025-01-01", "2025-01-20"), r("2025-01-05", "2025-01-10")}
	want := []Range{r("2025-01-01", "2025-01-20")}
	if diff := cmp.Diff(want, Merge(in)); diff != "" {
		t.Fatalf("contained merge (-want +got):\n%s", diff)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	in := []Range{
		r("2025-01-01", "2025-01-10"),
		r("2025-01-07", "2025-01-20"),
		r("2025-02-01", "2025-02-05"),
	}
	once := Merge(in)
	twice := Merge(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("merge not idempotent (-once +twice):\n%s", diff)
	}
}

func TestSortByStart(t *testing.T) {
	t.Parallel()

	in := []Range{r("2025-01-07", "2025-01-20"), r("2025-01-01", "2025-01-10")}
	SortByStart(in)
	want := []Range{r("2025-01-01", "2025-01-10"), r("2025-01-07", "2025-01-20")}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Fatalf("sort (-want +got):\n%s", diff)
	}
}

func TestContains_Reflexive(t *testing.T) {
	t.Parallel()

	cov := []Range{r("2025-01-01", "2025-01-20")}
	if !Contains(cov, cov[0]) {
		t.Fatal("query equal to a coverage interval must be contained")
	}
}

func TestContains_InsideSingleInterval(t *testing.T) {
	t.Parallel()

	cov := Merge([]Range{r("2025-01-01", "2025-01-10"), r("2025-01-07", "2025-01-20")})
	if !Contains(cov, r("2025-01-08", "2025-01-16")) {
		t.Fatal("range inside merged interval must be contained")
	}
}

func TestContains_BeyondEndRejected(t *testing.T) {
	t.Parallel()

	cov := Merge([]Range{r("2025-01-01", "2025-01-10"), r("2025-01-07", "2025-01-20")})
	if Contains(cov, r("2025-01-16", "2025-01-25")) {
		t.Fatal("range past the merged end must be rejected")
	}
}

func TestContains_BeforeFirstInterval(t *testing.T) {
	t.Parallel()

	cov := []Range{r("2025-01-10", "2025-01-20")}
	if Contains(cov, r("2025-01-01", "2025-01-12")) {
		t.Fatal("range starting before all coverage must be rejected")
	}
}

func TestContains_SpanningGapRejected(t *testing.T) {
	t.Parallel()

	// union of both intervals covers the query, but no single interval does
	cov := []Range{r("2025-01-01", "2025-01-05"), r("2025-01-06", "2025-01-12")}
	if Contains(cov, r("2025-01-03", "2025-01-09")) {
		t.Fatal("range spanning two intervals must be rejected even if their union covers it")
	}
}

func TestContains_EmptyCoverage(t *testing.T) {
	t.Parallel()

	if Contains(nil, r("2025-01-01", "2025-01-02")) {
		t.Fatal("empty coverage contains nothing")
	}
}
