package staffing

import "testing"

func TestTotalAllocationPercentCountsPlannedAndActive(t *testing.T) {
	allocations := []Allocation{
		{AllocationPercent: 40, Status: AllocationStatusActive},
		{AllocationPercent: 30, Status: AllocationStatusPlanned},
		{AllocationPercent: 50, Status: AllocationStatusCompleted},
	}
	if got := TotalAllocationPercent(allocations); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}

func TestTotalAllocationPercentEmpty(t *testing.T) {
	if got := TotalAllocationPercent(nil); got != 0 {
		t.Fatalf("expected 0 for no allocations, got %d", got)
	}
}

func TestNextProjectNumber(t *testing.T) {
	cases := []struct {
		highest string
		want    string
	}{
		{"", "PRJ001"},
		{"PRJ001", "PRJ002"},
		{"PRJ009", "PRJ010"},
		{"PRJ099", "PRJ100"},
		{"PRJ999", "PRJ1000"},
		{"garbage", "PRJ001"},
		{"PRJabc", "PRJ001"},
	}
	for _, tc := range cases {
		if got := NextProjectNumber(tc.highest); got != tc.want {
			t.Fatalf("NextProjectNumber(%q) = %q, want %q", tc.highest, got, tc.want)
		}
	}
}

func TestTotalAllocationPercentIdempotent(t *testing.T) {
	allocations := []Allocation{
		{AllocationPercent: 25, Status: AllocationStatusActive},
		{AllocationPercent: 25, Status: AllocationStatusActive},
	}
	first := TotalAllocationPercent(allocations)
	second := TotalAllocationPercent(allocations)
	if first != second || first != 50 {
		t.Fatalf("expected stable 50, got %d then %d", first, second)
	}
}
