package recruitment

import "testing"

func TestNextEmployeeNumber(t *testing.T) {
	cases := []struct {
		highest string
		want    string
	}{
		{"", "EMP001"},
		{"EMP001", "EMP002"},
		{"EMP009", "EMP010"},
		{"EMP099", "EMP100"},
		{"EMP999", "EMP1000"},
		{"garbage", "EMP001"},
	}
	for _, tc := range cases {
		if got := NextEmployeeNumber(tc.highest); got != tc.want {
			t.Fatalf("NextEmployeeNumber(%q) = %q, want %q", tc.highest, got, tc.want)
		}
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		full, first, last string
	}{
		{"Maria Santos", "Maria", "Santos"},
		{"Jean Claude Van Damme", "Jean", "Claude Van Damme"},
		{"Prince", "Prince", "Unknown"},
		{"", "", "Unknown"},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.full)
		if first != tc.first || last != tc.last {
			t.Fatalf("SplitName(%q) = %q,%q want %q,%q", tc.full, first, last, tc.first, tc.last)
		}
	}
}
