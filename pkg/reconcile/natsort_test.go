package reconcile

import (
	"sort"
	"testing"
)

func TestNaturalCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"BH-1", "BH-2", -1},
		{"BH-2", "BH-10", -1},
		{"BH-10", "BH-2", 1},
		{"BH-10", "BH-10", 0},
		{"SK2", "SK10", -1},
		{"A", "B", -1},
		{"BH-1", "BH-1A", -1},
		{"BH-01", "BH-1", 1}, // equal value, fewer leading zeros first
		{"", "BH-1", -1},
		{"10", "9", 1},
	}

	for _, c := range cases {
		got := NaturalCompare(c.a, c.b)
		if sign(got) != c.want {
			t.Errorf("NaturalCompare(%q, %q) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func TestNaturalCompareSortOrder(t *testing.T) {
	names := []string{"BH-10", "BH-2", "BH-1", "BH-21", "BH-3"}
	sort.Slice(names, func(i, j int) bool { return NaturalCompare(names[i], names[j]) < 0 })

	want := []string{"BH-1", "BH-2", "BH-3", "BH-10", "BH-21"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", names, want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
