package grid

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompare_Tiers(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{name: "both null", a: nil, b: nil, want: 0},
		{name: "null first", a: nil, b: "x", want: -1},
		{name: "null first reversed", a: 0, b: nil, want: 1},
		{name: "typed nil pointer is null", a: (*string)(nil), b: "", want: -1},
		{name: "numeric strings compare as numbers", a: "10", b: "9", want: 1},
		{name: "mixed number kinds", a: int64(3), b: 2.5, want: 1},
		{name: "json number", a: json.Number("1.5"), b: "1.50", want: 0},
		{name: "bool as number", a: false, b: true, want: -1},
		{name: "case insensitive strings", a: "apple", b: "Banana", want: -1},
		{name: "equal ignoring case", a: "ACME", b: "acme", want: 0},
		{name: "digit runs compare numerically", a: "item2", b: "item10", want: -1},
		{name: "empty string is not numeric", a: "", b: "0", want: -1},
		{name: "number against word", a: "5", b: "five", want: -1},
		{name: "infinity spellings are words", a: "Inf", b: "Infinity", want: -1},
		{name: "negative infinity is not a number", a: "-Inf", b: "5", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			require.Equal(t, tt.want, sign(got))
		})
	}
}

func TestCompare_Symmetry(t *testing.T) {
	values := []any{
		nil, "", "0", "10", "9", 3, 2.5, "apple", "Apple", "banana",
		"2024-01-02", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), true, json.Number("7"),
	}
	c := NewComparator("en")
	for _, dates := range []bool{false, true} {
		for _, a := range values {
			for _, b := range values {
				require.Equal(t, sign(c.Compare(a, b, dates)), -sign(c.Compare(b, a, dates)),
					"compare(%v, %v, dates=%t)", a, b, dates)
			}
		}
	}
}

func TestCompare_Dates(t *testing.T) {
	c := DefaultComparator()

	require.Negative(t, c.Compare("2024-03-01", "2024-12-31T10:00:00Z", true))
	require.Positive(t, c.Compare(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2024-06-30", true))
	require.Zero(t, c.Compare("2024-01-01T00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true))

	// Without the date tier the values fall through to the string tier.
	require.Equal(t, -1, sign(c.Compare("Mon, 02 Jan 2006 15:04:05 MST", "Tue, 01 Jan 2006 15:04:05 MST", false)))
	// With it they compare chronologically.
	require.Equal(t, 1, sign(c.Compare("Mon, 02 Jan 2006 15:04:05 MST", "Tue, 01 Jan 2006 15:04:05 MST", true)))
}

func TestCompare_UnknownLocaleFallsBack(t *testing.T) {
	c := NewComparator("not a locale!")
	require.Negative(t, c.Compare("a", "b", false))
}

func TestCompare_ConcurrentUse(t *testing.T) {
	c := NewComparator("")
	results := make([]int, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				results[i] += sign(c.Compare("alpha", "beta", false))
			}
		}()
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, -100, r)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
