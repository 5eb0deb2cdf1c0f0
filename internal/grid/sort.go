package grid

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the sort direction of a column. The empty value means the
// rows are shown in their original order.
type Direction string

const (
	DirectionNone Direction = ""
	Ascending     Direction = "asc"
	Descending    Direction = "desc"
)

// Column describes one column of a table of R records.
type Column[R any] struct {
	Key      string
	Label    string
	Accessor func(R) any
	Sortable bool
	// Dates enables the timestamp tier of the comparator for this column.
	Dates bool
	// Filterable columns offer their distinct values as filter options.
	Filterable bool
}

// Value extracts the column value of r. Columns without an accessor yield nil.
func (c Column[R]) Value(r R) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(r)
}

// Columns is an ordered column table.
type Columns[R any] []Column[R]

// Find returns the column with the given key.
func (cs Columns[R]) Find(key string) (Column[R], bool) {
	for _, c := range cs {
		if c.Key == key {
			return c, true
		}
	}
	return Column[R]{}, false
}

// Sortable reports whether key names a sortable column.
func (cs Columns[R]) Sortable(key string) bool {
	c, ok := cs.Find(key)
	return ok && c.Sortable
}

// SortState is the tri-state sort of a table. Column and Direction are either
// both empty or both set.
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a column is sorted.
func (s SortState) Active() bool {
	return s.Column != "" && s.Direction != DirectionNone
}

// Click advances the sort state for a click on the header of key. Clicking a
// new column sorts it ascending, a second click sorts descending and a third
// click returns to the unsorted order.
func (s SortState) Click(key string, sortable bool) SortState {
	if !sortable {
		return s
	}
	if s.Column != key || !s.Active() {
		return SortState{Column: key, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return SortState{Column: key, Direction: Descending}
	}
	return SortState{}
}

// Indicator returns the header marker for the column key.
func (s SortState) Indicator(key string) string {
	if !s.Active() || s.Column != key {
		return ""
	}
	if s.Direction == Descending {
		return "▼"
	}
	return "▲"
}

// ParseSort parses "key", "key:asc" or "key:desc". An empty value is the
// unsorted state.
func ParseSort(raw string) (SortState, error) {
	if raw == "" {
		return SortState{}, nil
	}
	i := strings.LastIndexByte(raw, ':')
	if i < 0 {
		return SortState{Column: raw, Direction: Ascending}, nil
	}
	key, dir := raw[:i], raw[i+1:]
	if key == "" {
		return SortState{}, fmt.Errorf("invalid sort %q: missing column", raw)
	}
	switch Direction(dir) {
	case Ascending, Descending:
		return SortState{Column: key, Direction: Direction(dir)}, nil
	default:
		return SortState{}, fmt.Errorf("invalid sort direction %q, must be one of [asc desc]", dir)
	}
}

// SortRecords returns the records ordered by state. The input slice is never
// modified. Ties keep their original relative order in both directions.
func SortRecords[R any](records []R, columns Columns[R], state SortState, c *Comparator) []R {
	out := slices.Clone(records)
	if !state.Active() {
		return out
	}
	col, ok := columns.Find(state.Column)
	if !ok || !col.Sortable {
		return out
	}
	if c == nil {
		c = DefaultComparator()
	}

	keys := make([]any, len(out))
	idx := make([]int, len(out))
	for i := range out {
		idx[i] = i
		keys[i] = col.Value(out[i])
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		r := c.Compare(keys[a], keys[b], col.Dates)
		if state.Direction == Descending {
			return -r
		}
		return r
	})

	sorted := make([]R, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}
